// Package httpapi exposes the visit pipeline and directory over HTTP for the
// mobile capture client.
package httpapi

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/fieldreport/internal/ports/primary"
)

// Services are the primary ports the API drives.
type Services struct {
	Visits    primary.VisitService
	Directory primary.DirectoryService
	Sync      primary.SyncService
}

// NewRouter builds the gin engine. Uploaded photos and signatures are stored
// under uploadsDir.
func NewRouter(svc Services, uploadsDir string, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Logger(logger))

	h := &Handler{svc: svc, uploadsDir: uploadsDir, logger: logger}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/clientes", h.ListClients)
	r.POST("/clientes", h.CreateClient)
	r.GET("/tecnicos", h.ListTechnicians)
	r.GET("/usuarios/:cliente", h.ListUsers)

	r.GET("/reportes", h.ListVisits)
	r.GET("/reportes/:id", h.GetVisit)
	r.POST("/reporte/crear", h.CreateVisit)
	r.POST("/sync", h.SyncPending)

	return r
}
