// Package wire provides dependency injection for the fieldreport application.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"database/sql"
	"io"
	"log"
	"net/http"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/example/fieldreport/internal/adapters/archive"
	cliadapter "github.com/example/fieldreport/internal/adapters/cli"
	"github.com/example/fieldreport/internal/adapters/excel"
	"github.com/example/fieldreport/internal/adapters/graph"
	"github.com/example/fieldreport/internal/adapters/mail"
	"github.com/example/fieldreport/internal/adapters/pdf"
	"github.com/example/fieldreport/internal/adapters/signature"
	"github.com/example/fieldreport/internal/adapters/sqlite"
	"github.com/example/fieldreport/internal/app"
	"github.com/example/fieldreport/internal/clock"
	"github.com/example/fieldreport/internal/config"
	"github.com/example/fieldreport/internal/db"
	"github.com/example/fieldreport/internal/httpapi"
	"github.com/example/fieldreport/internal/logging"
	"github.com/example/fieldreport/internal/ports/primary"
	"github.com/example/fieldreport/internal/ports/secondary"
)

var (
	configPath string

	cfg              *config.Config
	logger           *zap.Logger
	database         *sql.DB
	visitService     primary.VisitService
	deliveryService  primary.DeliveryService
	syncService      primary.SyncService
	backupService    primary.BackupService
	exportService    primary.ExportService
	directoryService primary.DirectoryService
	once             sync.Once
)

// SetConfigPath selects the config file read on first use. Empty means the
// default search path. Must be called before any service accessor.
func SetConfigPath(path string) {
	configPath = path
}

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// Logger returns the shared logger.
func Logger() *zap.Logger {
	once.Do(initServices)
	return logger
}

// VisitService returns the singleton VisitService instance.
func VisitService() primary.VisitService {
	once.Do(initServices)
	return visitService
}

// DeliveryService returns the singleton DeliveryService instance.
func DeliveryService() primary.DeliveryService {
	once.Do(initServices)
	return deliveryService
}

// SyncService returns the singleton SyncService instance.
func SyncService() primary.SyncService {
	once.Do(initServices)
	return syncService
}

// BackupService returns the singleton BackupService instance.
func BackupService() primary.BackupService {
	once.Do(initServices)
	return backupService
}

// ExportService returns the singleton ExportService instance.
func ExportService() primary.ExportService {
	once.Do(initServices)
	return exportService
}

// DirectoryService returns the singleton DirectoryService instance.
func DirectoryService() primary.DirectoryService {
	once.Do(initServices)
	return directoryService
}

// Close flushes the logger and closes the database, if they were opened.
func Close() {
	if logger != nil {
		_ = logger.Sync()
	}
	if database != nil {
		database.Close()
	}
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err = logging.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}

	database, err = db.OpenInitialized(context.Background(), cfg.DBPath())
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Repository adapters (secondary ports) with injected DB
	visitRepo := sqlite.NewVisitRepository(database, logger)
	clientRepo := sqlite.NewClientRepository(database)
	technicianRepo := sqlite.NewTechnicianRepository(database)
	userRepo := sqlite.NewUserRepository(database)

	clk := clock.NewZoned(cfg.Timezone, logger)
	renderer := pdf.NewRenderer(pdf.Options{
		AssetsDir: cfg.AssetsDir,
		OutputDir: cfg.ReportDir(),
		Compress:  true,
	}, logger)
	signatures := signature.NewRasterizer(cfg.ReportDir())

	var graphClient *graph.Client
	if cfg.Mail.Provider == config.ProviderGraph || cfg.Archive.Provider == config.ProviderGraph {
		graphClient = graph.NewClient(cfg.Graph, logger)
	}
	email := emailTransport(cfg, graphClient)
	store := archiveStore(cfg, graphClient)

	// Services (primary ports implementation)
	delivery := app.NewDeliveryService(visitRepo, clientRepo, email, store, cfg.Archive.RootFolder, clk, logger)
	deliveryService = delivery
	visitService = app.NewVisitService(visitRepo, renderer, signatures, delivery, clk, cfg.Checklist.Tasks, logger)
	syncService = app.NewSyncService(visitRepo, delivery, logger)
	backupService = app.NewBackupService(sqlite.NewSnapshotter(database), store, clk, logger)
	exportService = app.NewExportService(visitRepo, excel.NewExporter())
	directoryService = app.NewDirectoryService(clientRepo, technicianRepo, userRepo)

	logger.Debug("services initialized",
		zap.String("db", cfg.DBPath()),
		zap.String("mail", cfg.Mail.Provider),
		zap.String("archive", cfg.Archive.Provider),
	)
}

// emailTransport returns nil when mail is disabled; delivery then reports
// every email as not configured.
func emailTransport(cfg *config.Config, client *graph.Client) secondary.EmailTransport {
	switch cfg.Mail.Provider {
	case config.ProviderSMTP:
		return mail.NewSMTPTransport(cfg.Mail, logger)
	case config.ProviderGraph:
		return graph.NewMailTransport(client, cfg.Graph.Sender)
	default:
		return nil
	}
}

func archiveStore(cfg *config.Config, client *graph.Client) secondary.ArchiveStore {
	switch cfg.Archive.Provider {
	case config.ProviderGraph:
		return graph.NewDriveStore(client, cfg.Graph.DriveID)
	case config.ProviderLocal:
		return archive.NewLocalStore(cfg.Archive.LocalDir)
	default:
		return nil
	}
}

// Router returns the HTTP API handler for the serve command.
func Router() http.Handler {
	once.Do(initServices)
	return httpapi.NewRouter(httpapi.Services{
		Visits:    visitService,
		Directory: directoryService,
		Sync:      syncService,
	}, cfg.HTTP.UploadsDir, logger)
}

// VisitAdapter returns a new VisitAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func VisitAdapter() *cliadapter.VisitAdapter {
	return VisitAdapterWithOutput(os.Stdout)
}

// VisitAdapterWithOutput returns a new VisitAdapter writing to the given output.
func VisitAdapterWithOutput(out io.Writer) *cliadapter.VisitAdapter {
	once.Do(initServices)
	return cliadapter.NewVisitAdapter(visitService, deliveryService, syncService, out)
}

// DirectoryAdapter returns a new DirectoryAdapter writing to stdout.
func DirectoryAdapter() *cliadapter.DirectoryAdapter {
	return DirectoryAdapterWithOutput(os.Stdout)
}

// DirectoryAdapterWithOutput returns a new DirectoryAdapter writing to the given output.
func DirectoryAdapterWithOutput(out io.Writer) *cliadapter.DirectoryAdapter {
	once.Do(initServices)
	return cliadapter.NewDirectoryAdapter(directoryService, out)
}
