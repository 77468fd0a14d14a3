package cli

import (
	gocontext "context"
	"os"

	"github.com/example/fieldreport/internal/ctxutil"
)

// NewContext creates a context for one CLI invocation, tagged with a request
// ID and the OS user as actor so service logs can be correlated.
func NewContext() gocontext.Context {
	ctx := ctxutil.WithRequestID(gocontext.Background(), ctxutil.NewRequestID())
	if user := os.Getenv("USER"); user != "" {
		ctx = ctxutil.WithActor(ctx, user)
	}
	return ctx
}
