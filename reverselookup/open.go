package reverselookup

import (
	"context"

	"github.com/trepgo/opentrep/poterrors"
)

// Open dispatches to the Store implementation named by backend
// ("postgres", "sqlite"). "mysql" is a recognised config value (spec
// §6.3's sqldbtype enum) but has no driver anywhere in this module's
// dependency stack, so it fails fast with UnsupportedBackend rather than
// silently falling back to another engine.
func Open(ctx context.Context, backend, dsn string) (Store, error) {
	switch backend {
	case "postgres":
		return OpenPostgresStore(ctx, dsn)
	case "sqlite":
		return OpenSQLiteStore(dsn)
	case "mysql":
		return nil, poterrors.New(poterrors.UnsupportedBackend, "mysql: no driver available in this build")
	default:
		return nil, poterrors.New(poterrors.UnsupportedBackend, backend)
	}
}
