// Package admin implements authctl, the administrative command line. It
// works directly on the database through the same services as the server.
package admin

import (
	"context"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/cache"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/dmitrijs2005/gophauth/internal/server/shared/db"
)

// Env is an open database with the services the commands use.
type Env struct {
	handle *db.Handle
	perms  *services.PermissionStore
	groups *services.GroupStore
	users  *services.UserRepository
}

func (e *Env) Close() error {
	return e.handle.Close()
}

// Opener builds an Env from the config file at path ("" for defaults).
type Opener func(ctx context.Context, path string) (*Env, error)

// OpenEnv is the default Opener. The secret key is not needed here, so a
// config without one is accepted.
func OpenEnv(ctx context.Context, path string) (*Env, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateHashing(); err != nil {
		return nil, err
	}

	h, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	log := logging.NewTextLogger(os.Stderr, slog.LevelWarn)
	st := services.NewDataStack(h.DB, h.Manager, cache.NewMemory(0), cfg, log)

	return &Env{handle: h, perms: st.Permissions, groups: st.Groups, users: st.Users}, nil
}
