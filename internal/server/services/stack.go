package services

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/cache"
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/session"
)

// Stack is every service wired to one database, cache and session store.
type Stack struct {
	Hasher      *cryptox.Hasher
	Permissions *PermissionStore
	Groups      *GroupStore
	Users       *UserRepository
	Sessions    *SessionManager
}

// NewStack builds the services from cfg. It fails when cfg has no secret key.
func NewStack(db dbx.DBTX, m repomanager.RepositoryManager, c cache.Cache, store session.Store, cfg *config.Config, log logging.Logger) (*Stack, error) {
	st := NewDataStack(db, m, c, cfg, log)

	sessions, err := NewSessionManager(cfg.SecretKey, cfg.SessionKeyName, st.Users, st.Hasher, store, log)
	if err != nil {
		return nil, err
	}
	st.Sessions = sessions
	return st, nil
}

// NewDataStack builds the hasher, catalogs and user repository from cfg and
// leaves Sessions nil. It needs no secret key.
func NewDataStack(db dbx.DBTX, m repomanager.RepositoryManager, c cache.Cache, cfg *config.Config, log logging.Logger) *Stack {
	hasher := NewHasher(cfg)

	perms := NewPermissionStore(db, m, c, log)
	groups := NewGroupStore(db, m, c, log)
	users := NewUserRepository(db, m, c, groups, hasher, log)

	return &Stack{Hasher: hasher, Permissions: perms, Groups: groups, Users: users}
}

// NewHasher builds the password hasher from cfg's cost and memory. Run
// cfg.ValidateHashing first; out-of-range values are not checked here.
func NewHasher(cfg *config.Config) *cryptox.Hasher {
	return cryptox.NewHasher(uint32(cfg.PasswordCost), cryptox.WithMemory(uint32(cfg.PasswordMemory)))
}

// FlushPermissions drops the stack's cached permission and group catalogs.
func (s *Stack) FlushPermissions(ctx context.Context) error {
	return FlushPermissions(ctx, s.Permissions, s.Groups)
}
