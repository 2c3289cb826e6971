package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/cache"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
)

func userCacheKey(id int64) string {
	return fmt.Sprintf("user_%d", id)
}

// UserRepository creates, reads and updates users. Reads are cached per user
// without the password hash; the group is resolved through GroupStore on
// every read.
type UserRepository struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	cache       cache.Cache
	groups      *GroupStore
	hasher      *cryptox.Hasher
	log         logging.Logger
	now         func() time.Time
}

func NewUserRepository(db dbx.DBTX, m repomanager.RepositoryManager, c cache.Cache, groups *GroupStore, hasher *cryptox.Hasher, log logging.Logger) *UserRepository {
	return &UserRepository{
		db:          db,
		repomanager: m,
		cache:       c,
		groups:      groups,
		hasher:      hasher,
		log:         log.With("module", "users"),
		now:         time.Now,
	}
}

// WithClock replaces the clock that stamps created and updated.
func (r *UserRepository) WithClock(now func() time.Time) *UserRepository {
	r.now = now
	return r
}

// UsernameAvailable reports whether no user is registered under username.
func (r *UserRepository) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	exists, err := r.repomanager.Users(r.db).UsernameExists(ctx, username)
	if err != nil {
		return false, fmt.Errorf("error checking username: %w", err)
	}
	return !exists, nil
}

// Create registers a user with a freshly salted password hash and returns
// its id. A taken username yields common.ErrUsernameTaken.
func (r *UserRepository) Create(ctx context.Context, username, password string, groupID int64) (int64, error) {
	available, err := r.UsernameAvailable(ctx, username)
	if err != nil {
		return 0, err
	}
	if !available {
		return 0, common.ErrUsernameTaken
	}

	hash, err := r.hasher.Hash(password, "")
	if err != nil {
		return 0, fmt.Errorf("error hashing password: %w", err)
	}

	now := r.now()
	id, err := r.repomanager.Users(r.db).Create(ctx, &models.User{
		GroupID:      groupID,
		Created:      now,
		Updated:      now,
		UserName:     username,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, common.ErrUsernameTaken) {
			return 0, err
		}
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	r.log.Info(ctx, "user created", "user_id", id, "group_id", groupID)
	return id, nil
}

// Read returns the user with id and its resolved group. An unknown id yields
// common.ErrorNotFound; a group id that does not resolve leaves Group nil.
func (r *UserRepository) Read(ctx context.Context, id int64) (*models.UserView, error) {
	u, err := readThrough(ctx, r.cache, r.log, userCacheKey(id), func(ctx context.Context) (models.User, error) {
		u, err := r.repomanager.Users(r.db).GetByID(ctx, id)
		if err != nil {
			return models.User{}, err
		}
		return *u, nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error reading user: %w", err)
	}

	view := &models.UserView{ID: u.ID, Created: u.Created, Updated: u.Updated, UserName: u.UserName}

	g, ok, err := r.groups.Get(ctx, u.GroupID)
	if err != nil {
		return nil, err
	}
	if ok {
		view.Group = &g
	}
	return view, nil
}

// FindCredentials returns id, group and password hash for username. It is
// never cached.
func (r *UserRepository) FindCredentials(ctx context.Context, username string) (*models.User, error) {
	return r.repomanager.Users(r.db).GetCredentials(ctx, username)
}

// ChangePassword stores a freshly salted hash of password for user id.
func (r *UserRepository) ChangePassword(ctx context.Context, id int64, password string) error {
	hash, err := r.hasher.Hash(password, "")
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	if err := r.repomanager.Users(r.db).UpdatePassword(ctx, id, hash, r.now()); err != nil {
		return err
	}
	return r.invalidate(ctx, id)
}

// ChangeGroup moves user id into groupID.
func (r *UserRepository) ChangeGroup(ctx context.Context, id int64, groupID int64) error {
	if err := r.repomanager.Users(r.db).UpdateGroup(ctx, id, groupID, r.now()); err != nil {
		return err
	}
	return r.invalidate(ctx, id)
}

func (r *UserRepository) invalidate(ctx context.Context, id int64) error {
	if err := r.cache.Delete(ctx, userCacheKey(id)); err != nil {
		r.log.Error(ctx, "user cache invalidation failed", "user_id", id, "error", err)
		return fmt.Errorf("error invalidating user cache: %w", err)
	}
	return nil
}
