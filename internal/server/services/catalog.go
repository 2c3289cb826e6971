package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/cache"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
)

const (
	permissionsCacheKey = "user_permissions"
	groupsCacheKey      = "user_groups"
)

// PermissionStore serves the permission catalog through the cache.
type PermissionStore struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	cache       cache.Cache
	log         logging.Logger
}

func NewPermissionStore(db dbx.DBTX, m repomanager.RepositoryManager, c cache.Cache, log logging.Logger) *PermissionStore {
	return &PermissionStore{db: db, repomanager: m, cache: c, log: log.With("module", "permissions")}
}

// List returns every permission ordered by id.
func (s *PermissionStore) List(ctx context.Context) ([]models.Permission, error) {
	return readThrough(ctx, s.cache, s.log, permissionsCacheKey, func(ctx context.Context) ([]models.Permission, error) {
		list, err := s.repomanager.Permissions(s.db).List(ctx)
		if err != nil {
			s.log.Error(ctx, "listing permissions", "error", err)
			return nil, fmt.Errorf("error listing permissions: %w", err)
		}
		return list, nil
	})
}

// Invalidate drops the cached catalog; the next List reads the database.
func (s *PermissionStore) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, permissionsCacheKey)
}

// GroupStore serves groups with their permissions through the cache.
type GroupStore struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	cache       cache.Cache
	log         logging.Logger
}

func NewGroupStore(db dbx.DBTX, m repomanager.RepositoryManager, c cache.Cache, log logging.Logger) *GroupStore {
	return &GroupStore{db: db, repomanager: m, cache: c, log: log.With("module", "groups")}
}

func (s *GroupStore) List(ctx context.Context) (models.Groups, error) {
	return readThrough(ctx, s.cache, s.log, groupsCacheKey, func(ctx context.Context) (models.Groups, error) {
		groups, err := s.repomanager.Groups(s.db).List(ctx)
		if err != nil {
			s.log.Error(ctx, "listing groups", "error", err)
			return nil, fmt.Errorf("error listing groups: %w", err)
		}
		return groups, nil
	})
}

// Get returns the group with id. A missing group is reported through the
// bool, not as an error.
func (s *GroupStore) Get(ctx context.Context, id int64) (models.Group, bool, error) {
	groups, err := s.List(ctx)
	if err != nil {
		return models.Group{}, false, err
	}
	g, ok := groups[id]
	return g, ok, nil
}

func (s *GroupStore) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, groupsCacheKey)
}

// FlushPermissions drops both cached catalogs. Call it after editing
// permissions, groups or their assignments.
func FlushPermissions(ctx context.Context, p *PermissionStore, g *GroupStore) error {
	return errors.Join(p.Invalidate(ctx), g.Invalidate(ctx))
}
