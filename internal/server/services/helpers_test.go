package services

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/cache"
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/groups"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/permissions"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

const seedSQL = `
INSERT INTO user_permission (id, "key", title) VALUES (1, 'view', 'View'), (2, 'edit', 'Edit'), (3, 'delete', 'Delete');
INSERT INTO user_group (id, title) VALUES (1, 'admins'), (2, 'editors'), (3, 'guests');
INSERT INTO user_group_permission (group_id, permission_id) VALUES (1, 1), (1, 2), (1, 3), (2, 1), (2, 2);
`

var testNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

// countingManager counts repository reads so tests can tell cache hits from
// database reads.
type countingManager struct {
	repomanager.RepositoryManager

	mu         sync.Mutex
	permLists  int
	groupLists int
	userReads  int

	// afterGroupList and afterUserRead run once the database read has
	// returned, before the service caches the result.
	afterGroupList func()
	afterUserRead  func()
}

func (c *countingManager) inc(n *int) {
	c.mu.Lock()
	*n++
	c.mu.Unlock()
}

func (c *countingManager) counts() (perms, groups, users int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.permLists, c.groupLists, c.userReads
}

type countingPermissions struct {
	permissions.Repository
	m *countingManager
}

func (r countingPermissions) List(ctx context.Context) ([]models.Permission, error) {
	r.m.inc(&r.m.permLists)
	return r.Repository.List(ctx)
}

type countingGroups struct {
	groups.Repository
	m *countingManager
}

func (r countingGroups) List(ctx context.Context) (models.Groups, error) {
	r.m.inc(&r.m.groupLists)
	groups, err := r.Repository.List(ctx)
	if r.m.afterGroupList != nil {
		r.m.afterGroupList()
	}
	return groups, err
}

type countingUsers struct {
	users.Repository
	m *countingManager
}

func (r countingUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.m.inc(&r.m.userReads)
	u, err := r.Repository.GetByID(ctx, id)
	if r.m.afterUserRead != nil {
		r.m.afterUserRead()
	}
	return u, err
}

// pauseOnce returns a hook that blocks its first caller until release is
// closed, signalling loaded when it starts waiting.
func pauseOnce() (hook func(), loaded <-chan struct{}, release chan<- struct{}) {
	l := make(chan struct{})
	r := make(chan struct{})
	var once sync.Once
	return func() {
		once.Do(func() {
			close(l)
			<-r
		})
	}, l, r
}

func (c *countingManager) Permissions(db dbx.DBTX) permissions.Repository {
	return countingPermissions{Repository: c.RepositoryManager.Permissions(db), m: c}
}

func (c *countingManager) Groups(db dbx.DBTX) groups.Repository {
	return countingGroups{Repository: c.RepositoryManager.Groups(db), m: c}
}

func (c *countingManager) Users(db dbx.DBTX) users.Repository {
	return countingUsers{Repository: c.RepositoryManager.Users(db), m: c}
}

type testEnv struct {
	db      *sql.DB
	repos   *countingManager
	cache   *cache.Memory
	hasher  *cryptox.Hasher
	perms   *PermissionStore
	groups  *GroupStore
	users   *UserRepository
	clock   time.Time
	clockMu sync.Mutex
}

func (e *testEnv) now() time.Time {
	e.clockMu.Lock()
	defer e.clockMu.Unlock()
	return e.clock
}

func (e *testEnv) advance(d time.Duration) {
	e.clockMu.Lock()
	e.clock = e.clock.Add(d)
	e.clockMu.Unlock()
}

func newTestHasher() *cryptox.Hasher {
	return cryptox.NewHasher(1, cryptox.WithMemory(64), cryptox.WithThreads(1))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	dsn := "file:" + strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + "?mode=memory&cache=shared"
	db, err := sql.Open(dbx.SQLite.Driver, dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	m := repomanager.NewSQLRepositoryManager(dbx.SQLite, users.Schema{})
	require.NoError(t, m.RunMigrations(ctx, db))
	_, err = db.ExecContext(ctx, seedSQL)
	require.NoError(t, err)

	e := &testEnv{
		db:     db,
		repos:  &countingManager{RepositoryManager: m},
		cache:  cache.NewMemory(0),
		hasher: newTestHasher(),
		clock:  testNow,
	}
	log := logging.Discard()
	e.perms = NewPermissionStore(db, e.repos, e.cache, log)
	e.groups = NewGroupStore(db, e.repos, e.cache, log)
	e.users = NewUserRepository(db, e.repos, e.cache, e.groups, e.hasher, log).WithClock(e.now)
	return e
}

func (e *testEnv) exec(t *testing.T, query string, args ...any) {
	t.Helper()
	_, err := e.db.ExecContext(context.Background(), query, args...)
	require.NoError(t, err)
}
