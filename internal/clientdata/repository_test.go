package clientdata

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashank1310/SIPSimulator/internal/database"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), "cache.db"),
		Profile: database.ProfileCache,
		Name:    "test-cache",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())

	return NewRepository(db.Conn())
}

type payload struct {
	Name  string  `msgpack:"name"`
	Value float64 `msgpack:"value"`
}

func TestStoreAndGetIfFresh(t *testing.T) {
	repo := newTestRepository(t)

	in := payload{Name: "nifty", Value: 102.5}
	require.NoError(t, repo.Store("nav_history", "k1", in, time.Hour))

	var out payload
	ok, err := repo.GetIfFresh("nav_history", "k1", &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, in, out)
}

func TestGetIfFresh_MissingKey(t *testing.T) {
	repo := newTestRepository(t)

	var out payload
	ok, err := repo.GetIfFresh("nav_history", "missing", &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetIfFresh_ExpiredValueStillReadableViaGet(t *testing.T) {
	repo := newTestRepository(t)

	in := payload{Name: "stale", Value: 1}
	require.NoError(t, repo.Store("nav_history", "k1", in, -time.Minute))

	var out payload
	ok, err := repo.GetIfFresh("nav_history", "k1", &out)
	require.NoError(t, err)
	assert.False(t, ok)

	// Stale fallback path.
	ok, err = repo.Get("nav_history", "k1", &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, in, out)
}

func TestStore_Overwrites(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.Store("fund_meta", "k1", payload{Name: "v1"}, time.Hour))
	require.NoError(t, repo.Store("fund_meta", "k1", payload{Name: "v2"}, time.Hour))

	var out payload
	ok, err := repo.Get("fund_meta", "k1", &out)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v2", out.Name)
}

func TestDelete(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.Store("fund_list", "k1", payload{Name: "v"}, time.Hour))
	require.NoError(t, repo.Delete("fund_list", "k1"))

	var out payload
	ok, err := repo.Get("fund_list", "k1", &out)
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting a missing key is not an error.
	assert.NoError(t, repo.Delete("fund_list", "never-existed"))
}

func TestCleanupExpired(t *testing.T) {
	repo := newTestRepository(t)

	// Within the grace period: kept as a stale fallback.
	require.NoError(t, repo.Store("nav_history", "recent", payload{}, -time.Hour))
	// Far past the grace period: removed.
	require.NoError(t, repo.Store("nav_history", "ancient", payload{}, -60*24*time.Hour))
	require.NoError(t, repo.Store("nav_history", "fresh", payload{}, time.Hour))

	n, err := repo.CleanupExpired(CleanupGrace)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var out payload
	ok, _ := repo.Get("nav_history", "ancient", &out)
	assert.False(t, ok)
	ok, _ = repo.Get("nav_history", "recent", &out)
	assert.True(t, ok)
}

func TestInvalidTableRejected(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.Store("users; DROP TABLE nav_history", "k", payload{}, time.Hour)
	assert.Error(t, err)

	var out payload
	_, err = repo.GetIfFresh("bogus", "k", &out)
	assert.Error(t, err)
	_, err = repo.Get("bogus", "k", &out)
	assert.Error(t, err)
	assert.Error(t, repo.Delete("bogus", "k"))
}
