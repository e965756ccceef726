package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenForTesting(t *testing.T) {
	db, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })

	var tableName string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='rooms'").Scan(&tableName)
	require.NoError(t, err)
	assert.Equal(t, "rooms", tableName)
}

func TestOpenForTestingIsolated(t *testing.T) {
	first, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = first.Close() })

	second, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	_, err = first.Exec(`INSERT INTO rooms (id, name, price, capacity, type) VALUES ('1', 'Ocean View', 120, 2, 'double')`)
	require.NoError(t, err)

	var n int
	require.NoError(t, second.QueryRow("SELECT COUNT(*) FROM rooms").Scan(&n))
	assert.Zero(t, n)
}

func TestOpenFileMigratesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rooms.db")

	db, err := Open(SQLite, path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening must find the schema already at the latest version.
	db, err = Open(SQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })

	var version int
	require.NoError(t, db.QueryRow("SELECT version FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)
}

func TestRoomConstraints(t *testing.T) {
	db, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`INSERT INTO rooms (id, name, price, capacity, type) VALUES ('neg', 'Cheap', -1, 1, 'single')`)
	assert.Error(t, err, "negative price must be rejected")

	_, err = db.Exec(`INSERT INTO rooms (id, name, price, capacity, type) VALUES ('empty', 'Closet', 10, 0, 'single')`)
	assert.Error(t, err, "zero capacity must be rejected")
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("sqlite")
	require.NoError(t, err)
	assert.Equal(t, SQLite, d)

	d, err = ParseDialect("postgres")
	require.NoError(t, err)
	assert.Equal(t, Postgres, d)

	_, err = ParseDialect("oracle")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	q := "SELECT id FROM rooms WHERE id = ? AND type = ?"

	assert.Equal(t, q, SQLite.Rebind(q))
	assert.Equal(t, "SELECT id FROM rooms WHERE id = $1 AND type = $2", Postgres.Rebind(q))
}
