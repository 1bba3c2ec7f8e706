//go:build integration

package database

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestPgRepository connects to the database named by AQEVIA_TEST_DSN,
// migrates it and empties every table.
func newTestPgRepository(t *testing.T) *PgMudRepository {
	t.Helper()

	dsn := os.Getenv("AQEVIA_TEST_DSN")
	if dsn == "" {
		t.Skip("AQEVIA_TEST_DSN not set")
	}

	require.NoError(t, Migrate(dsn), "failed to migrate test database")

	db, err := NewPgMudRepository(dsn)
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(func() { db.Close() })

	_, err = db.conn.Exec("TRUNCATE items, characters, exits, rooms, accounts")
	require.NoError(t, err, "failed to reset test database")

	return db
}

func TestPgSetCharacterRoom(t *testing.T) {
	testSetCharacterRoom(t, newTestPgRepository(t))
}

func TestPgDeleteRoom(t *testing.T) {
	testDeleteRoom(t, newTestPgRepository(t))
}

func TestPgItemLocation(t *testing.T) {
	testItemLocation(t, newTestPgRepository(t))
}

func TestPgConcurrentMoveItem(t *testing.T) {
	testConcurrentMoveItem(t, newTestPgRepository(t))
}
