package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/axelar-network/solana-bridge/pkg/relayer/config"
)

var testDB *sql.DB

func TestMain(m *testing.M) {
	connStr := os.Getenv("RELAYER_TEST_DB")
	if connStr == "" {
		os.Exit(0)
	}
	var err error
	testDB, err = sql.Open("postgres", connStr)
	if err != nil {
		panic("failed to connect to test database: " + err.Error())
	}
	code := m.Run()
	testDB.Close()
	os.Exit(code)
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	if testDB == nil {
		t.Skip("test database not configured; set RELAYER_TEST_DB")
	}
	connStr := os.Getenv("RELAYER_TEST_DB")
	c, err := NewClient(&config.Config{DatabaseURL: connStr})
	require.NoError(t, err)
	require.NoError(t, c.MigrateUp(context.Background()))
	return c
}

// TestRecordSignatureIdempotence mirrors spec.md §4.7: same value is a
// no-op, different value is a conflict.
func TestRecordSignatureIdempotence(t *testing.T) {
	c := newTestClient(t)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.RecordSignature(ctx, "msg-1", "sig-A"))
	require.NoError(t, c.RecordSignature(ctx, "msg-1", "sig-A"))

	err := c.RecordSignature(ctx, "msg-1", "sig-B")
	require.ErrorIs(t, err, ErrSignatureConflict)

	got, err := c.LookupSignature(ctx, "msg-1")
	require.NoError(t, err)
	require.Equal(t, "sig-A", got)
}

func TestLookupSignatureMissing(t *testing.T) {
	c := newTestClient(t)
	defer c.Close()

	_, err := c.LookupSignature(context.Background(), "does-not-exist")
	require.ErrorIs(t, err, sql.ErrNoRows)
}
