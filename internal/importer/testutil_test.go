// internal/importer/testutil_test.go
package importer

import (
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vmunix/plexrename/internal/media"
	_ "modernc.org/sqlite"
)

func setupTestHistory(t *testing.T) *HistoryStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err, "open db")
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	store, err := NewHistoryStore(db)
	require.NoError(t, err, "apply schema")
	return store
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func plan(source, target string) media.RenamePlan {
	return media.RenamePlan{Source: source, Target: target}
}
