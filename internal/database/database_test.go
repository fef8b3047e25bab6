package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	logger := zerolog.Nop()
	db, err := NewDB(":memory:", &logger)
	require.NoError(t, err)
	return db
}

func TestNewDB_DirectoryCreation(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "db_test_dir")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "nested", "dir", "shop.db")
	logger := zerolog.Nop()

	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, dbPath)
}

func TestDB_Ping(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	assert.NoError(t, db.PingContext(context.Background()))
}

func TestNormalizeLimit(t *testing.T) {
	offset, limit := normalizeLimit(-5, 0)
	assert.Equal(t, 0, offset)
	assert.Equal(t, 20, limit)

	offset, limit = normalizeLimit(10, 500)
	assert.Equal(t, 10, offset)
	assert.Equal(t, 100, limit)

	_, limit = normalizeLimit(0, 7)
	assert.Equal(t, 7, limit)
}
