package db_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonotes/internal/notes/config"
	"gonotes/internal/notes/db"
	"gonotes/pkg/logger"
)

func TestMigrationsURL(t *testing.T) {
	t.Run("absolute path is kept", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "migrations")

		url, err := db.MigrationsURL(dir)

		require.NoError(t, err)
		assert.Equal(t, "file://"+dir, url)
	})

	t.Run("relative path is resolved", func(t *testing.T) {
		url, err := db.MigrationsURL("./migrations/notes")

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "file:///"))
		assert.True(t, strings.HasSuffix(url, filepath.Join("migrations", "notes")))
	})
}

func TestNew_MissingMigrations(t *testing.T) {
	require.NoError(t, logger.InitGlobalLoggerWithLevel(logger.Development, "info"))

	cfg := &config.PostgresConfig{
		Host:          "127.0.0.1",
		Port:          1,
		User:          "postgres",
		Password:      "postgres",
		Database:      "notes",
		MinConn:       1,
		MaxConn:       2,
		MigrationsDir: filepath.Join(t.TempDir(), "absent"),
	}

	database, err := db.New(context.Background(), cfg)

	require.Error(t, err)
	assert.Nil(t, database)
	assert.Contains(t, err.Error(), db.ErrDBMigrations)
}
