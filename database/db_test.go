package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/uslanozan/asset-smith/config"
	"github.com/uslanozan/asset-smith/logger"
	"github.com/uslanozan/asset-smith/models"
)

func TestSplitMySQLDSN(t *testing.T) {
	tests := []struct {
		dsn      string
		wantRoot string
		wantName string
		wantOK   bool
	}{
		{
			dsn:      "root:pass@tcp(127.0.0.1:3306)/assets?charset=utf8mb4&parseTime=True",
			wantRoot: "root:pass@tcp(127.0.0.1:3306)/?charset=utf8mb4&parseTime=True",
			wantName: "assets",
			wantOK:   true,
		},
		{
			dsn:      "root:pass@tcp(db:3306)/asset_smith",
			wantRoot: "root:pass@tcp(db:3306)/",
			wantName: "asset_smith",
			wantOK:   true,
		},
		{dsn: "root:pass@tcp(db:3306)/", wantOK: false},
		{dsn: "root:pass@tcp(db:3306)/assets;DROP", wantOK: false},
		{dsn: "no-slash", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			root, name, ok := splitMySQLDSN(tt.dsn)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantRoot, root)
				assert.Equal(t, tt.wantName, name)
			}
		})
	}
}

func TestInitDB_SQLite(t *testing.T) {
	// klasör yoksa oluşturulmalı
	dsn := filepath.Join(t.TempDir(), "nested", "dir", "assets.db")
	db, err := InitDB(config.DBConfig{Driver: config.DriverSQLite, DSN: dsn}, logger.Nop())
	require.NoError(t, err)
	defer Close(db)

	assert.True(t, db.Migrator().HasTable(&models.Asset{}))
	assert.NoError(t, Ping(context.Background(), db))
	assert.Equal(t, "wal", journalMode(t, db))
}

func TestInitDB_UnknownDriver(t *testing.T) {
	_, err := InitDB(config.DBConfig{Driver: "oracle", DSN: "x"}, logger.Nop())
	assert.Error(t, err)
}

func TestInitMemoryDB(t *testing.T) {
	db, err := InitMemoryDB(filepath.Join(t.TempDir(), "memory.db"), logger.Nop())
	require.NoError(t, err)
	defer Close(db)

	assert.True(t, db.Migrator().HasTable(&models.Checkpoint{}))
	assert.True(t, db.Migrator().HasColumn(&models.Checkpoint{}, "tool_name"))
	assert.Equal(t, "wal", journalMode(t, db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "data/assets.db?"+sqlitePragmas, sqliteDSN("data/assets.db"))
	assert.Equal(t, "file:test.db?cache=shared&"+sqlitePragmas, sqliteDSN("file:test.db?cache=shared"))
}

func journalMode(t *testing.T, db *gorm.DB) string {
	t.Helper()
	var mode string
	require.NoError(t, db.Raw("PRAGMA journal_mode").Scan(&mode).Error)
	return mode
}

func TestClose_Nil(t *testing.T) {
	assert.NoError(t, Close(nil))
}
