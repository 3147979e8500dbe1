package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uslanozan/asset-smith/config"
	"github.com/uslanozan/asset-smith/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	c := config.Default()
	c.LogMode = "test"
	c.DB.DSN = filepath.Join(dir, "assets.db")
	c.Memory.Path = filepath.Join(dir, "memory.db")
	return c
}

func TestNewApp(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(t), logger.Nop())
	require.NoError(t, err)
	defer app.Close()

	require.NotNil(t, app.Repo)
	require.NotNil(t, app.Memory)
	assert.Len(t, app.Registry.Specs(), 1)

	router := app.Router()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestNewApp_BadMemoryBackend(t *testing.T) {
	c := testConfig(t)
	c.Memory.Backend = "etcd"

	app, err := NewApp(context.Background(), c, logger.Nop())
	assert.Error(t, err)
	assert.Nil(t, app)
}

func TestWriteSchema(t *testing.T) {
	dir := t.TempDir()
	path, err := writeSchema(dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(data)
	for _, want := range []string{"asset_create", "purchase_date", `"format": "date"`, "agent_response", "question"} {
		assert.Contains(t, body, want)
	}
}
