package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATABASE_PATH", filepath.Join(dir, "app.db"))

	cfg, err := loadConfigFromFile(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "sqlite3", cfg.Database.Dialect())
	assert.True(t, cfg.Database.AutoMigrate)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, []string{"*"}, cfg.CORS.Origins)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  host: 127.0.0.1
  port: 8081
database:
  path: ` + filepath.Join(dir, "db", "app.db") + `
  auto_migrate: false
redis_service:
  host: redis
  max_wait_time: 2
cors:
  origins:
    - http://localhost:5173
`)
	require.NoError(t, os.WriteFile(file, content, 0o644))

	cfg, err := loadConfigFromFile(file)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8081", cfg.Server.GetAddress())
	assert.False(t, cfg.Database.AutoMigrate)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "redis:6379", cfg.Redis.GetAddress())
	assert.Equal(t, 30, cfg.Redis.LockTTL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.Origins)

	// SQLite 目录会被自动创建
	_, err = os.Stat(filepath.Join(dir, "db"))
	assert.NoError(t, err)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATABASE_PATH", filepath.Join(dir, "app.db"))
	t.Setenv("PORT", "5050")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/starwars")

	cfg, err := loadConfigFromFile(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 5050, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Dialect())
	assert.Equal(t, "postgresql://u:p@db:5432/starwars", cfg.Database.GetPostgresDSN())
}

func TestValidateConfigRejectsBadValues(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.Database.Path = filepath.Join(t.TempDir(), "app.db")

	cfg.Server.Port = 70000
	assert.Error(t, validateConfig(cfg))

	cfg.Server.Port = 3000
	cfg.Database.URL = "mysql://root@localhost/db"
	assert.Error(t, validateConfig(cfg))
}

func TestSQLiteDSN(t *testing.T) {
	d := DatabaseConfig{Path: "/tmp/app.db"}
	assert.Equal(t, "/tmp/app.db?_foreign_keys=on", d.GetSQLiteDSN())

	d.Path = "file:test?mode=memory&cache=shared"
	assert.Equal(t, "file:test?mode=memory&cache=shared&_foreign_keys=on", d.GetSQLiteDSN())
}
