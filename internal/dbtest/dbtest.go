// Package dbtest 为测试提供已迁移的内存 SQLite 数据库。
package dbtest

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"starwars-api/internal/config"
	"starwars-api/internal/migrations"
	"starwars-api/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var nameReplacer = strings.NewReplacer("/", "_", " ", "_", "#", "_")

// NewDB 创建以测试名命名的内存数据库并执行全部迁移
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := config.DatabaseConfig{
		Path: fmt.Sprintf("file:%s?mode=memory&cache=shared", nameReplacer.Replace(t.Name())),
	}
	db, err := models.OpenDB(&cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 单连接，保证内存库在测试期间存活且写操作串行
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	migrations.SetLogger(logger)
	require.NoError(t, migrations.Up(sqlDB, "sqlite3"))

	return db
}
