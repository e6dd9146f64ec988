// Package migrations 内嵌 goose SQL 迁移脚本，按数据库方言分目录存放。
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed sqlite/*.sql postgres/*.sql
var embedMigrations embed.FS

// SetLogger 设置 goose 的日志输出，logrus.Logger 可直接传入
func SetLogger(l goose.Logger) {
	goose.SetLogger(l)
}

// Up 执行全部未应用的迁移
func Up(db *sql.DB, dialect string) error {
	return run(db, dialect, "up", goose.Up)
}

// Down 回滚最近一次迁移
func Down(db *sql.DB, dialect string) error {
	return run(db, dialect, "down", goose.Down)
}

// Status 打印迁移状态
func Status(db *sql.DB, dialect string) error {
	return run(db, dialect, "status", goose.Status)
}

func run(db *sql.DB, dialect, command string, fn func(*sql.DB, string, ...goose.OptionsFunc) error) error {
	dir, err := dirFor(dialect)
	if err != nil {
		return err
	}

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("设置迁移方言失败: %w", err)
	}

	if err := fn(db, dir); err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	return nil
}

func dirFor(dialect string) (string, error) {
	switch dialect {
	case "sqlite3":
		return "sqlite", nil
	case "postgres":
		return "postgres", nil
	default:
		return "", fmt.Errorf("不支持的数据库方言: %s", dialect)
	}
}
