package models

import (
	"fmt"

	"starwars-api/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 全局数据库实例
var DB *gorm.DB

// InitDB 初始化数据库
func InitDB(cfg *config.Config) error {
	db, err := OpenDB(&cfg.Database)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// OpenDB 根据配置打开 SQLite 或 PostgreSQL 连接
// 表结构由 goose 迁移维护，这里不做 AutoMigrate
func OpenDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Dialect() {
	case "postgres":
		dialector = postgres.Open(cfg.GetPostgresDSN())
	default:
		dialector = sqlite.Open(cfg.GetSQLiteDSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent), // 使用静默模式
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}

	return db, nil
}

// GetDB 获取数据库实例
func GetDB() *gorm.DB {
	return DB
}
