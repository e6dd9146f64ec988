package config

import (
	"fmt"
	"strings"
	"time"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis_service"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	ProductionMode bool   `mapstructure:"production_mode"`
}

// GetAddress 获取服务器地址
func (s *ServerConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig 数据库配置
// URL 非空时使用 PostgreSQL，否则使用 Path 指向的 SQLite 文件
type DatabaseConfig struct {
	URL         string `mapstructure:"url"`
	Path        string `mapstructure:"path"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// Dialect 返回当前使用的数据库方言
func (d *DatabaseConfig) Dialect() string {
	if d.URL != "" {
		return "postgres"
	}
	return "sqlite3"
}

// GetPostgresDSN 返回规范化后的 PostgreSQL 连接串
func (d *DatabaseConfig) GetPostgresDSN() string {
	if strings.HasPrefix(d.URL, "postgres://") {
		return "postgresql://" + strings.TrimPrefix(d.URL, "postgres://")
	}
	return d.URL
}

// GetSQLiteDSN 返回启用外键约束的 SQLite 连接串
func (d *DatabaseConfig) GetSQLiteDSN() string {
	if strings.Contains(d.Path, "?") {
		return d.Path + "&_foreign_keys=on"
	}
	return d.Path + "?_foreign_keys=on"
}

// RedisConfig Redis配置
// Host 为空时不连接 Redis，写保护退化为进程内互斥
type RedisConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	DB          int    `mapstructure:"db"`
	Password    string `mapstructure:"password"`
	MaxWaitTime int    `mapstructure:"max_wait_time"`
	LockTTL     int    `mapstructure:"lock_ttl"`
}

// Enabled 是否配置了 Redis
func (r *RedisConfig) Enabled() bool {
	return r.Host != ""
}

// GetAddress 获取Redis地址
func (r *RedisConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// GetMaxWaitDuration 获取最大等待时间
func (r *RedisConfig) GetMaxWaitDuration() time.Duration {
	return time.Duration(r.MaxWaitTime) * time.Second
}

// GetLockTTL 获取锁的过期时间
func (r *RedisConfig) GetLockTTL() time.Duration {
	return time.Duration(r.LockTTL) * time.Second
}

// CORSConfig CORS配置
type CORSConfig struct {
	Origins          []string `mapstructure:"origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `mapstructure:"level"`
}
