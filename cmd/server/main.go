package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"starwars-api/internal/config"
	"starwars-api/internal/migrations"
	"starwars-api/internal/models"
	"starwars-api/internal/router"
	"starwars-api/internal/service"
	"starwars-api/pkg/redis_limiter"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

func main() {
	// 加载配置（从项目根目录读取），文件不存在时只使用环境变量和默认值
	cfg, err := config.LoadConfig("./config/config.yaml")
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 初始化日志
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warnf("无效的日志级别 %q，使用 info", cfg.Log.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// 初始化数据库
	if err := models.InitDB(cfg); err != nil {
		logger.Fatalf("初始化数据库失败: %v", err)
	}
	db := models.GetDB()

	if cfg.Database.AutoMigrate {
		sqlDB, err := db.DB()
		if err != nil {
			logger.Fatalf("获取数据库连接失败: %v", err)
		}
		migrations.SetLogger(logger)
		if err := migrations.Up(sqlDB, cfg.Database.Dialect()); err != nil {
			logger.Fatalf("数据库迁移失败: %v", err)
		}
	}

	locker := newLocker(cfg, logger)

	// 设置路由
	r := router.SetupRouter(cfg, logger, db, locker)

	// 启动服务器
	addr := cfg.Server.GetAddress()
	srv := &http.Server{Addr: addr, Handler: r}
	go func() {
		logger.Infof("服务器启动在 %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("启动服务器失败: %v", err)
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("收到关闭信号，正在关闭服务器")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("服务器强制关闭: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info("服务器已退出")
}

// newLocker 配置了 Redis 时使用跨实例锁，否则使用进程内锁
func newLocker(cfg *config.Config, logger *logrus.Logger) service.Locker {
	if !cfg.Redis.Enabled() {
		logger.Info("未配置 Redis，使用进程内写锁")
		return service.NewLocalLocker(cfg.Redis.GetMaxWaitDuration())
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddress(),
		DB:       cfg.Redis.DB,
		Password: cfg.Redis.Password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatalf("连接 Redis 失败: %v", err)
	}
	logger.Infof("已连接 Redis %s，使用分布式写锁", cfg.Redis.GetAddress())

	limiter := redis_limiter.NewRedisLimiter(redisClient, 1, "starwars_lock:", cfg.Redis.GetLockTTL())
	return service.NewRedisLocker(limiter, cfg.Redis.GetMaxWaitDuration())
}
