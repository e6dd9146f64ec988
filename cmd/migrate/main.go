package main

import (
	"flag"
	"log"
	"os"

	"starwars-api/internal/config"
	"starwars-api/internal/migrations"
	"starwars-api/internal/models"

	"github.com/sirupsen/logrus"
)

var (
	flags      = flag.NewFlagSet("migrate", flag.ExitOnError)
	configPath = flags.String("config", "./config/config.yaml", "path to config file")
)

func main() {
	flags.Parse(os.Args[1:])
	args := flags.Args()

	if len(args) < 1 {
		log.Fatal("Usage: migrate [-config path] COMMAND\n\nCommands:\n  up\n  down\n  status")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	migrations.SetLogger(logger)

	db, err := models.OpenDB(&cfg.Database)
	if err != nil {
		logger.Fatalf("连接数据库失败: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatalf("获取数据库连接失败: %v", err)
	}
	defer sqlDB.Close()

	dialect := cfg.Database.Dialect()
	command := args[0]
	switch command {
	case "up":
		err = migrations.Up(sqlDB, dialect)
	case "down":
		err = migrations.Down(sqlDB, dialect)
	case "status":
		err = migrations.Status(sqlDB, dialect)
	default:
		logger.Fatalf("未知命令: %s", command)
	}
	if err != nil {
		logger.Fatalf("执行迁移失败: %v", err)
	}
}
