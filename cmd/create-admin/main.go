package main

import (
	"flag"
	"log"

	"pos-backoffice/internal/config"
	"pos-backoffice/internal/repository"
	"pos-backoffice/internal/service"
	"pos-backoffice/pkg/database"
	"pos-backoffice/pkg/logger"

	"go.uber.org/zap"
)

// create-admin makes sure the initial administrator exists. Flags override
// the ADMIN_* environment values.
func main() {
	cfg := config.Load()

	username := flag.String("username", cfg.Admin.Username, "admin username")
	email := flag.String("email", cfg.Admin.Email, "admin email")
	password := flag.String("password", cfg.Admin.Password, "admin password")
	flag.Parse()

	zapLogger, err := logger.Init(logger.Options{Mode: cfg.Logger.Mode})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zapLogger.Sync()

	// 1. Setup Database
	db, err := database.ConnectDB(cfg.DatabaseOptions())
	if err != nil {
		zap.S().Fatalf("connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		zap.S().Fatalf("migrate database: %v", err)
	}

	// 2. Create admin unless present
	userService := service.NewUserService(repository.NewUserRepo(db), nil, nil)
	admin, created, err := userService.EnsureAdmin(*username, *email, *password)
	if err != nil {
		zap.S().Fatalf("create admin: %v", err)
	}
	if !created {
		zap.S().Infof("admin user %s already exists", admin.Username)
		return
	}
	zap.S().Infof("admin user created: %s (%s)", admin.Username, admin.Email)
}
