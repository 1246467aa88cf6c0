package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"pos-backoffice/internal/config"
	"pos-backoffice/internal/handler"
	"pos-backoffice/internal/middleware"
	"pos-backoffice/internal/repository"
	"pos-backoffice/internal/router"
	"pos-backoffice/internal/service"
	"pos-backoffice/internal/storage"
	"pos-backoffice/internal/ws"
	"pos-backoffice/pkg/database"
	"pos-backoffice/pkg/jwt"
	"pos-backoffice/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Config & Logger
	cfg := config.Load()
	zapLogger, err := logger.Init(logger.Options{Mode: cfg.Logger.Mode, Filename: cfg.Logger.Filename})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zapLogger.Sync()

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.DatabaseOptions())
	if err != nil {
		zap.S().Fatalf("connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		zap.S().Fatalf("migrate database: %v", err)
	}

	// 3. Setup Storage & WebSocket Hub
	store, err := storage.New(cfg)
	if err != nil {
		zap.S().Fatalf("init storage: %v", err)
	}
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	productRepo := repository.NewProductRepo(db)
	stockRepo := repository.NewStockRepo(db)
	saleRepo := repository.NewSaleRepo(db)

	tokens := jwt.NewManager(cfg.Session.Secret, cfg.Session.TTL)
	authService := service.NewAuthService(userRepo, tokens)
	userService := service.NewUserService(userRepo, store, wsHub)
	categoryService := service.NewCategoryService(categoryRepo, wsHub)
	invService := service.NewInventoryService(productRepo, categoryRepo, stockRepo, saleRepo, store, wsHub)

	// 5. Seed initial admin
	if _, created, err := userService.EnsureAdmin(cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		zap.S().Warnf("ensure admin user: %v", err)
	} else if created {
		zap.S().Infof("admin user created: %s", cfg.Admin.Username)
	}

	handlers := router.Handlers{
		Auth: handler.NewAuthHandler(authService, middleware.CookieOptions{
			TTL:    cfg.Session.TTL,
			Secure: cfg.Session.CookieSecure,
		}),
		User:      handler.NewUserHandler(userService),
		Category:  handler.NewCategoryHandler(categoryService),
		Inventory: handler.NewInventoryHandler(invService, categoryService),
		Media:     handler.NewMediaHandler(store),
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      "POS Back-Office",
		ErrorHandler: handler.ErrorHandler,
		BodyLimit:    10 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New())

	router.Setup(app, handlers, authService, wsHub)

	// 7. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			zap.S().Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.S().Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		zap.S().Fatalf("server forced to shutdown: %v", err)
	}

	zap.S().Info("Server exited")
}
