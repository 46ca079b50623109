package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"iot-planner/internal/common/config"
	"iot-planner/internal/common/logger"
	"iot-planner/internal/common/middleware"
	"iot-planner/internal/planner/handlers"
	"iot-planner/internal/planner/placement"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/zap"
)

// ============================================================
// Planner Service
// ============================================================

func main() {
	cfg := config.Load()

	l, err := logger.New(cfg.LogLevel, cfg.LogFormat, "iot-planner")
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer l.Sync()

	catalog, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		l.Fatal("failed to load device catalog", zap.String("path", cfg.CatalogPath), zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		AppName:      "IoT Planner Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.CORS(cfg.CORSOrigins))
	if cfg.IsProduction() {
		app.Use(middleware.ZapLogger(l))
	} else {
		app.Use(middleware.Logger())
	}

	// ============================================================
	// Routes
	// ============================================================

	handlers.New(l, catalog, cfg.PlacementClearance).Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	l.Info("starting planner service",
		zap.String("addr", addr),
		zap.String("env", cfg.Environment),
		zap.Int("device_types", len(catalog.List())),
	)

	if err := app.Listen(addr); err != nil {
		l.Fatal("failed to start server", zap.Error(err))
	}
}

// loadCatalog читает каталог устройств из YAML/JSON, иначе встроенный.
func loadCatalog(path string) (*placement.Catalog, error) {
	if path == "" {
		return placement.DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return placement.ParseCatalog(data)
}
