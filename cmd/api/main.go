package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"energy-multiplier/internal/api"
	"energy-multiplier/internal/config"
	"energy-multiplier/internal/data"
	"energy-multiplier/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	logger.Configure(os.Stderr, slog.LevelInfo, os.Getenv("API_ENV") == "production")

	// Get configuration from environment
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}
	priceDir := os.Getenv("PRICE_DIR")
	if priceDir == "" {
		priceDir = config.DefaultPriceDir
	}
	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "./web/dist"
	}
	var origins []string
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins = strings.Split(v, ",")
	}

	zones, err := data.LoadZonesOrDefault(data.DefaultZonesPath())
	if err != nil {
		logger.Error("failed to load zone catalog", "error", err)
		os.Exit(1)
	}

	var loader *data.PriceLoader
	if info, err := os.Stat(priceDir); err == nil && info.IsDir() {
		loader = data.NewPriceLoader(priceDir, config.DefaultRegimeYear, data.NewPriceCache())
		logger.Info("price directory found", "dir", priceDir)
	} else {
		logger.Warn("price directory not found, requests must upload price files", "dir", priceDir)
	}

	// Set up Gin router
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Deps{
		Loader:         loader,
		Zones:          zones,
		StaticDir:      staticDir,
		AllowedOrigins: origins,
	})

	// Start server
	addr := fmt.Sprintf(":%s", port)
	logger.Info("starting API server", "addr", addr)
	if err := router.Run(addr); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}
