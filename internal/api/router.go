// Package api wires the HTTP handlers into a gin engine.
package api

import (
	"net/http"
	"os"
	"strings"

	"energy-multiplier/internal/api/handlers"
	"energy-multiplier/internal/api/middleware"
	"energy-multiplier/internal/data"
	"energy-multiplier/internal/logger"
	"energy-multiplier/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Deps are the collaborators shared by all handlers.
type Deps struct {
	// Loader reads the server's price directory. Nil means uploads only.
	Loader *data.PriceLoader
	Zones  *data.ZoneCatalog
	// StaticDir is served for non-API routes when it exists.
	StaticDir      string
	AllowedOrigins []string
}

// NewRouter builds the engine with middleware, API routes, /health and /metrics.
func NewRouter(d Deps) *gin.Engine {
	metrics.Init()

	router := gin.New()
	router.MaxMultipartMemory = 32 << 20

	// Apply middleware
	router.Use(middleware.CORS(d.AllowedOrigins...))
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	// Initialize handlers
	costHandler := handlers.NewCostHandler(d.Loader, d.Zones)
	rankHandler := handlers.NewRankHandler(d.Loader, d.Zones)
	zonesHandler := handlers.NewZonesHandler(d.Loader, d.Zones)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "ok"}
		if d.Loader != nil {
			status["price_dir"] = d.Loader.Dir()
		}
		c.JSON(http.StatusOK, status)
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// API routes
	api := router.Group("/api/v1")
	{
		api.POST("/cost", costHandler.Compute)
		api.POST("/rank", rankHandler.RankZones)
		api.GET("/zones", zonesHandler.ListZones)
	}

	serveStatic(router, d.StaticDir)
	return router
}

func serveStatic(router *gin.Engine, staticDir string) {
	if staticDir == "" {
		return
	}
	if _, err := os.Stat(staticDir); err != nil {
		logger.Info("static directory not found, skipping static file serving", "dir", staticDir)
		return
	}

	// Serve static assets
	router.Static("/assets", staticDir+"/assets")
	router.StaticFile("/favicon.ico", staticDir+"/favicon.ico")

	// Serve index.html for all non-API routes (SPA routing)
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.File(staticDir + "/index.html")
	})
	logger.Info("serving static files", "dir", staticDir)
}
