package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"minesite-model/internal/api/handlers"
	"minesite-model/internal/api/middleware"
	"minesite-model/internal/config"
	"minesite-model/internal/data"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Get configuration from environment
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}
	production := os.Getenv("API_ENV") == "production"

	var (
		logger *zap.Logger
		err    error
	)
	if production {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Log working directory and important paths for debugging
	wd, err := os.Getwd()
	if err == nil {
		log.Printf("Working directory: %s", wd)
		minerDir := os.Getenv("MINER_DIR")
		if minerDir == "" {
			minerDir = filepath.Join(wd, "miners")
		}
		if info, err := os.Stat(minerDir); err == nil && info.IsDir() {
			log.Printf("Miner directory found: %s", minerDir)
		} else {
			log.Printf("Miner directory not found at: %s (error: %v)", minerDir, err)
		}
	}

	// Central assumptions: defaults, or a config file when CONFIG_FILE is set
	assume := config.DefaultAssumptions()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			log.Fatalf("Failed to load config file %s: %v", path, err)
		}
		assume = cfg.Assumptions
		log.Printf("Loaded assumptions from %s", path)
	}

	provider := data.NewProvider(data.NewLiveClient(), assume)

	// Set up Gin router
	if production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply middleware
	router.Use(middleware.CORS())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics())
	router.Use(middleware.ErrorHandler())

	// Initialize handlers
	projectionHandler := handlers.NewProjectionHandler(provider, assume)
	minerHandler := handlers.NewMinerHandler()
	scenarioHandler := handlers.NewScenarioHandler(assume)
	networkHandler := handlers.NewNetworkHandler(provider)
	forecastHandler := handlers.NewForecastHandler(provider, assume)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "minesite-model",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", middleware.MetricsHandler())

	// Diagnostic endpoint to check miner catalogue directory
	router.GET("/debug/miner-dir", func(c *gin.Context) {
		wd, _ := os.Getwd()
		minerDir := minerHandler.GetMinerDir()
		info, statErr := os.Stat(minerDir)

		var entries []string
		if dirEntries, err := os.ReadDir(minerDir); err == nil {
			for _, e := range dirEntries {
				entries = append(entries, e.Name())
			}
		}

		c.JSON(200, gin.H{
			"working_directory": wd,
			"miner_dir":         minerDir,
			"miner_dir_exists":  statErr == nil,
			"miner_dir_is_dir":  info != nil && info.IsDir(),
			"entries":           entries,
			"entry_count":       len(entries),
		})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		api.POST("/projections", projectionHandler.RunProjection)
		api.GET("/projections/:id/years", projectionHandler.GetYears)
		api.POST("/projections/compare", projectionHandler.CompareProjections)

		api.POST("/forecast/monthly", forecastHandler.RunMonthly)

		api.GET("/network", networkHandler.GetSnapshot)
		api.GET("/miners", minerHandler.ListMiners)
		api.GET("/scenarios", scenarioHandler.ListScenarios)
	}

	// Serve static files from web/dist (if it exists)
	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "./web/dist"
	}

	if _, err := os.Stat(staticDir); err == nil {
		router.Static("/assets", staticDir+"/assets")
		router.StaticFile("/favicon.ico", staticDir+"/favicon.ico")

		// Serve index.html for all non-API routes (SPA routing)
		router.NoRoute(func(c *gin.Context) {
			path := c.Request.URL.Path
			if len(path) >= 4 && path[:4] == "/api" {
				c.JSON(404, gin.H{"error": "Not found"})
			} else {
				c.File(staticDir + "/index.html")
			}
		})
		log.Printf("Serving static files from %s", staticDir)
	} else {
		log.Printf("Static directory %s not found, skipping static file serving", staticDir)
	}

	// Start server
	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
