package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"recscan/internal/cache"
	"recscan/internal/config"
	"recscan/internal/extract"
	ollamabackend "recscan/internal/extract/ollama"
	openaibackend "recscan/internal/extract/openai"
	"recscan/internal/handler"
	"recscan/internal/port"
	"recscan/internal/router"
	"recscan/internal/service"
	"recscan/internal/validator"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Register extraction backends
	extract.RegisterBackend("ollama", ollamabackend.NewBackend)
	extract.RegisterBackend("openai", openaibackend.NewBackend)

	backend, err := extract.NewBackend(&cfg.Extractor)
	if err != nil {
		return fmt.Errorf("failed to initialize extraction backend: %w", err)
	}
	if backend == nil {
		log.Printf("main: no primary extraction backend configured, running fallback-only")
	}

	var resultCache port.ResultCache
	if cfg.Cache.Enabled {
		lruCache, err := cache.NewLRU(cfg.Cache.Capacity)
		if err != nil {
			return fmt.Errorf("failed to initialize result cache: %w", err)
		}
		resultCache = lruCache
	}

	// Initialize services
	groundingValidator := validator.New(cfg.Validator)
	analyzeSvc := service.NewAnalyzeService(backend, groundingValidator, resultCache, cfg.Extractor, cfg.Validator)

	// Initialize handlers
	receiptH := handler.NewReceiptHandler(analyzeSvc)
	healthH := handler.NewHealthHandler(cfg.Extractor.Provider)

	// Setup router
	r := router.Setup(receiptH, healthH, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
