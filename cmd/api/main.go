package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"talentmatch/cv-pipeline/internal/config"
	"talentmatch/cv-pipeline/internal/handlers"
	"talentmatch/cv-pipeline/internal/repositories"
	"talentmatch/cv-pipeline/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	docRepo := repositories.NewDocumentRepository(db)
	evalRepo := repositories.NewEvaluationRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize storage
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	textExtractor := services.NewTextExtractionService()

	// Model providers. Gemini carries all three capabilities; OpenRouter is
	// the text-only alternative for deployments without a Gemini key.
	var textGen services.TextGenerator
	var visionGen services.VisionGenerator
	var embedder services.Embedder

	if cfg.Gemini.APIKey != "" {
		geminiService, err := services.NewGeminiService(cfg.Gemini, cfg.Pipeline.ModelCallTimeout)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Gemini: %v", err)
		}
		textGen = geminiService
		visionGen = geminiService
		embedder = geminiService
		log.Println("✅ Gemini initialized successfully")
	} else {
		openRouterService, err := services.NewOpenRouterService(cfg.OpenRouter, cfg.Pipeline.ModelCallTimeout)
		if err != nil {
			log.Fatalf("❌ No model provider configured: %v", err)
		}
		textGen = openRouterService
		log.Println("✅ OpenRouter initialized (text only; visual analysis and profile indexing disabled)")
	}

	// Profile indexing needs an embedder, so it rides with Gemini.
	var indexer services.ProfileIndexerService
	if cfg.Pipeline.IndexProfiles && embedder != nil {
		indexer, err = services.NewProfileIndexerService(
			cfg.Qdrant.URL,
			cfg.Qdrant.APIKey,
			cfg.Qdrant.Collection,
			embedder,
		)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
		}
		if err := indexer.InitCollection(); err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
		}
		log.Println("✅ Qdrant initialized successfully")
	}

	// Pipeline stages
	extractor := services.NewExtractorService(textGen)
	validator := services.NewValidatorService()
	scorer := services.NewScorerService(textGen)

	var visual services.VisualAnalyzerService
	visualEnabled := cfg.Pipeline.VisualAnalysisEnabled && visionGen != nil
	if visualEnabled {
		visual = services.NewVisualAnalyzerService(visionGen, services.NewPageRenderer())
	}

	var store services.ResultStore
	if cfg.Pipeline.PersistResults {
		store = evalRepo
	}

	pipeline := services.NewEvaluationPipeline(
		textExtractor,
		extractor,
		validator,
		scorer,
		visual,
		store,
		indexer,
		visualEnabled,
		cfg.Pipeline.IndexProfiles,
	)
	log.Println("✅ Evaluation pipeline initialized")

	// Initialize and start worker
	worker := services.NewWorker(evalRepo, docRepo, pipeline, cfg.Worker.Concurrency)
	worker.Start(context.Background())

	// Initialize handlers
	uploadHandler := handlers.NewUploadHandler(docRepo, storageService, cfg.Storage.MaxFileSize)
	evaluateHandler := handlers.NewEvaluationHandler(evalRepo, docRepo, worker)
	resultHandler := handlers.NewResultHandler(evalRepo)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "CV Evaluation Pipeline API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/upload", uploadHandler.HandleUpload)
	api.Post("/evaluate", evaluateHandler.HandleEvaluate)
	api.Get("/result/:id", resultHandler.HandleGetResult)

	if indexer != nil {
		searchHandler := handlers.NewSearchHandler(indexer)
		api.Get("/candidates/search", searchHandler.HandleSearch)
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "CV Evaluation Pipeline API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/upload",
				"POST /api/v1/evaluate",
				"GET /api/v1/result/:id",
				"GET /api/v1/candidates/search",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
