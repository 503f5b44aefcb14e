package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"

	"clearbill/internal/config"
	"clearbill/internal/genai"
	"clearbill/internal/genai/gemini"
	"clearbill/internal/genai/openai"
	"clearbill/internal/handler"
	"clearbill/internal/pipeline"
	"clearbill/internal/port"
	noopRepo "clearbill/internal/repository/noop"
	"clearbill/internal/repository/postgres"
	"clearbill/internal/router"
	"clearbill/internal/service"
	noopStorage "clearbill/internal/storage/noop"
	s3storage "clearbill/internal/storage/s3"
)

func init() {
	genai.RegisterProvider("openai", func(cfg *config.AIConfig) (port.Generator, error) {
		return openai.NewClient(cfg), nil
	})
	genai.RegisterProvider("gemini", func(cfg *config.AIConfig) (port.Generator, error) {
		return gemini.NewClient(cfg), nil
	})
}

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

	// Persistence degrades to a logging no-op when the database is disabled.
	var db *sqlx.DB
	var repo port.AnalysisRepository
	if cfg.DB.Enabled {
		db, err = postgres.NewDB(&cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		repo = postgres.NewAnalysisRepo(db)
	} else {
		repo = noopRepo.NewAnalysisRepo()
	}

	// Archival is optional; without a bucket the storage adapter only logs.
	var storage port.ObjectStorage
	if cfg.S3.Bucket != "" {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	} else {
		storage = noopStorage.NewStorage()
	}

	gen, err := genai.NewGenerator(&cfg.AI)
	if err != nil {
		return fmt.Errorf("failed to initialize generator: %w", err)
	}

	taxonomy, err := pipeline.LoadTaxonomy(cfg.Audit.TaxonomyFile)
	if err != nil {
		return fmt.Errorf("failed to load billing-error taxonomy: %w", err)
	}

	analysisSvc := service.NewAnalysisService(pipeline.New(gen, taxonomy), repo, storage, &cfg.S3)

	analysisH := handler.NewAnalysisHandler(analysisSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(analysisH, healthH, cfg.CORS.AllowedOrigins)

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
