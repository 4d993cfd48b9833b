package server

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"transcript-backend/internal/analyses"
	"transcript-backend/internal/documents"
	"transcript-backend/internal/extract"
	"transcript-backend/internal/llm"
	"transcript-backend/internal/llm/gemini"
	"transcript-backend/internal/shared/config"
	"transcript-backend/internal/shared/server/middleware"
	"transcript-backend/internal/shared/server/respond"
	"transcript-backend/internal/shared/storage/object"
	localstore "transcript-backend/internal/shared/storage/object/local"
	s3store "transcript-backend/internal/shared/storage/object/s3"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	// Dependencies
	store := buildObjectStore(cfg)
	model := buildModel(cfg.GeminiAPIKey, cfg.GeminiModel)
	ocr := buildOCR(cfg)

	extractor := &extract.Extractor{
		OCR:          ocr,
		MinPDFSignal: cfg.ExtractionMinSignal,
		OCROnUpload:  cfg.OCROnUpload,
	}

	docRepo := documents.NewMemoryRepo()
	docSvc := &documents.Service{
		Store:             store,
		Repo:              docRepo,
		Extractor:         extractor,
		RetainSignalBelow: cfg.ExtractionMinSignal,
	}
	docHandler := documents.NewHandler(docSvc, cfg.MaxUploadBytes, cfg.MaxUploadFiles)

	analysisSvc := &analyses.Service{
		Runs:  analyses.NewMemoryRepo(),
		Docs:  docRepo,
		Store: store,
		Model: model,
		OCR:   ocr,
		Cfg: analyses.Config{
			AnalysisMinSignalChars: cfg.AnalysisMinSignal,
			MaxCombinedTextChars:   cfg.MaxCombinedTextChars,
			MultimodalMaxDocs:      cfg.MultimodalMaxDocs,
			MultimodalMaxBytes:     cfg.MultimodalMaxBytes,
			OCROnAnalyze:           cfg.OCROnAnalyze,
			RetryOnUnderfilled:     cfg.RetryOnUnderfilled,
		},
	}
	analysisHandler := analyses.NewHandler(analysisSvc)

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true, "service": "transcript-insights-api"})
	})
	docHandler.RegisterRoutes(api)
	analysisHandler.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

func buildObjectStore(cfg config.Config) object.ObjectStore {
	if cfg.ObjectStoreType == "s3" {
		store, err := s3store.New(context.Background(), cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err != nil {
			log.Printf("s3 store unavailable, falling back to local: %v", err)
		} else {
			return store
		}
	}
	return localstore.New(cfg.LocalStoreDir)
}

func buildModel(apiKey, model string) llm.Client {
	client, err := gemini.NewClient(apiKey, model)
	if err != nil {
		log.Printf("model client not configured: %v", err)
		return nil
	}
	return client
}

func buildOCR(cfg config.Config) *extract.OCRClient {
	model := buildModel(cfg.GeminiAPIKey, cfg.GeminiOCRModel)
	if model == nil {
		return nil
	}
	return &extract.OCRClient{Model: model, Timeout: cfg.OCRTimeout}
}
