package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	GeminiAPIKey   string
	GeminiModel    string
	GeminiOCRModel string

	MaxCombinedTextChars int
	AnalysisMinSignal    int
	ExtractionMinSignal  int
	MultimodalMaxDocs    int
	MultimodalMaxBytes   int64

	OCROnUpload        bool
	OCROnAnalyze       bool
	RetryOnUnderfilled bool
	OCRTimeout         time.Duration

	MaxUploadBytes int64
	MaxUploadFiles int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	_ = godotenv.Load(".env", "cmd/.env")

	model := getEnv("GEMINI_MODEL", "gemini-2.0-flash")

	return Config{
		Port:            getEnv("PORT", "8080"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),

		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", "transcripts"),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),

		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    model,
		GeminiOCRModel: getEnv("GEMINI_OCR_MODEL", model),

		MaxCombinedTextChars: getEnvInt("MAX_COMBINED_TEXT_CHARS", 160000),
		AnalysisMinSignal:    getEnvInt("ANALYSIS_MIN_SIGNAL_CHARS", 40),
		ExtractionMinSignal:  getEnvInt("EXTRACTION_MIN_SIGNAL_CHARS", 120),
		MultimodalMaxDocs:    getEnvInt("MULTIMODAL_MAX_DOCS", 3),
		MultimodalMaxBytes:   getEnvInt64("MULTIMODAL_MAX_BYTES", 15<<20),

		OCROnUpload:        getEnvBool("OCR_ON_UPLOAD", false),
		OCROnAnalyze:       getEnvBool("OCR_ON_ANALYZE", true),
		RetryOnUnderfilled: getEnvBool("RETRY_ON_UNDERFILLED", true),
		OCRTimeout:         time.Duration(getEnvInt("OCR_TIMEOUT_SECONDS", 45)) * time.Second,

		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 20<<20),
		MaxUploadFiles: getEnvInt("MAX_UPLOAD_FILES", 10),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func getEnvInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func getEnvBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
