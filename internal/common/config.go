package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	OCR       OCRConfig
	AI        AIConfig
	Detection DetectionConfig
	LogLevel  string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr           string
	MaxUploadBytes int64
}

// StorageConfig holds upload-store configuration
type StorageConfig struct {
	UploadDir string
}

// OCRConfig holds recognition-related configuration
type OCRConfig struct {
	Tesseract     string
	Pdftoppm      string
	TesseractLang string
	TessdataDir   string
	DPI           int
	MaxPages      int
	PSM           int
	OEM           int
	Preprocess    bool
}

// AIConfig holds model-service adapter configuration
type AIConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	SiteURL     string
	SiteName    string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// DetectionConfig holds caller-side policy knobs. The confidence threshold
// is advisory: detection reports it but never gates on it.
type DetectionConfig struct {
	ConfidenceThreshold float64
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           getEnv("HTTP_ADDR", ":8080"),
			MaxUploadBytes: getEnvAsInt64("MAX_UPLOAD_BYTES", 20<<20),
		},
		Storage: StorageConfig{
			UploadDir: getEnv("UPLOAD_DIR", "./uploads"),
		},
		OCR: OCRConfig{
			Tesseract:     getEnv("TESSERACT_CMD", "tesseract"),
			Pdftoppm:      getEnv("PDFTOPPM_CMD", "pdftoppm"),
			TesseractLang: getEnv("OCR_LANGUAGE", "ind+eng"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			DPI:           getEnvAsInt("OCR_DPI", 300),
			MaxPages:      getEnvAsInt("OCR_MAX_PAGES", 0),
			PSM:           getEnvAsInt("OCR_PSM", 0),
			OEM:           getEnvAsInt("OCR_OEM", 0),
			Preprocess:    getEnvAsBool("OCR_PREPROCESS", true),
		},
		AI: AIConfig{
			APIKey:      getEnv("OPENROUTER_API_KEY", ""),
			Model:       getEnv("OPENROUTER_MODEL", "z-ai/glm-4.5-air:free"),
			BaseURL:     getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			SiteURL:     getEnv("OPENROUTER_SITE_URL", "http://localhost:8080"),
			SiteName:    getEnv("PROJECT_NAME", "Arsip Surat"),
			Temperature: getEnvAsFloat32("OPENROUTER_TEMPERATURE", 0.1),
			MaxTokens:   getEnvAsInt("OPENROUTER_MAX_TOKENS", 2048),
			Timeout:     getEnvAsDuration("OPENROUTER_TIMEOUT", 60*time.Second),
		},
		Detection: DetectionConfig{
			ConfidenceThreshold: getEnvAsFloat64("CONFIDENCE_THRESHOLD", 70.0),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
