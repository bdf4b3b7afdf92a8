// Package config centralizes environment and file based configuration
// for the server and the focus agent.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/store"
)

// LoadDotenv loads .env into the process environment when the file
// exists. Existing variables win.
func LoadDotenv() {
	_ = godotenv.Load()
}

func EnvOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func EnvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func EnvDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}

// Server holds everything cmd/server needs to boot.
type Server struct {
	Addr        string
	StoreEngine string
	DataFile    string

	GeminiAPIKey string
	RoastModel   string
	RoastTimeout time.Duration

	COSSecretID     string
	COSSecretKey    string
	COSRegion       string
	COSBucketName   string
	COSPublicDomain string

	Verbose bool
}

func ServerFromEnv() Server {
	engine := strings.ToLower(EnvOrDefault("WADDL_STORE", store.EngineSQLite))
	return Server{
		Addr:            EnvOrDefault("WADDL_ADDR", ":8080"),
		StoreEngine:     engine,
		DataFile:        EnvOrDefault("WADDL_DATA_FILE", store.DefaultDataFile(engine)),
		GeminiAPIKey:    strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		RoastModel:      EnvOrDefault("WADDL_ROAST_MODEL", "gemini-2.0-flash"),
		RoastTimeout:    EnvDuration("WADDL_ROAST_TIMEOUT", 15*time.Second),
		COSSecretID:     os.Getenv("WADDL_COS_SECRET_ID"),
		COSSecretKey:    os.Getenv("WADDL_COS_SECRET_KEY"),
		COSRegion:       EnvOrDefault("WADDL_COS_REGION", "ap-hongkong"),
		COSBucketName:   os.Getenv("WADDL_COS_BUCKET_NAME"),
		COSPublicDomain: os.Getenv("WADDL_COS_PUBLIC_DOMAIN"),
		Verbose:         EnvOrDefault("WADDL_VERBOSE", "") != "",
	}
}
