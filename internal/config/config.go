package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Env       string
	Port      string
	DBURL     string // empty selects the in-memory store
	Origin    string // CORS
	Secret    string // session cookie signing
	UploadDir string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() Config {
	// .env is optional; real env vars win.
	_ = godotenv.Load()

	return Config{
		Env:       env("APP_ENV", "dev"),
		Port:      env("API_PORT", "8888"),
		DBURL:     env("DB_DSN", ""),
		Origin:    env("CORS_ORIGIN", "http://localhost:8081"),
		Secret:    env("SESSION_SECRET", "dev-secret"),
		UploadDir: env("UPLOAD_DIR", "uploads"),
	}
}

// APIBaseURL resolves the base URL the client talks to: explicit override,
// then RECLAM_API_BASE_URL, then the local dev server.
func APIBaseURL(override string) string {
	if override != "" {
		return override
	}
	if v := os.Getenv("RECLAM_API_BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:8888"
}
