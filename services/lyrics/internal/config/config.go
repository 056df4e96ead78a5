package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiModel   string
	GeminiTimeout time.Duration

	JWTSecret         []byte
	AdminPasswordHash string

	SongsCacheTTLSec int
}

func Load() (Config, error) {
	apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if apiKey == "" {
		return Config{}, errors.New("GEMINI_API_KEY is required")
	}
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	timeout := 60 * time.Second
	if v := strings.TrimSpace(os.Getenv("GEMINI_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, errors.New("GEMINI_TIMEOUT must be a positive duration")
		}
		timeout = d
	}

	ttl := 60
	if v := strings.TrimSpace(os.Getenv("SONGS_CACHE_TTL")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, errors.New("SONGS_CACHE_TTL must be a positive integer (seconds)")
		}
		ttl = n
	}

	return Config{
		GeminiAPIKey:      apiKey,
		GeminiBaseURL:     strings.TrimSpace(os.Getenv("GEMINI_BASE_URL")),
		GeminiModel:       strings.TrimSpace(os.Getenv("GEMINI_MODEL")),
		GeminiTimeout:     timeout,
		JWTSecret:         []byte(secret),
		AdminPasswordHash: strings.TrimSpace(os.Getenv("ADMIN_PASSWORD_HASH")),
		SongsCacheTTLSec:  ttl,
	}, nil
}
