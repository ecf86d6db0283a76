package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/marketing-autopilot/internal/publishing"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Store      StoreConfig
	Gemini     GeminiConfig
	ElevenLabs ElevenLabsConfig
	GoogleAds  publishing.GoogleAdsConfig
	Meta       publishing.MetaConfig
	Autopilot  AutopilotConfig
}

type ServerConfig struct {
	Port string
	Host string
}

// StoreConfig holds the sqlite database location
type StoreConfig struct {
	DBPath string
}

// GeminiConfig holds the shared API key and the per-capability model names
type GeminiConfig struct {
	APIKey     string
	TextModel  string
	ImageModel string
	VideoModel string
}

type ElevenLabsConfig struct {
	APIKey  string
	VoiceID string
}

// AutopilotConfig tunes the execution loop
type AutopilotConfig struct {
	Interval       time.Duration
	PreviousWindow int
	ContextBytes   int
}

// Load reads configuration from environment variables, after merging an
// optional .env file. Every provider key is optional: missing credentials
// select the corresponding mock or disable the publisher.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "0.0.0.0"),
		},
		Store: StoreConfig{
			DBPath: getEnv("DB_PATH", "autopilot.db"),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			TextModel:  getEnv("GEMINI_TEXT_MODEL", ""),
			ImageModel: getEnv("GEMINI_IMAGE_MODEL", ""),
			VideoModel: getEnv("GEMINI_VIDEO_MODEL", ""),
		},
		ElevenLabs: ElevenLabsConfig{
			APIKey:  getEnv("ELEVENLABS_API_KEY", ""),
			VoiceID: getEnv("ELEVENLABS_VOICE_ID", ""),
		},
		GoogleAds: publishing.GoogleAdsConfig{
			ClientID:       getEnv("GOOGLE_ADS_CLIENT_ID", ""),
			ClientSecret:   getEnv("GOOGLE_ADS_CLIENT_SECRET", ""),
			DeveloperToken: getEnv("GOOGLE_ADS_DEVELOPER_TOKEN", ""),
			RefreshToken:   getEnv("GOOGLE_ADS_REFRESH_TOKEN", ""),
			CustomerID:     getEnv("GOOGLE_ADS_CUSTOMER_ID", ""),
		},
		Meta: publishing.MetaConfig{
			SystemUserToken:    getEnv("META_SYSTEM_USER_TOKEN", ""),
			FacebookPageID:     getEnv("META_FACEBOOK_PAGE_ID", ""),
			InstagramAccountID: getEnv("META_INSTAGRAM_ACCOUNT_ID", ""),
		},
		Autopilot: AutopilotConfig{
			Interval:       time.Duration(getEnvInt("AUTOPILOT_INTERVAL_MS", 1000)) * time.Millisecond,
			PreviousWindow: getEnvInt("AUTOPILOT_PREVIOUS_WINDOW", 3),
			ContextBytes:   getEnvInt("AUTOPILOT_CONTEXT_BYTES", 2000),
		},
	}
}

// Helper functions for environment variable access
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
