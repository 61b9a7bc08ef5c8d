package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Channel    ChannelConfig
	LLM        LLMConfig
	Downstream DownstreamConfig
	Raster     RasterConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string
}

// ChannelConfig holds WhatsApp Cloud API configuration.
type ChannelConfig struct {
	GraphBaseURL  string
	VerifyToken   string
	AccessToken   string
	PhoneNumberID string
	MediaTimeout  time.Duration
}

// LLMConfig holds extraction-service configuration.
type LLMConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// DownstreamConfig holds bookkeeping-sink configuration.
type DownstreamConfig struct {
	SinkURL string
	Timeout time.Duration
}

// RasterConfig holds scanned-PDF rasterization configuration.
type RasterConfig struct {
	Pdftoppm string
	DPI      int
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first, best effort, for local development.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
		},
		Channel: ChannelConfig{
			GraphBaseURL:  getEnv("GRAPH_API_BASE", "https://graph.facebook.com/v19.0"),
			VerifyToken:   getEnv("VERIFY_TOKEN_META", ""),
			AccessToken:   getEnv("WHATSAPP_TOKEN", ""),
			PhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
			MediaTimeout:  getEnvAsDuration("WHATSAPP_MEDIA_TIMEOUT", 30*time.Second),
		},
		LLM: LLMConfig{
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
		},
		Downstream: DownstreamConfig{
			SinkURL: getEnv("SINK_URL", ""),
			Timeout: getEnvAsDuration("SINK_TIMEOUT", 15*time.Second),
		},
		Raster: RasterConfig{
			Pdftoppm: getEnv("PDFTOPPM_BIN", "pdftoppm"),
			DPI:      getEnvAsInt("RASTER_DPI", 300),
		},
	}
}

// MissingKeys lists the required credentials that are absent. Each missing key
// degrades a capability; none is fatal.
func (c *Config) MissingKeys() []string {
	var missing []string
	if c.Channel.VerifyToken == "" {
		missing = append(missing, "VERIFY_TOKEN_META")
	}
	if c.Channel.AccessToken == "" {
		missing = append(missing, "WHATSAPP_TOKEN")
	}
	if c.Channel.PhoneNumberID == "" {
		missing = append(missing, "WHATSAPP_PHONE_NUMBER_ID")
	}
	if c.LLM.APIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if c.Downstream.SinkURL == "" {
		missing = append(missing, "SINK_URL")
	}
	return missing
}

// LogStartup reports credential presence the way operators expect to see it.
func (c *Config) LogStartup(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, key := range c.MissingKeys() {
		logger.Warn("config.missing", "key", key)
	}
	logger.Info("config.loaded",
		"port", c.Server.Port,
		"graph_base", c.Channel.GraphBaseURL,
		"model", c.LLM.Model,
		"sink_configured", c.Downstream.SinkURL != "",
	)
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

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
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
