package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server    ServerConfig    `envPrefix:"SERVER_"`
	Detection DetectionConfig `envPrefix:"DETECTION_"`
	Search    SearchConfig    `envPrefix:"SEARCH_"`
	Cache     CacheConfig     `envPrefix:"CACHE_"`
	Events    EventsConfig    `envPrefix:"EVENTS_"`
}

type ServerConfig struct {
	Addr string `env:"ADDR" envDefault:"0.0.0.0:8080"`
	// CORSOriginPattern is a regexp matched against the Origin header.
	CORSOriginPattern string `env:"CORS_ORIGIN_PATTERN" envDefault:".*"`
}

type DetectionConfig struct {
	UseMock bool `env:"USE_MOCK" envDefault:"true"`

	GeminiAPIKey   string `env:"GEMINI_API_KEY"`
	GeminiModel    string `env:"GEMINI_MODEL" envDefault:"googleai/gemini-2.5-flash"`
	GeminiProModel string `env:"GEMINI_PRO_MODEL" envDefault:"googleai/gemini-2.5-pro"`
	UseGeminiPro   bool   `env:"USE_GEMINI_PRO" envDefault:"false"`

	// Cloud Vision fallback credentials: a service-account file path, or the
	// same JSON base64-encoded for environments without a filesystem secret.
	GoogleCredentialsFile   string `env:"GOOGLE_CREDENTIALS_FILE"`
	GoogleCredentialsBase64 string `env:"GOOGLE_CREDENTIALS_BASE64"`
}

// Model returns the configured Gemini model name.
func (c DetectionConfig) Model() string {
	if c.UseGeminiPro {
		return c.GeminiProModel
	}
	return c.GeminiModel
}

type SearchConfig struct {
	UseMock bool `env:"USE_MOCK" envDefault:"true"`

	SerperAPIKey       string `env:"SERPER_API_KEY"`
	WayfairAPIKey      string `env:"WAYFAIR_API_KEY"`
	WayfairAffiliateID string `env:"WAYFAIR_AFFILIATE_ID"`

	// MinPartnerResults is the threshold below which the fallback provider
	// backfills the remaining slots.
	MinPartnerResults   int `env:"MIN_PARTNER_RESULTS" envDefault:"3"`
	DefaultProductLimit int `env:"DEFAULT_PRODUCT_LIMIT" envDefault:"6"`
	MaxProductLimit     int `env:"MAX_PRODUCT_LIMIT" envDefault:"20"`
}

type CacheConfig struct {
	TTL           time.Duration `env:"TTL" envDefault:"600s"`
	MaxEntries    int           `env:"MAX_ENTRIES" envDefault:"100"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"60s"`
}

type EventsConfig struct {
	Enabled bool     `env:"ENABLED" envDefault:"false"`
	Brokers []string `env:"BROKERS" envSeparator:","`
	Topic   string   `env:"TOPIC" envDefault:"furniture.activity"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
