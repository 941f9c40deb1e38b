package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Site     SiteConfig
	Scraper  ScraperConfig
	Browser  BrowserConfig
	Images   ImageConfig
	Output   OutputConfig
	Queue    QueueConfig
	Database DatabaseConfig
	Logging  LoggingConfig
}

type SiteConfig struct {
	BaseURL      string
	RecommendURL string
}

type ScraperConfig struct {
	TargetBrands        []string
	MaxProductsPerBrand int
	RequestDelay        time.Duration
	MaxRetries          int
}

type BrowserConfig struct {
	Headless        bool
	PageLoadTimeout time.Duration
	ViewportWidth   int
	ViewportHeight  int
	AcceptLanguage  string
	TimezoneID      string
	Locale          string
}

type ImageConfig struct {
	DownloadPath    string
	MaxPerProduct   int
	DownloadTimeout time.Duration
}

type OutputConfig struct {
	Path string
}

type QueueConfig struct {
	Type      string
	RedisAddr string
	RedisKey  string
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from the environment, after loading a .env
// file from the working directory when one exists.
func Load() (*Config, error) {
	// Missing .env is fine; system environment still applies.
	godotenv.Load()

	baseURL := getEnvOrDefault("BASE_URL", "https://www.musinsa.com")

	cfg := &Config{
		Site: SiteConfig{
			BaseURL:      baseURL,
			RecommendURL: baseURL + "/main/musinsa/recommend",
		},
		Scraper: ScraperConfig{
			TargetBrands:        getStringSliceOrDefault("TARGET_BRANDS", []string{}),
			MaxProductsPerBrand: getIntOrDefault("MAX_PRODUCTS_PER_BRAND", 100),
			RequestDelay:        getDurationOrDefault("DELAY_BETWEEN_REQUESTS", 2*time.Second),
			MaxRetries:          getIntOrDefault("SCRAPER_MAX_RETRIES", 3),
		},
		Browser: BrowserConfig{
			Headless:        getBoolOrDefault("HEADLESS", true),
			PageLoadTimeout: getDurationOrDefault("PAGE_LOAD_TIMEOUT", 30*time.Second),
			ViewportWidth:   getIntOrDefault("BROWSER_VIEWPORT_WIDTH", 1920),
			ViewportHeight:  getIntOrDefault("BROWSER_VIEWPORT_HEIGHT", 1080),
			AcceptLanguage:  getEnvOrDefault("BROWSER_ACCEPT_LANGUAGE", "ko-KR,ko;q=0.9,en;q=0.8"),
			TimezoneID:      getEnvOrDefault("BROWSER_TIMEZONE", "Asia/Seoul"),
			Locale:          getEnvOrDefault("BROWSER_LOCALE", "ko-KR"),
		},
		Images: ImageConfig{
			DownloadPath:    getEnvOrDefault("IMAGE_DOWNLOAD_PATH", "data/images"),
			MaxPerProduct:   getIntOrDefault("MAX_IMAGES_PER_PRODUCT", 10),
			DownloadTimeout: getDurationOrDefault("IMAGE_DOWNLOAD_TIMEOUT", 30*time.Second),
		},
		Output: OutputConfig{
			Path: getEnvOrDefault("OUTPUT_PATH", "data/exports"),
		},
		Queue: QueueConfig{
			Type:      getEnvOrDefault("QUEUE_TYPE", "memory"),
			RedisAddr: getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			RedisKey:  getEnvOrDefault("REDIS_QUEUE_KEY", "queue:products"),
		},
		Database: DatabaseConfig{
			Enabled:  getBoolOrDefault("DB_ENABLED", false),
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getIntOrDefault("DB_PORT", 5432),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", ""),
			DBName:   getEnvOrDefault("DB_NAME", "musinsa_scraper"),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "text"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Scraper.MaxProductsPerBrand < 0 {
		return fmt.Errorf("MAX_PRODUCTS_PER_BRAND cannot be negative")
	}

	if c.Scraper.RequestDelay < 0 {
		return fmt.Errorf("DELAY_BETWEEN_REQUESTS cannot be negative")
	}

	if c.Scraper.MaxRetries < 1 {
		return fmt.Errorf("SCRAPER_MAX_RETRIES must be at least 1")
	}

	if c.Images.MaxPerProduct < 0 {
		return fmt.Errorf("MAX_IMAGES_PER_PRODUCT cannot be negative")
	}

	switch c.Queue.Type {
	case "memory", "redis":
	default:
		return fmt.Errorf("QUEUE_TYPE must be 'memory' or 'redis', got %q", c.Queue.Type)
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getDurationOrDefault accepts either a Go duration string or a bare
// number of seconds, matching the original .env convention.
func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if d, err := time.ParseDuration(value); err == nil {
		return d
	}

	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}

	return defaultValue
}

func getStringSliceOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
