package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds environment-based settings
type Config struct {
	DatabaseURL    string
	MigrationsPath string
	JWTSecret      string
	ServerAddress  string
	AppEnv         string
	LogLevel       string
	RequestTimeout time.Duration

	RedisAddress     string
	RedisUsername    string
	RedisPassword    string
	SettingsCacheTTL time.Duration

	MQTTBrokerURL string
	MQTTClientID  string
	NotifyBuffer  int

	UseSpaces      bool
	SpacesEndpoint string
	SpacesRegion   string
	SpacesBucket   string
	SpacesCDNURL   string
	SpacesKey      string
	SpacesSecret   string
	UploadDir      string
}

func (c *Config) IsDevelopment() bool { return c.AppEnv == "development" }

// Load reads configuration from environment variables, after an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	jwt := os.Getenv("JWT_SECRET")
	if jwt == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	timeout, err := duration("REQUEST_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	ttl, err := duration("SETTINGS_CACHE_TTL", 30*time.Second)
	if err != nil {
		return nil, err
	}
	buffer, err := integer("NOTIFY_BUFFER", 256)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:      dbURL,
		MigrationsPath:   env("MIGRATIONS_PATH", "./migrations"),
		JWTSecret:        jwt,
		ServerAddress:    env("SERVER_ADDRESS", ":8080"),
		AppEnv:           env("APP_ENV", "production"),
		LogLevel:         env("LOG_LEVEL", "info"),
		RequestTimeout:   timeout,
		RedisAddress:     os.Getenv("REDIS_ADDRESS"),
		RedisUsername:    os.Getenv("REDIS_USERNAME"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		SettingsCacheTTL: ttl,
		MQTTBrokerURL:    os.Getenv("MQTT_BROKER_URL"),
		MQTTClientID:     env("MQTT_CLIENT_ID", "campus-radio"),
		NotifyBuffer:     buffer,
		UseSpaces:        os.Getenv("USE_SPACES") == "true",
		SpacesEndpoint:   os.Getenv("SPACES_ENDPOINT"),
		SpacesRegion:     os.Getenv("SPACES_REGION"),
		SpacesBucket:     os.Getenv("SPACES_BUCKET"),
		SpacesCDNURL:     os.Getenv("SPACES_CDN_URL"),
		SpacesKey:        os.Getenv("SPACES_ACCESS_KEY"),
		SpacesSecret:     os.Getenv("SPACES_SECRET_KEY"),
		UploadDir:        env("UPLOAD_DIR", "./uploads"),
	}
	if cfg.UseSpaces && (cfg.SpacesBucket == "" || cfg.SpacesKey == "" || cfg.SpacesSecret == "") {
		return nil, fmt.Errorf("USE_SPACES requires SPACES_BUCKET, SPACES_ACCESS_KEY and SPACES_SECRET_KEY")
	}
	return cfg, nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}

func integer(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}
