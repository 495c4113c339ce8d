package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator"
	"gopkg.in/yaml.v3"
)

// Config holds the server settings. Values are resolved from defaults, then
// an optional YAML file, then IMG_* environment variables.
type Config struct {
	ListenAddr     string   `yaml:"listenAddr" validate:"required"`
	StoreBackend   string   `yaml:"storeBackend" validate:"oneof=memory sqlite"`
	DBPath         string   `yaml:"dbPath"`
	SeedPath       string   `yaml:"seedPath"`
	MaxUploadBytes int64    `yaml:"maxUploadBytes" validate:"min=1"`
	LogLevel       string   `yaml:"logLevel" validate:"oneof=debug info warn error"`
	LogFormat      string   `yaml:"logFormat" validate:"oneof=json text"`
	AllowedOrigins []string `yaml:"allowedOrigins" validate:"min=1"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ListenAddr:     ":8080",
		StoreBackend:   "memory",
		DBPath:         ":memory:",
		SeedPath:       "assets/test.jpg",
		MaxUploadBytes: 10 << 20,
		LogLevel:       "info",
		LogFormat:      "json",
		AllowedOrigins: []string{"*"},
	}
}

// Load resolves the configuration. path names an optional YAML file; when it
// is empty IMG_CONFIG_FILE is consulted.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("IMG_CONFIG_FILE")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.ListenAddr = getEnv("IMG_LISTEN_ADDR", c.ListenAddr)
	c.StoreBackend = getEnv("IMG_STORE_BACKEND", c.StoreBackend)
	c.DBPath = getEnv("IMG_DB_PATH", c.DBPath)
	// An explicitly empty IMG_SEED_PATH disables seeding.
	if v, ok := os.LookupEnv("IMG_SEED_PATH"); ok {
		c.SeedPath = v
	}
	c.LogLevel = strings.ToLower(getEnv("IMG_LOG_LEVEL", c.LogLevel))
	c.LogFormat = strings.ToLower(getEnv("IMG_LOG_FORMAT", c.LogFormat))

	if v := os.Getenv("IMG_ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("IMG_MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid IMG_MAX_UPLOAD_BYTES %q: %w", v, err)
		}
		c.MaxUploadBytes = n
	}
	return nil
}

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
