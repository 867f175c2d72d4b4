package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port      string `yaml:"port"`
	DBDriver  string `yaml:"db_driver"` // sqlite | pgx
	DBDSN     string `yaml:"db_dsn"`
	LogFile   string `yaml:"log_file"`
	LogLevel  string `yaml:"log_level"`
	SeedDemo  bool   `yaml:"seed_demo"`
	CookieSec bool   `yaml:"cookie_secure"`

	Identity IdentityConfig `yaml:"identity"`
	Registry RegistryConfig `yaml:"registry"`
}

type IdentityConfig struct {
	Mode          string `yaml:"mode"` // local | remote | jwt
	URL           string `yaml:"url"`
	PublicKey     string `yaml:"public_key"`
	JWTSecret     string `yaml:"jwt_secret"`
	SessionCookie string `yaml:"session_cookie"`
	LoginURL      string `yaml:"login_url"`
}

type RegistryConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// Load reads .env (if present), then environment variables, then the YAML
// file named by CONFIG_FILE. Secrets left empty are not an error here; the
// handlers that need them fail when called.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] .env not loaded: %v", err)
	}

	cfg := Config{
		Port:      getEnv("PORT", "8080"),
		DBDriver:  getEnv("DB_DRIVER", "sqlite"),
		DBDSN:     getEnv("DB_DSN", "safehire.db"),
		LogFile:   os.Getenv("LOG_FILE"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		SeedDemo:  getBool("SEED_DEMO", false),
		CookieSec: getBool("COOKIE_SECURE", false),
		Identity: IdentityConfig{
			Mode:          getEnv("IDENTITY_MODE", "local"),
			URL:           os.Getenv("IDENTITY_URL"),
			PublicKey:     os.Getenv("IDENTITY_PUBLIC_KEY"),
			JWTSecret:     os.Getenv("IDENTITY_JWT_SECRET"),
			SessionCookie: getEnv("SESSION_COOKIE", "sid"),
			LoginURL:      getEnv("LOGIN_URL", "/login"),
		},
		Registry: RegistryConfig{
			BaseURL: getEnv("GRIDLINES_BASE_URL", "https://api.gridlines.io"),
			APIKey:  os.Getenv("GRIDLINES_API_KEY"),
			Timeout: getDuration("GRIDLINES_TIMEOUT", 15*time.Second),
		},
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.overlay(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	log.Printf("[config] PORT=%s DB_DRIVER=%s IDENTITY_MODE=%s GRIDLINES_BASE_URL=%s",
		cfg.Port, cfg.DBDriver, cfg.Identity.Mode, cfg.Registry.BaseURL)
	return cfg, nil
}

func (c *Config) overlay(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return fmt.Errorf("decode config file: %w", err)
	}
	return nil
}

// Validate rejects values that can never work. Missing keys and URLs are
// allowed.
func (c Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "pgx":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.Identity.Mode {
	case "local", "remote", "jwt":
	default:
		return fmt.Errorf("unsupported IDENTITY_MODE %q", c.Identity.Mode)
	}
	if c.Identity.SessionCookie == "" {
		return fmt.Errorf("session cookie name must not be empty")
	}
	if c.Registry.Timeout < 0 {
		return fmt.Errorf("registry timeout must not be negative")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
