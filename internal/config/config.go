package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config/config.yaml"

type ServerConfig struct {
	Port            int           `yaml:"port" env:"TWOFA_PORT"`
	Mode            string        `yaml:"mode" env:"TWOFA_GIN_MODE"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"TWOFA_SHUTDOWN_TIMEOUT"`
}

type StorageConfig struct {
	DataDir  string `yaml:"data_dir" env:"TWOFA_DATA_DIR"`
	SeedFile string `yaml:"seed_file" env:"TWOFA_SEED_FILE"`
}

type KeysConfig struct {
	PrivateKeyPath string `yaml:"private_key_path" env:"TWOFA_PRIVATE_KEY"`
}

// AuthConfig: пустой секрет: /decrypt-seed открыт, как и раньше.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"TWOFA_JWT_SECRET"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"TWOFA_LOG_LEVEL"`
	Format string `yaml:"format" env:"TWOFA_LOG_FORMAT"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"TWOFA_METRICS"`
	Path    string `yaml:"path" env:"TWOFA_METRICS_PATH"`
}

type SwaggerConfig struct {
	Enabled bool `yaml:"enabled" env:"TWOFA_SWAGGER"`
}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Keys    KeysConfig    `yaml:"keys"`
	Auth    AuthConfig    `yaml:"auth"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
	Swagger SwaggerConfig `yaml:"swagger"`
}

// Default: прежние константы: /data/seed.txt и student_private.pem.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Mode:            "release",
			ShutdownTimeout: 5 * time.Second,
		},
		Storage: StorageConfig{
			DataDir:  "/data",
			SeedFile: "seed.txt",
		},
		Keys: KeysConfig{
			PrivateKeyPath: "student_private.pem",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// LoadConfig: дефолты -> yaml (если файл есть) -> .env -> переменные окружения.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath
	}
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// без файла работаем на дефолтах
	default:
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Server.Port == 0 {
		cfg.Server.Port = def.Server.Port
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = def.Server.Mode
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = def.Server.ShutdownTimeout
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = def.Storage.DataDir
	}
	if cfg.Storage.SeedFile == "" {
		cfg.Storage.SeedFile = def.Storage.SeedFile
	}
	if cfg.Keys.PrivateKeyPath == "" {
		cfg.Keys.PrivateKeyPath = def.Keys.PrivateKeyPath
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = def.Metrics.Path
	}
}

func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test: %q", c.Server.Mode)
	}
	switch c.Log.Format {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("log.format must be text, json or logfmt: %q", c.Log.Format)
	}
	return nil
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
