package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Server  ServerConfig
	Model   ModelConfig
	Trainer TrainerConfig
	Predict PredictConfig
	Log     LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type ModelConfig struct {
	Path string
}

type TrainerConfig struct {
	Samples int
	// Seed 0 draws a fresh seed per run.
	Seed int
}

type PredictConfig struct {
	Delay time.Duration
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8501,
		},
		Model: ModelConfig{
			Path: "salary_prediction_pipeline.db",
		},
		Trainer: TrainerConfig{
			Samples: 300,
		},
		Predict: PredictConfig{
			Delay: time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// dotEnvFile is read from the working directory when present.
const dotEnvFile = ".env"

// Load reads configuration from the YAML file at
// $XDG_CONFIG_HOME/salarycast/config.yaml, then applies a .env file from the
// working directory and finally SALARYCAST_* environment variables. Real
// environment variables win over .env entries.
func Load() (Config, error) {
	dotenv, err := godotenv.Read(dotEnvFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("reading %s: %w", dotEnvFile, err)
	}
	return loadWith(newFileBackend(configFilePath()), envLookup(dotenv))
}

// envLookup consults the process environment first, then the .env entries.
// An empty process variable counts as unset.
func envLookup(dotenv map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
}

func loadWith(b ConfigBackend, lookup func(string) (string, bool)) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg, lookup)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port %d out of range", c.Server.Port)
	}
	if c.Model.Path == "" {
		return errors.New("invalid config: model.path is empty")
	}
	if c.Trainer.Samples < 1 {
		return fmt.Errorf("invalid config: trainer.samples must be positive, got %d", c.Trainer.Samples)
	}
	if c.Trainer.Seed < 0 {
		return fmt.Errorf("invalid config: trainer.seed must not be negative, got %d", c.Trainer.Seed)
	}
	if c.Predict.Delay < 0 {
		return fmt.Errorf("invalid config: predict.delay must not be negative, got %s", c.Predict.Delay)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid config: log.level: %w", err)
	}
	return nil
}
