package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type keyType int

const (
	kString keyType = iota
	kInt
	kDuration
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "server.host", typ: kString, env: "SALARYCAST_SERVER_HOST",
		apply:   func(cfg *Config, v any) { cfg.Server.Host = v.(string) },
		extract: func(cfg Config) any { return cfg.Server.Host },
	},
	{
		key: "server.port", typ: kInt, env: "SALARYCAST_SERVER_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.Port },
	},
	{
		key: "model.path", typ: kString, env: "SALARYCAST_MODEL_PATH",
		apply:   func(cfg *Config, v any) { cfg.Model.Path = v.(string) },
		extract: func(cfg Config) any { return cfg.Model.Path },
	},
	{
		key: "trainer.samples", typ: kInt, env: "SALARYCAST_TRAINER_SAMPLES",
		apply:   func(cfg *Config, v any) { cfg.Trainer.Samples = v.(int) },
		extract: func(cfg Config) any { return cfg.Trainer.Samples },
	},
	{
		key: "trainer.seed", typ: kInt, env: "SALARYCAST_TRAINER_SEED",
		apply:   func(cfg *Config, v any) { cfg.Trainer.Seed = v.(int) },
		extract: func(cfg Config) any { return cfg.Trainer.Seed },
	},
	{
		key: "predict.delay", typ: kDuration, env: "SALARYCAST_PREDICT_DELAY",
		apply:   func(cfg *Config, v any) { cfg.Predict.Delay = v.(time.Duration) },
		extract: func(cfg Config) any { return cfg.Predict.Delay },
	},
	{
		key: "log.level", typ: kString, env: "SALARYCAST_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
}

func applyBackend(cfg *Config, b ConfigBackend) error {
	for _, s := range specs {
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kDuration:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok && v != "" {
				if d, err := time.ParseDuration(v); err == nil {
					s.apply(cfg, d)
				} else {
					fmt.Fprintf(os.Stderr, "[WARN] could not parse duration from config key %s=%q: %v. Using default value.\n", s.key, v, err)
				}
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config, lookup func(string) (string, bool)) {
	for _, s := range specs {
		if s.env == "" {
			continue
		}
		raw, ok := lookup(s.env)
		if !ok || raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		case kDuration:
			if d, err := time.ParseDuration(raw); err == nil {
				s.apply(cfg, d)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse duration from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		}
	}
}
