package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config is gg's optional workspace-level configuration.
//
// Allowed fields only: StoreRoot, DefaultBackend, Concurrency. Any other
// field in config.json is rejected outright, and no environment
// variable or global config location is ever consulted — the only
// config location is <workspace>/.gg/config.json.
type Config struct {
	StoreRoot      string
	DefaultBackend string
	Concurrency    int
}

var ErrInvalidConfig = errors.New("invalid gg config")

// Parse parses and strictly validates config JSON.
func Parse(data []byte) (Config, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("%w: parse json: %v", ErrInvalidConfig, err)
	}

	var cfg Config
	for key, value := range raw {
		switch key {
		case "store_root":
			s, err := stringField(value, "store_root")
			if err != nil {
				return Config{}, err
			}
			cfg.StoreRoot = s
		case "default_backend":
			s, err := stringField(value, "default_backend")
			if err != nil {
				return Config{}, err
			}
			if s != "local" && s != "simulated" {
				return Config{}, fmt.Errorf("%w: default_backend must be \"local\" or \"simulated\"", ErrInvalidConfig)
			}
			cfg.DefaultBackend = s
		case "concurrency":
			var n int
			if err := json.Unmarshal(value, &n); err != nil {
				return Config{}, fmt.Errorf("%w: concurrency must be an integer", ErrInvalidConfig)
			}
			if n <= 0 {
				return Config{}, fmt.Errorf("%w: concurrency must be positive", ErrInvalidConfig)
			}
			cfg.Concurrency = n
		default:
			return Config{}, fmt.Errorf("%w: unknown field %q", ErrInvalidConfig, key)
		}
	}

	return cfg, nil
}

func stringField(value json.RawMessage, field string) (string, error) {
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return "", fmt.Errorf("%w: %s must be a string", ErrInvalidConfig, field)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: %s must be non-empty", ErrInvalidConfig, field)
	}
	return s, nil
}

// LoadOptional loads config.json directly under workspaceDir (the .gg
// directory itself). A missing file is not an error: it returns
// (Config{}, false, nil).
func LoadOptional(workspaceDir string) (Config, bool, error) {
	if strings.TrimSpace(workspaceDir) == "" {
		return Config{}, false, fmt.Errorf("%w: workspace dir is required", ErrInvalidConfig)
	}

	path := filepath.Join(workspaceDir, "config.json")
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, false, nil
		}
		return Config{}, false, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(b)
	if err != nil {
		return Config{}, true, err
	}
	return cfg, true, nil
}
