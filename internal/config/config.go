// Package config loads the host configuration: defaults, then an optional
// YAML file, then GAMEHARNESS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gameharness/internal/logging"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "GAMEHARNESS"

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	GameTapper = "tapper"
	GameMixer  = "mixer"
)

type Config struct {
	Harness   HarnessConfig   `yaml:"harness" envconfig:"HARNESS"`
	Discovery DiscoveryConfig `yaml:"discovery" envconfig:"DISCOVERY"`
	Ops       OpsConfig       `yaml:"ops" envconfig:"OPS"`
	Storage   StorageConfig   `yaml:"storage" envconfig:"STORAGE"`
	Logging   logging.Config  `yaml:"logging" envconfig:"LOGGING"`
	Game      GameConfig      `yaml:"game" envconfig:"GAME"`
}

// HarnessConfig configures the automation server.
type HarnessConfig struct {
	Host            string        `yaml:"host" envconfig:"HOST"`
	Port            int           `yaml:"port" envconfig:"PORT"` // 0 binds an ephemeral port
	MaxRequestBytes int           `yaml:"max_request_bytes" envconfig:"MAX_REQUEST_BYTES"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"` // 0 waits forever
	StartDelay      time.Duration `yaml:"start_delay" envconfig:"START_DELAY"`
}

type DiscoveryConfig struct {
	Dir      string `yaml:"dir" envconfig:"DIR"` // empty resolves the state dir
	FileName string `yaml:"file_name" envconfig:"FILE_NAME"`
	Disabled bool   `yaml:"disabled" envconfig:"DISABLED"`
}

// OpsConfig configures the internal ops HTTP server.
type OpsConfig struct {
	Host string `yaml:"host" envconfig:"HOST"`
	Port int    `yaml:"port" envconfig:"PORT"` // 0 disables
}

type StorageConfig struct {
	Type string `yaml:"type" envconfig:"TYPE"` // memory, postgres
	DSN  string `yaml:"dsn" envconfig:"DSN"`
}

type GameConfig struct {
	Kind        string  `yaml:"kind" envconfig:"KIND"` // tapper, mixer
	SceneWidth  float64 `yaml:"scene_width" envconfig:"SCENE_WIDTH"`
	SceneHeight float64 `yaml:"scene_height" envconfig:"SCENE_HEIGHT"`
}

func Default() *Config {
	return &Config{
		Harness: HarnessConfig{
			Host:            "127.0.0.1",
			Port:            7483,
			MaxRequestBytes: 64 << 10,
			StartDelay:      500 * time.Millisecond,
		},
		Discovery: DiscoveryConfig{
			FileName: "testharness_port.txt",
		},
		Ops: OpsConfig{
			Host: "127.0.0.1",
		},
		Storage: StorageConfig{
			Type: StorageMemory,
		},
		Logging: logging.DefaultConfig(),
		Game: GameConfig{
			Kind:        GameTapper,
			SceneWidth:  390,
			SceneHeight: 844,
		},
	}
}

// Load reads configFile if it exists, applies environment overrides and
// validates the result. An empty configFile skips the file.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Harness.Port < 0 || c.Harness.Port > 65535 {
		return fmt.Errorf("invalid harness port: %d", c.Harness.Port)
	}
	if c.Harness.MaxRequestBytes < 1 {
		return fmt.Errorf("invalid harness max_request_bytes: %d", c.Harness.MaxRequestBytes)
	}
	if c.Harness.ReadTimeout < 0 || c.Harness.StartDelay < 0 {
		return errors.New("harness durations must not be negative")
	}
	if c.Ops.Port < 0 || c.Ops.Port > 65535 {
		return fmt.Errorf("invalid ops port: %d", c.Ops.Port)
	}
	if c.Ops.Port != 0 && c.Ops.Port == c.Harness.Port {
		return fmt.Errorf("ops port %d collides with harness port", c.Ops.Port)
	}

	switch c.Storage.Type {
	case StorageMemory:
	case StoragePostgres:
		if c.Storage.DSN == "" {
			return errors.New("storage dsn is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported storage type: %q", c.Storage.Type)
	}

	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("invalid log format: %q", c.Logging.Format)
	}

	switch c.Game.Kind {
	case GameTapper, GameMixer:
	default:
		return fmt.Errorf("unsupported game kind: %q", c.Game.Kind)
	}
	if c.Game.SceneWidth <= 0 || c.Game.SceneHeight <= 0 {
		return fmt.Errorf("invalid scene size: %vx%v", c.Game.SceneWidth, c.Game.SceneHeight)
	}
	return nil
}
