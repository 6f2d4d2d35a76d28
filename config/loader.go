package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the global application configuration
var Config AppConfig

// DefaultPaths are searched in order when LoadAppConfig is called without paths.
var DefaultPaths = []string{"config.yml", "./config/config.yml"}

// LoadAppConfig loads .env, then reads, expands and validates the first config file found.
func LoadAppConfig(paths ...string) error {
	if len(paths) == 0 {
		paths = DefaultPaths
	}
	// a missing .env is normal outside development
	_ = godotenv.Load()

	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return err
	}
	Config = cfg
	return nil
}

// Parse expands ${VAR} placeholders from the environment, unmarshals and validates
// a YAML document, then fills defaults.
func Parse(data []byte) (AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("validate config: %w", err)
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 16181
	}
	if cfg.Server.CacheTTLSeconds == 0 {
		cfg.Server.CacheTTLSeconds = 30
	}
	if cfg.GTFS.RefreshInterval == "" {
		cfg.GTFS.RefreshInterval = "P1D"
	}
	if cfg.GTFSRT.ReadIntervalMS == 0 {
		cfg.GTFSRT.ReadIntervalMS = 30000
	}
	if cfg.GTFSRT.TimeoutMS == 0 {
		cfg.GTFSRT.TimeoutMS = 10000
	}
	p := &cfg.Planner
	if p.MaxWalkingMeters == 0 {
		p.MaxWalkingMeters = 1000
	}
	if p.WalkingSpeed == 0 {
		p.WalkingSpeed = 80
	}
	if p.Timezone == "" {
		p.Timezone = "Asia/Tokyo"
	}
	if p.SensitiveThreshold == "" {
		p.SensitiveThreshold = "MANY_SEATS_AVAILABLE"
	}
	if p.TolerantThreshold == "" {
		p.TolerantThreshold = "STANDING_ROOM_ONLY"
	}
	if p.DefaultSort == "" {
		p.DefaultSort = "score"
	}
}

// SelectFeed chooses a feed by name; fallback to first; if none, use top-level GTFS/GTFSRT.
func SelectFeed(name string) (GTFSConfig, GTFSRTConfig) {
	if name != "" {
		for _, f := range Config.Feeds {
			if f.Name == name {
				return f.GTFS, f.GTFSRT
			}
		}
	}
	if len(Config.Feeds) > 0 {
		return Config.Feeds[0].GTFS, Config.Feeds[0].GTFSRT
	}
	return Config.GTFS, Config.GTFSRT
}

// IsNotFound reports whether err came from no config file being present.
func IsNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
