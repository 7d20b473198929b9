package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/srediag/shmslot/internal/logger"
	"github.com/srediag/shmslot/pkg/shm"
)

// Config is the YAML file accepted by --config. Flags override it.
type Config struct {
	LogLevel int          `yaml:"log_level"`
	Region   RegionConfig `yaml:"region"`
	Demo     DemoConfig   `yaml:"demo"`
	Serve    ServeConfig  `yaml:"serve"`
}

type RegionConfig struct {
	Name   string `yaml:"name"`
	Size   int    `yaml:"size"`
	Access string `yaml:"access"`
}

type DemoConfig struct {
	Workers int           `yaml:"workers"`
	Records int           `yaml:"records"`
	Hold    time.Duration `yaml:"hold"`
	Wait    time.Duration `yaml:"wait"`
}

type ServeConfig struct {
	Addr string `yaml:"addr"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel: logger.Level(),
		Region: RegionConfig{
			Size:   shm.DefaultSize,
			Access: "rw",
		},
		Demo: DemoConfig{
			Workers: 8,
			Records: 1000,
			Hold:    time.Millisecond,
			Wait:    5 * time.Second,
		},
		Serve: ServeConfig{
			Addr: ":9464",
		},
	}
}

// LoadConfig reads path over the defaults. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Verify()
}

func (c Config) Verify() error {
	if c.Demo.Workers <= 0 {
		return fmt.Errorf("demo.workers must be positive, got %d", c.Demo.Workers)
	}
	if c.Demo.Records < 0 {
		return fmt.Errorf("demo.records must not be negative, got %d", c.Demo.Records)
	}
	if c.Demo.Wait <= 0 {
		return fmt.Errorf("demo.wait must be positive, got %s", c.Demo.Wait)
	}
	if need := shm.SizeOf[event](); c.Region.Size < need {
		return fmt.Errorf("region.size must hold at least one %d-byte record, got %d", need, c.Region.Size)
	}
	_, err := c.regionConfig(true)
	return err
}

// regionConfig translates the file section into a shm.Config.
func (c Config) regionConfig(create bool) (shm.Config, error) {
	access, err := shm.ParseAccess(c.Region.Access)
	if err != nil {
		return shm.Config{}, err
	}
	cfg := shm.Config{
		Name:   c.Region.Name,
		Size:   c.Region.Size,
		Access: access,
		Create: create,
	}
	return cfg, shm.VerifyConfig(cfg)
}
