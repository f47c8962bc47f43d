package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	envMNISTConfig  = "MNIST_CONFIG"
	envMNISTDataDir = "MNIST_DATA_DIR"
)

// Config represents the mnist configuration file (~/.config/mnist/config.yaml).
type Config struct {
	DataDir string `yaml:"data_dir"`
	Split   string `yaml:"split"`

	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Server
	ServerAddress string `yaml:"server_address"`
}

func configPath() string {
	if p := strings.TrimSpace(os.Getenv(envMNISTConfig)); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "mnist", "config.yaml")
}

// LoadConfig reads the config file. Returns a zero Config if the file doesn't
// exist or cannot be parsed.
func LoadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	cfg, err := readConfig(path)
	if err != nil {
		return Config{}
	}
	return cfg
}

func readConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyLoggingConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyDatasetConfig fills --dir and --split when they were not given.
// MNIST_DATA_DIR takes precedence over the config file.
func applyDatasetConfig(c *cli.Command, cfg Config) {
	if !c.IsSet("dir") {
		if env := strings.TrimSpace(os.Getenv(envMNISTDataDir)); env != "" {
			dataDir = env
		} else if cfg.DataDir != "" {
			dataDir = cfg.DataDir
		}
	}
	if cfg.Split != "" && !c.IsSet("split") {
		splitName = cfg.Split
	}
}

func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	applyDatasetConfig(c, cfg)
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
}
