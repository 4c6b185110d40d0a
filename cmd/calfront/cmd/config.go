package cmd

import (
	"os"

	"github.com/goccy/go-yaml"
)

// Config is calfront's optional project-local configuration, loaded from
// .calfront.yaml in the current directory if present. Flags always
// override a config value when both are set.
type Config struct {
	Color              bool     `yaml:"color"`
	MaxDiagnostics     int      `yaml:"maxDiagnostics"`
	SanitizerAllowlist []string `yaml:"sanitizerAllowlist"`
}

func defaultConfig() Config {
	return Config{Color: true, MaxDiagnostics: 0}
}

// loadConfig reads .calfront.yaml from the current directory. A missing
// file is not an error; it just yields defaultConfig().
func loadConfig() (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(".calfront.yaml")
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
