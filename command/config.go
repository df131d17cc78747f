package command

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = ".go-redis-parser.yaml"

// Config holds the defaults read from the YAML config file. Flags given on
// the command line win over it.
type Config struct {
	Output    string `yaml:"output"`
	Type      string `yaml:"type"`
	Verbosity int    `yaml:"verbosity"`
	NoColor   bool   `yaml:"no_color"`
	Truncated bool   `yaml:"aof_load_truncated"`
}

// LoadConfig reads path. A missing file is only an error when required.
func LoadConfig(path string, required bool) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}
