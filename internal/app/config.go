package app

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document formats accepted by Config.Format.
const (
	FormatAuto = "auto"
	FormatHCL  = "hcl"
	FormatJSON = "json"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Path string `yaml:"-"` // a document, or a directory of documents

	Format               string `yaml:"format"`
	Output               string `yaml:"output"`
	LogFormat            string `yaml:"log_format"`
	LogLevel             string `yaml:"log_level"`
	IgnoreUnknownMembers bool   `yaml:"ignore_unknown_members"`
}

// DefaultConfig returns the configuration used when neither a config file
// nor a flag sets a field.
func DefaultConfig() Config {
	return Config{
		Format:    FormatAuto,
		Output:    OutputJSON,
		LogFormat: "text",
		LogLevel:  "info",
	}
}

// LoadConfigFile overlays the YAML file at path onto base. Unknown keys are
// rejected.
func LoadConfigFile(path string, base Config) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return base, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg := base
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return base, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	return cfg, nil
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.Path == "" {
		return nil, errors.New("Path is a required configuration field and cannot be empty")
	}

	cfg.Format = strings.ToLower(cfg.Format)
	switch cfg.Format {
	case "":
		cfg.Format = FormatAuto
	case FormatAuto, FormatHCL, FormatJSON:
	default:
		return nil, fmt.Errorf("invalid format %q: must be 'auto', 'hcl' or 'json'", cfg.Format)
	}

	cfg.Output = strings.ToLower(cfg.Output)
	switch cfg.Output {
	case "":
		cfg.Output = OutputJSON
	case OutputJSON, OutputYAML, OutputCBOR:
	default:
		return nil, fmt.Errorf("invalid output %q: must be 'json', 'yaml' or 'cbor'", cfg.Output)
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	return &cfg, nil
}
