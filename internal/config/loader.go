package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".tipitakafetch"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// FetchDefaults holds fetch settings that the config file can override.
// Zero values mean "use the built-in default".
type FetchDefaults struct {
	// BatchSize is the number of sutta records per batch file.
	BatchSize int `yaml:"batchSize,omitempty"`

	// Delay is the politeness delay between requests, in Go duration
	// syntax (e.g. "500ms", "2s").
	Delay string `yaml:"delay,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`
}

// DelayDuration parses the Delay field.
// Returns (0, false, nil) when no delay is configured.
func (d FetchDefaults) DelayDuration() (time.Duration, bool, error) {
	if d.Delay == "" {
		return 0, false, nil
	}
	dur, err := time.ParseDuration(d.Delay)
	if err != nil {
		return 0, false, fmt.Errorf("invalid delay %q in config file: %w", d.Delay, err)
	}
	return dur, true, nil
}

// RangeOverride replaces the ID range of a single Nikaya.
// Useful when the site renumbers pages or for fetching a slice of a
// division without touching the registry.
type RangeOverride struct {
	// Start is the first sutta ID (inclusive).
	Start int `yaml:"start"`

	// End is the last sutta ID (inclusive).
	End int `yaml:"end"`
}

// File represents the structure of the .tipitakafetch configuration file.
type File struct {
	// BaseURL overrides the source site root.
	BaseURL string `yaml:"baseURL,omitempty"`

	// Defaults contains fetch settings applied to every run.
	Defaults FetchDefaults `yaml:"defaults,omitempty"`

	// Nikayas maps Nikaya keys to range overrides.
	Nikayas map[string]RangeOverride `yaml:"nikayas,omitempty"`
}

// ApplyOverride returns the Nikaya with any configured range override applied.
// Only positive values replace the registry range, so an override can pin
// just the start or just the end.
func (cf *File) ApplyOverride(n Nikaya) Nikaya {
	o, ok := cf.Nikayas[n.Key]
	if !ok {
		return n
	}
	if o.Start > 0 {
		n.Start = o.Start
	}
	if o.End > 0 {
		n.End = o.End
	}
	return n
}

// LoadConfigFile loads overrides from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers decide
// whether that is fatal based on whether the path was explicitly specified.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	if cf.Nikayas == nil {
		cf.Nikayas = make(map[string]RangeOverride)
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
//  1. If configPath is specified, use it directly
//  2. Look for .tipitakafetch in the current directory
//  3. Look for .tipitakafetch in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if
// not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
