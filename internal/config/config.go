// Package config provides configuration defaults and TOML file parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Defaults applied when neither the config file nor flags say otherwise.
const (
	DefaultAddr             = ":8080"
	DefaultCameraID         = 0
	DefaultCountdownSeconds = 3
	DefaultDetectTimeout    = 15 * time.Second
)

// Config is the fully resolved application configuration.
type Config struct {
	Addr             string
	StaticDir        string
	CameraID         int
	DetectEndpoint   string
	DetectTimeout    time.Duration
	CountdownSeconds int
	SpeechCommand    string
}

// FileConfig represents the TOML configuration file. All fields are optional;
// nil means "not set" and the default survives.
type FileConfig struct {
	Server ServerConfig `toml:"server"`
	Camera CameraConfig `toml:"camera"`
	Detect DetectConfig `toml:"detect"`
	Scan   ScanConfig   `toml:"scan"`
	Speech SpeechConfig `toml:"speech"`
}

// ServerConfig maps HTTP server settings.
type ServerConfig struct {
	Addr      *string `toml:"addr"`
	StaticDir *string `toml:"static-dir"`
}

// CameraConfig maps camera settings.
type CameraConfig struct {
	Device *int `toml:"device"`
}

// DetectConfig maps remote detection settings.
type DetectConfig struct {
	Endpoint       *string `toml:"endpoint"`
	TimeoutSeconds *int    `toml:"timeout-seconds"`
}

// ScanConfig maps scan sequencing settings.
type ScanConfig struct {
	CountdownSeconds *int `toml:"countdown-seconds"`
}

// SpeechConfig maps speech synthesis settings.
type SpeechConfig struct {
	Command *string `toml:"command"`
}

// Default returns a Config populated with built-in defaults.
func Default() Config {
	return Config{
		Addr:             DefaultAddr,
		CameraID:         DefaultCameraID,
		DetectTimeout:    DefaultDetectTimeout,
		CountdownSeconds: DefaultCountdownSeconds,
	}
}

// Load reads a TOML config from the given path. A missing file is not an error.
func Load(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Apply overlays the file values onto c. Unset file fields leave c untouched.
func (f FileConfig) Apply(c *Config) {
	if f.Server.Addr != nil {
		c.Addr = *f.Server.Addr
	}
	if f.Server.StaticDir != nil {
		c.StaticDir = *f.Server.StaticDir
	}
	if f.Camera.Device != nil {
		c.CameraID = *f.Camera.Device
	}
	if f.Detect.Endpoint != nil {
		c.DetectEndpoint = *f.Detect.Endpoint
	}
	if f.Detect.TimeoutSeconds != nil {
		c.DetectTimeout = time.Duration(*f.Detect.TimeoutSeconds) * time.Second
	}
	if f.Scan.CountdownSeconds != nil {
		c.CountdownSeconds = *f.Scan.CountdownSeconds
	}
	if f.Speech.Command != nil {
		c.SpeechCommand = *f.Speech.Command
	}
}

// DefaultPath returns the default config file location under the XDG config home.
func DefaultPath() string {
	return filepath.Join(xdgConfigHome(), "fingerdetect", "config.toml")
}

// xdgConfigHome returns the XDG config home or a default fallback.
func xdgConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}
