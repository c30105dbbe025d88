package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/PixPMusic/gopher-keypad/internal/keypad"
)

// DeviceType represents the keypad hardware
type DeviceType string

const (
	DeviceTypeClassic  DeviceType = "classic"  // Launchpad S, 4x4 corner of the grid
	DeviceTypeColorful DeviceType = "colorful" // Launchpad Mini Mk3, 4x4 corner of the grid
	DeviceTypeSerial   DeviceType = "serial"   // Keybow 2040 running the serial bridge
	DeviceTypeVirtual  DeviceType = "virtual"  // On-screen pad
	DeviceTypeTerminal DeviceType = "terminal" // Pads drawn in the terminal, latching keys
)

// DeviceConfig holds configuration for the keypad hardware
type DeviceConfig struct {
	ID         string     `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	Type       DeviceType `json:"type" yaml:"type"`
	InPort     string     `json:"in_port,omitempty" yaml:"in_port,omitempty"`
	OutPort    string     `json:"out_port,omitempty" yaml:"out_port,omitempty"`
	SerialPort string     `json:"serial_port,omitempty" yaml:"serial_port,omitempty"`
	Baud       int        `json:"baud,omitempty" yaml:"baud,omitempty"`
}

// NewDeviceConfig creates a new device config with a generated ID
func NewDeviceConfig() DeviceConfig {
	return DeviceConfig{
		ID:   uuid.New().String(),
		Name: "Keypad",
		Type: DeviceTypeVirtual,
		Baud: 115200,
	}
}

// MIDIConfig names the DAW-facing ports
type MIDIConfig struct {
	InPort  string `json:"in_port" yaml:"in_port"`
	OutPort string `json:"out_port" yaml:"out_port"`
}

// Config holds application configuration
type Config struct {
	Profile string       `json:"profile" yaml:"profile"`
	Keypad  KeypadConfig `json:"keypad" yaml:"keypad"`
	MIDI    MIDIConfig   `json:"midi" yaml:"midi"`
	Device  DeviceConfig `json:"device" yaml:"device"`

	OpenAtLogin bool `json:"open_at_login,omitempty" yaml:"open_at_login,omitempty"`

	path string
}

// Default returns the config used when no file exists
func Default() *Config {
	return &Config{
		Profile: keypad.ProfileSingle,
		Device:  NewDeviceConfig(),
	}
}

// configDir returns the platform-appropriate config directory
func configDir() (string, error) {
	configHome, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configHome, "gopher-keypad"), nil
}

// ConfigPath returns the full path to the default config file
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LogPath returns the log file used while the terminal keypad owns the screen
func LogPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "gopher-keypad.log"), nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Load reads the config at path (the default path when empty), returning
// defaults if the file does not exist
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		if path, err = ConfigPath(); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		cfg.path = path
		return cfg, nil
	}
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("read config"))
	}

	cfg := Default()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, keypad.ConfigError("parse %s: %v", path, err)
	}

	if cfg.Device.ID == "" {
		cfg.Device.ID = uuid.New().String()
	}
	if cfg.Device.Type == "" {
		cfg.Device.Type = DeviceTypeVirtual
	}
	cfg.path = path
	return cfg, nil
}

// Path returns the file the config was loaded from
func (c *Config) Path() string {
	return c.path
}

// Save writes the config back to the file it was loaded from
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		var err error
		if path, err = ConfigPath(); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Settings resolves the profile and explicit overrides into keypad settings
func (c *Config) Settings() (keypad.Settings, error) {
	profile := c.Profile
	if profile == "" {
		profile = keypad.ProfileSingle
	}
	s, err := keypad.Profile(profile)
	if err != nil {
		return keypad.Settings{}, err
	}
	if err := c.Keypad.apply(&s); err != nil {
		return keypad.Settings{}, err
	}
	return s, nil
}
