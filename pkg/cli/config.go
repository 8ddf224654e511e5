package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// UserConfig represents ~/.qpulse/config.yaml.
type UserConfig struct {
	CurrentProfile string             `yaml:"current-profile"`
	Profiles       map[string]Profile `yaml:"profiles"`
}

// Profile represents a single named configuration profile.
type Profile struct {
	Host     string `yaml:"host,omitempty"`
	Token    string `yaml:"token,omitempty"`
	Output   string `yaml:"output,omitempty"`
	Database string `yaml:"database,omitempty"`
}

// ActiveProfile returns the profile to use based on the override or current-profile.
func (c *UserConfig) ActiveProfile(override string) Profile {
	name := c.CurrentProfile
	if override != "" {
		name = override
	}
	if p, ok := c.Profiles[name]; ok {
		return p
	}
	return Profile{}
}

// ConfigDir returns the path to ~/.qpulse/.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".qpulse")
}

// ConfigPath returns the path to ~/.qpulse/config.yaml.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// LoadUserConfig reads ~/.qpulse/config.yaml.
func LoadUserConfig() (*UserConfig, error) {
	path := ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg UserConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]Profile{}
	}
	return &cfg, nil
}

// SaveUserConfig writes ~/.qpulse/config.yaml. The token lands in this file,
// hence the restrictive modes.
func SaveUserConfig(cfg *UserConfig) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(ConfigPath(), data, 0o600)
}

// updateActiveProfile loads the config (or starts a fresh one), applies fn to
// the active profile, and writes the result back.
func updateActiveProfile(override string, fn func(*Profile)) error {
	cfg, err := LoadUserConfig()
	if err != nil {
		cfg = &UserConfig{Profiles: map[string]Profile{}}
	}
	name := cfg.CurrentProfile
	if override != "" {
		name = override
	}
	if name == "" {
		name = "default"
		cfg.CurrentProfile = name
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]Profile{}
	}
	p := cfg.Profiles[name]
	fn(&p)
	cfg.Profiles[name] = p
	return SaveUserConfig(cfg)
}
