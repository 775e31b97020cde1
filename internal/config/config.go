// Package config resolves where the client talks to and where it keeps its
// local state. Values come from flags or the environment first, then the
// local settings table, then built-in defaults.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/julianstephens/habitlog/internal/constants"
	"github.com/julianstephens/habitlog/internal/logger"
	"github.com/julianstephens/habitlog/internal/utils"
)

type Config struct {
	APIURL       string
	ConfigDir    string
	TokenBackend string
	Timezone     string
	Timeout      time.Duration
	Debug        bool
}

// SettingsReader is satisfied by *storage.Store.
type SettingsReader interface {
	GetSetting(key string) (string, error)
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// LoadDotEnv loads a .env file from each dir that has one. Variables already
// set in the environment are never overridden, so earlier dirs win.
// It returns the files that were loaded.
func LoadDotEnv(dirs ...string) ([]string, error) {
	var loaded []string
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, constants.EnvFileName)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, fmt.Errorf("failed to load %s: %w", path, err)
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}

// ResolveConfigDir expands the config dir, falling back to the default.
func (c *Config) ResolveConfigDir() error {
	if c.ConfigDir == "" {
		c.ConfigDir = constants.DefaultConfigDir
	}
	dir, err := ExpandHome(c.ConfigDir)
	if err != nil {
		return err
	}
	c.ConfigDir = dir
	return nil
}

// DBPath is the local sqlite database inside the config dir.
func (c *Config) DBPath() string {
	return filepath.Join(c.ConfigDir, constants.DefaultDBName)
}

// ApplySettings fills fields left empty by flags and environment from the
// local settings table.
func (c *Config) ApplySettings(s SettingsReader) error {
	if s == nil {
		return nil
	}
	fill := func(field *string, key string) error {
		if *field != "" {
			return nil
		}
		v, err := s.GetSetting(key)
		if err != nil {
			return fmt.Errorf("failed to read setting %s: %w", key, err)
		}
		*field = v
		return nil
	}

	if err := fill(&c.APIURL, constants.SettingAPIURL); err != nil {
		return err
	}
	if err := fill(&c.TokenBackend, constants.SettingTokenBackend); err != nil {
		return err
	}
	return fill(&c.Timezone, constants.SettingTimezone)
}

// ApplyDefaults fills anything still unset.
func (c *Config) ApplyDefaults() {
	if c.APIURL == "" {
		c.APIURL = constants.DefaultAPIURL
	}
	if c.TokenBackend == "" {
		c.TokenBackend = constants.DefaultTokenBackend
	}
	if c.Timezone == "" {
		c.Timezone = constants.DefaultTimezone
	}
	if c.Timeout <= 0 {
		c.Timeout = constants.DefaultTimeout
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API URL %q: must be an absolute http(s) URL", c.APIURL)
	}

	switch c.TokenBackend {
	case constants.TokenBackendKeyring, constants.TokenBackendFile, constants.TokenBackendMemory:
	default:
		return fmt.Errorf("invalid token backend %q (expected keyring, file or memory)", c.TokenBackend)
	}

	if _, err := utils.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}
	return nil
}

// Resolve applies settings and defaults, then validates.
func (c *Config) Resolve(s SettingsReader) error {
	if err := c.ApplySettings(s); err != nil {
		return err
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return err
	}
	logger.Debug("configuration resolved",
		"api_url", c.APIURL,
		"config_dir", c.ConfigDir,
		"token_backend", c.TokenBackend,
		"timezone", c.Timezone,
	)
	return nil
}
