package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/habitlog/internal/constants"
)

type mapSettings map[string]string

func (m mapSettings) GetSetting(key string) (string, error) {
	return m[key], nil
}

type failingSettings struct{}

func (failingSettings) GetSetting(string) (string, error) {
	return "", errors.New("database is locked")
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/.config/habitlog", filepath.Join(home, ".config/habitlog")},
		{"/tmp/habitlog", "/tmp/habitlog"},
		{"relative/dir", "relative/dir"},
		{"~other/dir", "~other/dir"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ExpandHome(tt.in)
			if err != nil {
				t.Fatalf("ExpandHome(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolvePrecedence(t *testing.T) {
	settings := mapSettings{
		constants.SettingAPIURL:       "https://habits.example.com/api/",
		constants.SettingTokenBackend: constants.TokenBackendFile,
		constants.SettingTimezone:     "Europe/Berlin",
	}

	t.Run("settings fill empty fields", func(t *testing.T) {
		cfg := Config{}
		if err := cfg.Resolve(settings); err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if cfg.APIURL != "https://habits.example.com/api" {
			t.Errorf("APIURL = %q", cfg.APIURL)
		}
		if cfg.TokenBackend != constants.TokenBackendFile {
			t.Errorf("TokenBackend = %q", cfg.TokenBackend)
		}
		if cfg.Timezone != "Europe/Berlin" {
			t.Errorf("Timezone = %q", cfg.Timezone)
		}
		if cfg.Timeout != constants.DefaultTimeout {
			t.Errorf("Timeout = %v", cfg.Timeout)
		}
	})

	t.Run("flags win over settings", func(t *testing.T) {
		cfg := Config{APIURL: "http://localhost:9000/api", TokenBackend: constants.TokenBackendMemory}
		if err := cfg.Resolve(settings); err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if cfg.APIURL != "http://localhost:9000/api" || cfg.TokenBackend != constants.TokenBackendMemory {
			t.Errorf("flags overridden: %+v", cfg)
		}
		if cfg.Timezone != "Europe/Berlin" {
			t.Errorf("Timezone = %q", cfg.Timezone)
		}
	})

	t.Run("defaults without settings", func(t *testing.T) {
		cfg := Config{}
		if err := cfg.Resolve(nil); err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if cfg.APIURL != constants.DefaultAPIURL || cfg.TokenBackend != constants.DefaultTokenBackend || cfg.Timezone != constants.DefaultTimezone {
			t.Errorf("unexpected defaults: %+v", cfg)
		}
	})

	t.Run("settings error", func(t *testing.T) {
		cfg := Config{}
		if err := cfg.Resolve(failingSettings{}); err == nil {
			t.Error("expected error from settings reader")
		}
	})
}

func TestValidate(t *testing.T) {
	base := Config{APIURL: "http://localhost:8000/api", TokenBackend: "keyring", Timezone: "UTC"}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"relative url", func(c *Config) { c.APIURL = "/api" }, true},
		{"ftp url", func(c *Config) { c.APIURL = "ftp://example.com" }, true},
		{"bad backend", func(c *Config) { c.TokenBackend = "vault" }, true},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	empty := t.TempDir()

	writeEnv := func(dir, content string) {
		if err := os.WriteFile(filepath.Join(dir, constants.EnvFileName), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	writeEnv(first, "HABITLOG_TEST_A=first\n")
	writeEnv(second, "HABITLOG_TEST_A=second\nHABITLOG_TEST_B=second\nHABITLOG_TEST_C=second\n")

	t.Setenv("HABITLOG_TEST_C", "process")
	// Register cleanup for keys godotenv will set.
	t.Setenv("HABITLOG_TEST_A", "")
	t.Setenv("HABITLOG_TEST_B", "")
	os.Unsetenv("HABITLOG_TEST_A")
	os.Unsetenv("HABITLOG_TEST_B")

	loaded, err := LoadDotEnv(first, empty, second, "")
	if err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if len(loaded) != 2 {
		t.Errorf("loaded %v, want 2 files", loaded)
	}

	if got := os.Getenv("HABITLOG_TEST_A"); got != "first" {
		t.Errorf("HABITLOG_TEST_A = %q, want first", got)
	}
	if got := os.Getenv("HABITLOG_TEST_B"); got != "second" {
		t.Errorf("HABITLOG_TEST_B = %q, want second", got)
	}
	if got := os.Getenv("HABITLOG_TEST_C"); got != "process" {
		t.Errorf("HABITLOG_TEST_C = %q, want process", got)
	}
}

func TestResolveConfigDir(t *testing.T) {
	cfg := Config{ConfigDir: "/tmp/habitlog-test"}
	if err := cfg.ResolveConfigDir(); err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath() != filepath.Join("/tmp/habitlog-test", constants.DefaultDBName) {
		t.Errorf("DBPath = %q", cfg.DBPath())
	}

	cfg = Config{}
	if err := cfg.ResolveConfigDir(); err != nil {
		t.Fatal(err)
	}
	if cfg.ConfigDir == constants.DefaultConfigDir {
		t.Error("default config dir was not expanded")
	}
}
