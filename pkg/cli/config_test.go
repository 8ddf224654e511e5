package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserConfigRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := &UserConfig{
		CurrentProfile: "staging",
		Profiles: map[string]Profile{
			"staging": {Host: "https://qp.staging.example.com", Token: "tok", Database: "db-7"},
		},
	}
	require.NoError(t, SaveUserConfig(cfg))

	loaded, err := LoadUserConfig()
	require.NoError(t, err)
	assert.Equal(t, "staging", loaded.CurrentProfile)
	assert.Equal(t, "db-7", loaded.Profiles["staging"].Database)
	assert.Equal(t, "tok", loaded.Profiles["staging"].Token)
}

func TestConfigFileModes(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	require.NoError(t, SaveUserConfig(&UserConfig{CurrentProfile: "default", Profiles: map[string]Profile{}}))

	info, err := os.Stat(ConfigPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "config holds the token")

	dirInfo, err := os.Stat(filepath.Dir(ConfigPath()))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())
}

func TestLoadUserConfigMissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := LoadUserConfig()
	assert.Error(t, err, "missing config is an error the caller treats as optional")
}

func TestActiveProfileOverride(t *testing.T) {
	cfg := &UserConfig{
		CurrentProfile: "default",
		Profiles: map[string]Profile{
			"default": {Host: "http://localhost:8000"},
			"prod":    {Host: "https://qp.example.com"},
		},
	}

	assert.Equal(t, "http://localhost:8000", cfg.ActiveProfile("").Host)
	assert.Equal(t, "https://qp.example.com", cfg.ActiveProfile("prod").Host)
	assert.Equal(t, Profile{}, cfg.ActiveProfile("missing"))
}

func TestUpdateActiveProfileCreatesDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	require.NoError(t, updateActiveProfile("", func(p *Profile) {
		p.Token = "fresh-token"
	}))

	cfg, err := LoadUserConfig()
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.CurrentProfile)
	assert.Equal(t, "fresh-token", cfg.Profiles["default"].Token)
}

func TestUpdateActiveProfilePreservesOtherFields(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	require.NoError(t, SaveUserConfig(&UserConfig{
		CurrentProfile: "default",
		Profiles:       map[string]Profile{"default": {Host: "http://localhost:8000", Database: "db-1"}},
	}))

	require.NoError(t, updateActiveProfile("", func(p *Profile) {
		p.Token = "tok"
	}))

	cfg, err := LoadUserConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.Profiles["default"].Host)
	assert.Equal(t, "db-1", cfg.Profiles["default"].Database)
	assert.Equal(t, "tok", cfg.Profiles["default"].Token)
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "", maskToken(""))
	assert.Equal(t, "********", maskToken("short"))
	assert.Equal(t, "eyJh...XVCJ", maskToken("eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ"))
}
