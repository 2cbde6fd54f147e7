package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateXDG points every XDG lookup at a temp dir.
func isolateXDG(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	t.Setenv("XDG_DOWNLOAD_DIR", filepath.Join(root, "Downloads"))
	return root
}

func TestSetDefaults(t *testing.T) {
	mgr := &Manager{viper: viper.New()}
	mgr.setDefaults()

	assert.Equal(t, "6h0m0s", mgr.viper.GetString("update.check_interval"))
	assert.Equal(t, ".apk", mgr.viper.GetString("update.package_extension"))
	assert.True(t, mgr.viper.GetBool("download.allow_metered"))
	assert.True(t, mgr.viper.GetBool("download.allow_roaming"))
}

func TestManager_LoadCreatesDefaultFile(t *testing.T) {
	root := isolateXDG(t)
	dir := filepath.Join(root, "cfg")

	mgr, err := NewManager(WithConfigDir(dir))
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	assert.True(t, mgr.Created())
	assert.FileExists(t, filepath.Join(dir, "config.toml"))

	cfg := mgr.Get()
	assert.Equal(t, 6*time.Hour, cfg.Update.CheckInterval)
	assert.Equal(t, 10*time.Second, cfg.Update.ConnectTimeout)
	assert.Equal(t, 10*time.Second, cfg.Update.ReadTimeout)
	assert.Equal(t, "alonsobasauri", cfg.Update.Owner)
	assert.Equal(t, "smartsystems-chat", cfg.Update.ArtifactPrefix)
	assert.Equal(t, "https://chat.smartsystems.work/", cfg.Shell.SiteURL)
	assert.Equal(t, filepath.Join(root, "data", "chatshell", "chatshell.sqlite"), cfg.Database.Path)
	assert.Equal(t, filepath.Join(root, "Downloads"), cfg.Download.Dir)

	data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "check_interval")
	assert.Contains(t, string(data), "6h0m0s")
}

func TestManager_LoadExistingFileAndEnv(t *testing.T) {
	isolateXDG(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
[update]
check_interval = "12h"
package_extension = "aab"

[download]
dir = "/srv/downloads"
allow_roaming = false

[logging]
level = "DEBUG"
`), 0o600))
	t.Setenv("CHATSHELL_UPDATE_READ_TIMEOUT", "3s")
	t.Setenv("CHATSHELL_LOG_FORMAT", "json")

	mgr, err := NewManager(WithConfigDir(dir))
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	assert.False(t, mgr.Created())
	assert.Equal(t, 12*time.Hour, cfg.Update.CheckInterval)
	assert.Equal(t, 3*time.Second, cfg.Update.ReadTimeout)
	assert.Equal(t, ".aab", cfg.Update.PackageExtension)
	assert.Equal(t, "/srv/downloads", cfg.Download.Dir)
	assert.False(t, cfg.Download.AllowRoaming)
	assert.True(t, cfg.Download.AllowMetered)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestManager_LoadInvalidFile(t *testing.T) {
	isolateXDG(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
[update]
check_interval = "0s"
schedule = "every now and then"
`), 0o600))

	mgr, err := NewManager(WithConfigDir(dir))
	require.NoError(t, err)

	err = mgr.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "update.check_interval")
	assert.Contains(t, err.Error(), "update.schedule")
}

func TestManager_GetBeforeLoad(t *testing.T) {
	isolateXDG(t)
	mgr, err := NewManager(WithConfigDir(t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), mgr.Get())
}

func TestManager_WatchReloads(t *testing.T) {
	isolateXDG(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(file, []byte("[update]\ncheck_interval = \"6h\"\n"), 0o600))

	mgr, err := NewManager(WithConfigDir(dir))
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	changed := make(chan *Config, 4)
	mgr.OnConfigChange(func(c *Config) { changed <- c })
	require.NoError(t, mgr.Watch(zerolog.Nop()))
	require.NoError(t, mgr.Watch(zerolog.Nop()), "second call is a no-op")

	require.NoError(t, os.WriteFile(file, []byte("[update]\ncheck_interval = \"2h\"\n"), 0o600))

	select {
	case c := <-changed:
		assert.Equal(t, 2*time.Hour, c.Update.CheckInterval)
	case <-time.After(5 * time.Second):
		t.Fatal("config change not observed")
	}
	assert.Equal(t, 2*time.Hour, mgr.Get().Update.CheckInterval)
}
