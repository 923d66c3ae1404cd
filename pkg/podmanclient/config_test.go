package podmanclient

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks the recognized CONTAINER_* variables so host settings
// cannot leak into the test.
func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"CONTAINER_HOST",
		"CONTAINER_SSHKEY",
		"CONTAINER_PASSPHRASE",
		"CONTAINER_CONNECTION",
		"CONTAINER_TIMEOUT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

// writeContainersConf places a containers.conf under a fake config dir.
func writeContainersConf(t *testing.T, content string) {
	t.Helper()

	configDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)

	dir := filepath.Join(configDir, "containers")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "containers.conf"), []byte(content), 0o644))
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "unix:///run/podman/podman.sock", config.BaseURI)
	assert.Empty(t, config.Identity)
}

func TestLoadConfig_EnvOverridesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("CONTAINER_HOST", "tcp://10.0.0.5:8080")
	t.Setenv("CONTAINER_SSHKEY", "/home/core/.ssh/id_ed25519")
	t.Setenv("CONTAINER_TIMEOUT", "45s")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "tcp://10.0.0.5:8080", config.BaseURI)
	assert.Equal(t, "/home/core/.ssh/id_ed25519", config.Identity)
	assert.Equal(t, 45*time.Second, config.Timeout)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	writeContainersConf(t, `
[engine]
host = "unix:///run/user/1000/podman/podman.sock"
`)

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "unix:///run/user/1000/podman/podman.sock", config.BaseURI)
}

func TestLoadConfig_EnvBeatsFile(t *testing.T) {
	clearEnv(t)
	writeContainersConf(t, `
[engine]
host = "unix:///from/file.sock"
`)
	t.Setenv("CONTAINER_HOST", "tcp://from-env:9000")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "tcp://from-env:9000", config.BaseURI)
}

func TestLoadConfig_NamedConnection(t *testing.T) {
	clearEnv(t)
	writeContainersConf(t, `
[engine]
active_service = "builder"

[engine.service_destinations.builder]
uri = "ssh://core@builder.example.com:2222/run/podman/podman.sock"
identity = "/home/core/.ssh/builder_ed25519"
`)

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "ssh://core@builder.example.com:2222/run/podman/podman.sock", config.BaseURI)
	assert.Equal(t, "/home/core/.ssh/builder_ed25519", config.Identity)
}

func TestLoadConfig_ConnectionEnvSelectsDestination(t *testing.T) {
	clearEnv(t)
	writeContainersConf(t, `
[engine]
active_service = "builder"

[engine.service_destinations.builder]
uri = "ssh://core@builder.example.com/run/podman/podman.sock"

[engine.service_destinations.staging]
uri = "tcp://staging.example.com:8080"
`)
	t.Setenv("CONTAINER_CONNECTION", "staging")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "tcp://staging.example.com:8080", config.BaseURI)
}

func TestLoadConfig_UnknownConnection(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("CONTAINER_CONNECTION", "ghost")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestLoadConfig_BadTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("CONTAINER_TIMEOUT", "soon")

	_, err := LoadConfig()
	require.Error(t, err)
}
