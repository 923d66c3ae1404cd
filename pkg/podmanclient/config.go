package podmanclient

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/apyrgio/podman-go/internal/constants"
	"github.com/apyrgio/podman-go/pkg/podman"
)

// LoadConfig builds a Config from the environment the way the podman CLI
// does: built-in defaults, overridden by the user's containers.conf,
// overridden by CONTAINER_* environment variables.
//
// Recognized variables: CONTAINER_HOST, CONTAINER_SSHKEY,
// CONTAINER_PASSPHRASE, CONTAINER_CONNECTION, CONTAINER_TIMEOUT.
func LoadConfig() (*podman.Config, error) {
	k, err := loadLayers()
	if err != nil {
		return nil, err
	}

	config := &podman.Config{
		BaseURI:    k.String("host"),
		Identity:   k.String("sshkey"),
		Passphrase: k.String("passphrase"),
	}

	if raw := k.String("timeout"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing timeout %q: %w", raw, err)
		}

		config.Timeout = timeout
	}

	// A named connection overrides the flat host key. CONTAINER_CONNECTION
	// wins over the file's active_service.
	name := k.String("connection")
	if name == "" {
		name = k.String("active_service")
	}

	if name != "" {
		uri := k.String("service_destinations." + name + ".uri")
		if uri == "" {
			return nil, fmt.Errorf("connection %q: %w", name, podman.ErrInvalidURI)
		}

		config.BaseURI = uri

		if identity := k.String("service_destinations." + name + ".identity"); identity != "" {
			config.Identity = identity
		}
	}

	return config, nil
}

// loadLayers merges the configuration sources in priority order.
func loadLayers() (*koanf.Koanf, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"host": "unix://" + constants.DefaultRootSocket,
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path := containersConfPath(); path != "" {
		fileConf := koanf.New(".")
		if err := fileConf.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}

		// Connection settings live under the engine table.
		if err := k.Merge(fileConf.Cut("engine")); err != nil {
			return nil, fmt.Errorf("merging file config: %w", err)
		}
	}

	envConf := koanf.New(".")
	err := envConf.Load(env.Provider(constants.EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, constants.EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading environment config: %w", err)
	}

	if err := k.Merge(envConf); err != nil {
		return nil, fmt.Errorf("merging environment config: %w", err)
	}

	return k, nil
}

// containersConfPath finds the user's containers.conf, or "" when absent.
func containersConfPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	path := filepath.Join(configDir, filepath.FromSlash(constants.ContainersConfPath))
	if _, err := os.Stat(path); err != nil {
		return ""
	}

	return path
}
