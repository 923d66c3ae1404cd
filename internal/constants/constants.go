package constants

import "time"

// API versioning.
const (
	// APIVersion is the libpod API version requests are issued against.
	APIVersion = "5.0.0"

	// MinSupportedAPIVersion is the oldest server API version this client
	// accepts.
	MinSupportedAPIVersion = "4.0.0"
)

// Connection defaults.
const (
	// DefaultRootSocket is the service socket of a root podman.
	DefaultRootSocket = "/run/podman/podman.sock"

	// DefaultSSHPort is used when an ssh URI carries no port.
	DefaultSSHPort = "22"

	// DefaultUserAgent identifies this client on the wire.
	DefaultUserAgent = "podman-go/1.0"
)

// Timeouts and pooling.
const (
	// DefaultHTTPTimeout bounds non-streaming requests when the caller sets
	// no deadline of their own.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultDialTimeout bounds transport establishment.
	DefaultDialTimeout = 10 * time.Second

	// DefaultRetryWaitMin is the floor for opt-in retry backoff.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the ceiling for opt-in retry backoff.
	DefaultRetryWaitMax = 30 * time.Second

	// DefaultMaxPoolSize caps pooled connections per service.
	DefaultMaxPoolSize = 8
)

// Configuration discovery.
const (
	// ContainersConfPath is the per-user connection configuration file,
	// relative to the user config dir.
	ContainersConfPath = "containers/containers.conf"

	// EnvPrefix is the prefix of connection environment variables.
	EnvPrefix = "CONTAINER_"
)
