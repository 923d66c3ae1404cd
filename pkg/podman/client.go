package podman

import (
	"context"
	"time"
)

// ContainersClient manages container resources.
type ContainersClient interface {
	// List returns proxies for the containers matching opts. Ordering is
	// whatever the service returned; callers needing a deterministic order
	// must sort.
	List(ctx context.Context, opts *ListOptions) ([]*ContainerProxy, error)
	// Get returns a proxy for the named container, ErrNotFound if absent.
	// The proxy's attributes are not populated until first use.
	Get(ctx context.Context, nameOrID string) (*ContainerProxy, error)
	Create(ctx context.Context, spec *ContainerSpec) (*ContainerProxy, error)
	// Remove deletes a container. Removing a running container without
	// opts.Force fails with ErrConflict.
	Remove(ctx context.Context, nameOrID string, opts *RemoveOptions) error
	Inspect(ctx context.Context, nameOrID string) (*ContainerDetails, error)
	Exists(ctx context.Context, nameOrID string) (bool, error)

	Start(ctx context.Context, nameOrID string) error
	Stop(ctx context.Context, nameOrID string, opts *StopOptions) error
	Restart(ctx context.Context, nameOrID string, opts *StopOptions) error
	Pause(ctx context.Context, nameOrID string) error
	Unpause(ctx context.Context, nameOrID string) error
	Kill(ctx context.Context, nameOrID string, signal string) error
	Rename(ctx context.Context, nameOrID string, newName string) error
	// Wait blocks until the container reaches one of opts.Conditions
	// (default stopped) and returns its exit code.
	Wait(ctx context.Context, nameOrID string, opts *WaitOptions) (int32, error)
	// Logs demuxes the container's log stream onto the given channels, which
	// are closed on return. Blocks until the stream ends or ctx is done.
	Logs(ctx context.Context, nameOrID string, opts *LogOptions, stdout, stderr chan<- string) error
	Prune(ctx context.Context, filters Filters) ([]PruneReport, error)
}

// ImagesClient manages image resources. Images are created by Pull rather
// than a create spec.
type ImagesClient interface {
	List(ctx context.Context, opts *ListOptions) ([]*ImageProxy, error)
	Get(ctx context.Context, nameOrID string) (*ImageProxy, error)
	Remove(ctx context.Context, nameOrID string, opts *RemoveOptions) error
	Inspect(ctx context.Context, nameOrID string) (*ImageDetails, error)
	Exists(ctx context.Context, nameOrID string) (bool, error)

	// Pull fetches an image from a registry and streams NDJSON progress
	// frames. The stream must be drained and closed by the caller.
	Pull(ctx context.Context, reference string, opts *PullOptions) (*Stream[PullReport], error)
	Tag(ctx context.Context, nameOrID, repo, tag string) error
	Untag(ctx context.Context, nameOrID, repo, tag string) error
	Prune(ctx context.Context, filters Filters) ([]PruneReport, error)
}

// PodsClient manages pod resources.
type PodsClient interface {
	List(ctx context.Context, opts *ListOptions) ([]*PodProxy, error)
	Get(ctx context.Context, nameOrID string) (*PodProxy, error)
	Create(ctx context.Context, spec *PodSpec) (*PodProxy, error)
	Remove(ctx context.Context, nameOrID string, opts *RemoveOptions) error
	Inspect(ctx context.Context, nameOrID string) (*PodDetails, error)
	Exists(ctx context.Context, nameOrID string) (bool, error)

	Start(ctx context.Context, nameOrID string) error
	Stop(ctx context.Context, nameOrID string, opts *StopOptions) error
	Restart(ctx context.Context, nameOrID string) error
	Pause(ctx context.Context, nameOrID string) error
	Unpause(ctx context.Context, nameOrID string) error
	Kill(ctx context.Context, nameOrID string, signal string) error
	Prune(ctx context.Context) ([]PruneReport, error)
}

// NetworksClient manages network resources.
type NetworksClient interface {
	List(ctx context.Context, opts *ListOptions) ([]*NetworkProxy, error)
	Get(ctx context.Context, name string) (*NetworkProxy, error)
	Create(ctx context.Context, spec *NetworkSpec) (*NetworkProxy, error)
	Remove(ctx context.Context, name string, opts *RemoveOptions) error
	Inspect(ctx context.Context, name string) (*Network, error)
	Exists(ctx context.Context, name string) (bool, error)

	Connect(ctx context.Context, name string, opts *NetworkConnectOptions) error
	Disconnect(ctx context.Context, name, container string, force bool) error
	Prune(ctx context.Context, filters Filters) ([]PruneReport, error)
}

// VolumesClient manages volume resources.
type VolumesClient interface {
	List(ctx context.Context, opts *ListOptions) ([]*VolumeProxy, error)
	Get(ctx context.Context, name string) (*VolumeProxy, error)
	Create(ctx context.Context, spec *VolumeSpec) (*VolumeProxy, error)
	Remove(ctx context.Context, name string, opts *RemoveOptions) error
	Inspect(ctx context.Context, name string) (*Volume, error)
	Exists(ctx context.Context, name string) (bool, error)

	Prune(ctx context.Context, filters Filters) ([]PruneReport, error)
}

// SystemClient exposes service-level operations.
type SystemClient interface {
	// Ping performs a lightweight liveness check of the service.
	Ping(ctx context.Context) error
	Version(ctx context.Context) (*Version, error)
	// CheckVersion fails when the server API version is below the minimum
	// this client supports.
	CheckVersion(ctx context.Context) error
	Info(ctx context.Context) (*Info, error)
	// Events streams service events as NDJSON frames until ctx is done or
	// the window given in opts closes.
	Events(ctx context.Context, opts *EventsOptions) (*Stream[Event], error)
	DiskUsage(ctx context.Context) (*DiskUsage, error)
}

// Client is a session against one Podman service. It owns the underlying
// channel; Close releases it. A Client is safe for concurrent use.
type Client interface {
	Containers() ContainersClient
	Images() ImagesClient
	Pods() PodsClient
	Networks() NetworksClient
	Volumes() VolumesClient
	System() SystemClient

	Close() error
}

// Logger is the structured logging hook used by the HTTP layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config configures a client session.
//
// # Connection URI
//
// BaseURI selects the transport by scheme:
//   - unix:///run/podman/podman.sock
//   - tcp://host:port (TLS when certificate material is set)
//   - ssh://user@host[:port]/run/user/1000/podman/podman.sock
//
// # Retry behavior
//
// No request is retried unless RetryMax is set; retry policy is the caller's
// decision. When enabled, retries follow go-retryablehttp semantics
// (connection errors, 429 and 5xx).
type Config struct {
	// BaseURI is the connection URI of the service. Required.
	BaseURI string

	// Identity is the path to an SSH private key (ssh scheme). Passphrase
	// unlocks it when encrypted.
	Identity   string
	Passphrase string
	// SSHIgnoreHostKey disables host-key verification against known_hosts.
	SSHIgnoreHostKey bool

	// CertFile/KeyFile/CAFile provide TLS client material for tcp
	// connections. SkipTLSVerify disables server certificate verification.
	CertFile      string
	KeyFile       string
	CAFile        string
	SkipTLSVerify bool

	// Timeout is the per-request deadline. Zero means no client-side
	// deadline beyond the caller's context. Streaming requests ignore it.
	Timeout time.Duration

	// MaxPoolSize caps pooled connections to the service; 0 uses the
	// default.
	MaxPoolSize int

	// RetryMax enables retries for transient failures when > 0.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// Logger receives structured request/response logs when Debug is set.
	Logger Logger
	Debug  bool
}
