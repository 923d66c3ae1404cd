package client

import (
	"io"

	"github.com/apyrgio/podman-go/internal/http"
	"github.com/apyrgio/podman-go/pkg/podman"
)

// Client implements the podman.Client interface. It owns the channel it was
// given and releases it on Close.
type Client struct {
	httpClient *http.Client
	channel    io.Closer
	closed     bool

	// Resource managers
	containers podman.ContainersClient
	images     podman.ImagesClient
	pods       podman.PodsClient
	networks   podman.NetworksClient
	volumes    podman.VolumesClient
	system     podman.SystemClient
}

// New creates a client over an already-established channel. The channel may
// be nil when the caller manages the transport lifetime itself.
func New(httpClient *http.Client, channel io.Closer) *Client {
	c := &Client{
		httpClient: httpClient,
		channel:    channel,
	}
	c.initializeManagers()

	return c
}

// initializeManagers wires every resource manager to the shared HTTP core.
func (c *Client) initializeManagers() {
	c.containers = NewContainersClient(c.httpClient)
	c.images = NewImagesClient(c.httpClient)
	c.pods = NewPodsClient(c.httpClient)
	c.networks = NewNetworksClient(c.httpClient)
	c.volumes = NewVolumesClient(c.httpClient)
	c.system = NewSystemClient(c.httpClient)
}

// Containers returns the containers manager.
func (c *Client) Containers() podman.ContainersClient {
	return c.containers
}

// Images returns the images manager.
func (c *Client) Images() podman.ImagesClient {
	return c.images
}

// Pods returns the pods manager.
func (c *Client) Pods() podman.PodsClient {
	return c.pods
}

// Networks returns the networks manager.
func (c *Client) Networks() podman.NetworksClient {
	return c.networks
}

// Volumes returns the volumes manager.
func (c *Client) Volumes() podman.VolumesClient {
	return c.volumes
}

// System returns the system manager.
func (c *Client) System() podman.SystemClient {
	return c.system
}

// Close releases the underlying channel. Further use of the client fails
// with ErrClientClosed at the transport.
func (c *Client) Close() error {
	if c.closed {
		return podman.ErrClientClosed
	}
	c.closed = true

	if c.channel != nil {
		return c.channel.Close()
	}

	return nil
}
