package client

import (
	"context"
	"fmt"

	"github.com/apyrgio/podman-go/internal/http"
	"github.com/apyrgio/podman-go/pkg/podman"
)

// VolumesClient implements podman.VolumesClient.
type VolumesClient struct {
	httpClient *http.Client
}

// NewVolumesClient creates a new volumes client.
func NewVolumesClient(httpClient *http.Client) *VolumesClient {
	return &VolumesClient{httpClient: httpClient}
}

// List implements podman.VolumesClient.List.
func (c *VolumesClient) List(ctx context.Context, opts *podman.ListOptions) ([]*podman.VolumeProxy, error) {
	items, err := listResource[podman.Volume](ctx, c.httpClient, kindVolumes, opts)
	if err != nil {
		return nil, err
	}

	proxies := make([]*podman.VolumeProxy, 0, len(items))
	for _, item := range items {
		proxies = append(proxies, podman.NewVolumeProxy(c, item.Name))
	}

	return proxies, nil
}

// Get implements podman.VolumesClient.Get.
func (c *VolumesClient) Get(ctx context.Context, name string) (*podman.VolumeProxy, error) {
	if err := getResource(ctx, c.httpClient, kindVolumes, name); err != nil {
		return nil, err
	}

	return podman.NewVolumeProxy(c, name), nil
}

// Create implements podman.VolumesClient.Create. The create endpoint echoes
// the full volume back, name included, so anonymous volumes resolve too.
func (c *VolumesClient) Create(ctx context.Context, spec *podman.VolumeSpec) (*podman.VolumeProxy, error) {
	resp, err := c.httpClient.Post(ctx, kindVolumes.collection("create"), nil, spec)
	if err != nil {
		return nil, fmt.Errorf("creating volume: %w", err)
	}

	created, err := decodeBody[podman.Volume](resp.Body, "volume create")
	if err != nil {
		return nil, err
	}

	return podman.NewVolumeProxy(c, created.Name), nil
}

// Remove implements podman.VolumesClient.Remove.
func (c *VolumesClient) Remove(ctx context.Context, name string, opts *podman.RemoveOptions) error {
	return removeResource(ctx, c.httpClient, kindVolumes, name, opts)
}

// Inspect implements podman.VolumesClient.Inspect.
func (c *VolumesClient) Inspect(ctx context.Context, name string) (*podman.Volume, error) {
	return inspectResource[podman.Volume](ctx, c.httpClient, kindVolumes, name)
}

// Exists implements podman.VolumesClient.Exists.
func (c *VolumesClient) Exists(ctx context.Context, name string) (bool, error) {
	return existsResource(ctx, c.httpClient, kindVolumes, name)
}

// Prune implements podman.VolumesClient.Prune.
func (c *VolumesClient) Prune(ctx context.Context, filters podman.Filters) ([]podman.PruneReport, error) {
	return pruneResource(ctx, c.httpClient, kindVolumes, filters)
}
