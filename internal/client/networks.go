package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/apyrgio/podman-go/internal/http"
	"github.com/apyrgio/podman-go/pkg/podman"
)

// NetworksClient implements podman.NetworksClient. Networks are addressed
// by name; the service resolves IDs as well.
type NetworksClient struct {
	httpClient *http.Client
}

// NewNetworksClient creates a new networks client.
func NewNetworksClient(httpClient *http.Client) *NetworksClient {
	return &NetworksClient{httpClient: httpClient}
}

// List implements podman.NetworksClient.List.
func (c *NetworksClient) List(ctx context.Context, opts *podman.ListOptions) ([]*podman.NetworkProxy, error) {
	items, err := listResource[podman.Network](ctx, c.httpClient, kindNetworks, opts)
	if err != nil {
		return nil, err
	}

	proxies := make([]*podman.NetworkProxy, 0, len(items))
	for _, item := range items {
		proxies = append(proxies, podman.NewNetworkProxy(c, item.Name))
	}

	return proxies, nil
}

// Get implements podman.NetworksClient.Get.
func (c *NetworksClient) Get(ctx context.Context, name string) (*podman.NetworkProxy, error) {
	if err := getResource(ctx, c.httpClient, kindNetworks, name); err != nil {
		return nil, err
	}

	return podman.NewNetworkProxy(c, name), nil
}

// Create implements podman.NetworksClient.Create.
func (c *NetworksClient) Create(ctx context.Context, spec *podman.NetworkSpec) (*podman.NetworkProxy, error) {
	resp, err := c.httpClient.Post(ctx, kindNetworks.collection("create"), nil, spec)
	if err != nil {
		return nil, fmt.Errorf("creating network: %w", err)
	}

	created, err := decodeBody[podman.Network](resp.Body, "network create")
	if err != nil {
		return nil, err
	}

	return podman.NewNetworkProxy(c, created.Name), nil
}

// Remove implements podman.NetworksClient.Remove.
func (c *NetworksClient) Remove(ctx context.Context, name string, opts *podman.RemoveOptions) error {
	return removeResource(ctx, c.httpClient, kindNetworks, name, opts)
}

// Inspect implements podman.NetworksClient.Inspect.
func (c *NetworksClient) Inspect(ctx context.Context, name string) (*podman.Network, error) {
	return inspectResource[podman.Network](ctx, c.httpClient, kindNetworks, name)
}

// Exists implements podman.NetworksClient.Exists.
func (c *NetworksClient) Exists(ctx context.Context, name string) (bool, error) {
	return existsResource(ctx, c.httpClient, kindNetworks, name)
}

// Connect implements podman.NetworksClient.Connect.
func (c *NetworksClient) Connect(ctx context.Context, name string, opts *podman.NetworkConnectOptions) error {
	if name == "" {
		return podman.ErrIdentityRequired
	}

	if opts == nil || opts.Container == "" {
		return fmt.Errorf("connecting to network %q: %w", name, podman.ErrIdentityRequired)
	}

	if _, err := c.httpClient.Post(ctx, kindNetworks.item(name, "connect"), nil, opts); err != nil {
		return fmt.Errorf("connecting %q to network %q: %w", opts.Container, name, err)
	}

	return nil
}

// Disconnect implements podman.NetworksClient.Disconnect.
func (c *NetworksClient) Disconnect(ctx context.Context, name, container string, force bool) error {
	if name == "" || container == "" {
		return podman.ErrIdentityRequired
	}

	body := struct {
		Container string `json:"Container"`
		Force     bool   `json:"Force"`
	}{Container: container, Force: force}

	if _, err := c.httpClient.Post(ctx, kindNetworks.item(name, "disconnect"), nil, body); err != nil {
		return fmt.Errorf("disconnecting %q from network %q: %w", container, name, err)
	}

	return nil
}

// Prune implements podman.NetworksClient.Prune.
func (c *NetworksClient) Prune(ctx context.Context, filters podman.Filters) ([]podman.PruneReport, error) {
	opts := &podman.ListOptions{Filters: filters}

	params, err := opts.ToParams()
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Post(ctx, kindNetworks.collection("prune"), params, nil)
	if err != nil {
		return nil, fmt.Errorf("pruning networks: %w", err)
	}

	// Network prune reports name+error rather than the id+size shape of the
	// other kinds.
	var raw []struct {
		Name  string `json:"Name"`
		Error string `json:"Error"`
	}
	if err := json.Unmarshal(resp.Body, &raw); err != nil {
		return nil, fmt.Errorf("parsing network prune response: %w", err)
	}

	reports := make([]podman.PruneReport, 0, len(raw))
	for _, r := range raw {
		reports = append(reports, podman.PruneReport{ID: r.Name, Err: r.Error})
	}

	return reports, nil
}
