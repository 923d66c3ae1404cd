package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/apyrgio/podman-go/internal/http"
	"github.com/apyrgio/podman-go/pkg/podman"
)

// ContainersClient implements podman.ContainersClient.
type ContainersClient struct {
	httpClient *http.Client
}

// NewContainersClient creates a new containers client.
func NewContainersClient(httpClient *http.Client) *ContainersClient {
	return &ContainersClient{httpClient: httpClient}
}

// List implements podman.ContainersClient.List.
func (c *ContainersClient) List(ctx context.Context, opts *podman.ListOptions) ([]*podman.ContainerProxy, error) {
	items, err := listResource[podman.ListContainer](ctx, c.httpClient, kindContainers, opts)
	if err != nil {
		return nil, err
	}

	proxies := make([]*podman.ContainerProxy, 0, len(items))
	for _, item := range items {
		proxies = append(proxies, podman.NewContainerProxy(c, item.ID))
	}

	return proxies, nil
}

// Get implements podman.ContainersClient.Get.
func (c *ContainersClient) Get(ctx context.Context, nameOrID string) (*podman.ContainerProxy, error) {
	if err := getResource(ctx, c.httpClient, kindContainers, nameOrID); err != nil {
		return nil, err
	}

	return podman.NewContainerProxy(c, nameOrID), nil
}

// Create implements podman.ContainersClient.Create.
func (c *ContainersClient) Create(ctx context.Context, spec *podman.ContainerSpec) (*podman.ContainerProxy, error) {
	resp, err := c.httpClient.Post(ctx, kindContainers.collection("create"), nil, spec)
	if err != nil {
		return nil, fmt.Errorf("creating container: %w", err)
	}

	report, err := decodeBody[podman.ContainerCreateReport](resp.Body, "container create")
	if err != nil {
		return nil, err
	}

	return podman.NewContainerProxy(c, report.ID), nil
}

// Remove implements podman.ContainersClient.Remove.
func (c *ContainersClient) Remove(ctx context.Context, nameOrID string, opts *podman.RemoveOptions) error {
	return removeResource(ctx, c.httpClient, kindContainers, nameOrID, opts)
}

// Inspect implements podman.ContainersClient.Inspect.
func (c *ContainersClient) Inspect(ctx context.Context, nameOrID string) (*podman.ContainerDetails, error) {
	return inspectResource[podman.ContainerDetails](ctx, c.httpClient, kindContainers, nameOrID)
}

// Exists implements podman.ContainersClient.Exists.
func (c *ContainersClient) Exists(ctx context.Context, nameOrID string) (bool, error) {
	return existsResource(ctx, c.httpClient, kindContainers, nameOrID)
}

// Start implements podman.ContainersClient.Start.
func (c *ContainersClient) Start(ctx context.Context, nameOrID string) error {
	return actionResource(ctx, c.httpClient, kindContainers, nameOrID, "start", nil)
}

// Stop implements podman.ContainersClient.Stop.
func (c *ContainersClient) Stop(ctx context.Context, nameOrID string, opts *podman.StopOptions) error {
	return actionResource(ctx, c.httpClient, kindContainers, nameOrID, "stop", opts.ToParams())
}

// Restart implements podman.ContainersClient.Restart.
func (c *ContainersClient) Restart(ctx context.Context, nameOrID string, opts *podman.StopOptions) error {
	return actionResource(ctx, c.httpClient, kindContainers, nameOrID, "restart", opts.ToParams())
}

// Pause implements podman.ContainersClient.Pause.
func (c *ContainersClient) Pause(ctx context.Context, nameOrID string) error {
	return actionResource(ctx, c.httpClient, kindContainers, nameOrID, "pause", nil)
}

// Unpause implements podman.ContainersClient.Unpause.
func (c *ContainersClient) Unpause(ctx context.Context, nameOrID string) error {
	return actionResource(ctx, c.httpClient, kindContainers, nameOrID, "unpause", nil)
}

// Kill implements podman.ContainersClient.Kill.
func (c *ContainersClient) Kill(ctx context.Context, nameOrID string, signal string) error {
	params := url.Values{}
	if signal != "" {
		params.Set("signal", signal)
	}

	return actionResource(ctx, c.httpClient, kindContainers, nameOrID, "kill", params)
}

// Rename implements podman.ContainersClient.Rename.
func (c *ContainersClient) Rename(ctx context.Context, nameOrID string, newName string) error {
	if newName == "" {
		return podman.ErrIdentityRequired
	}

	params := url.Values{}
	params.Set("name", newName)

	return actionResource(ctx, c.httpClient, kindContainers, nameOrID, "rename", params)
}

// Wait implements podman.ContainersClient.Wait.
func (c *ContainersClient) Wait(ctx context.Context, nameOrID string, opts *podman.WaitOptions) (int32, error) {
	if nameOrID == "" {
		return -1, podman.ErrIdentityRequired
	}

	resp, err := c.httpClient.Post(ctx, kindContainers.item(nameOrID, "wait"), opts.ToParams(), nil)
	if err != nil {
		return -1, fmt.Errorf("waiting for container %q: %w", nameOrID, err)
	}

	report, err := decodeBody[podman.WaitReport](resp.Body, "container wait")
	if err != nil {
		return -1, err
	}

	return report.StatusCode, nil
}

// Logs implements podman.ContainersClient.Logs. The response is the libpod
// multiplexed frame stream; a missing container surfaces as ErrNotFound at
// stream-open time, never as an empty stream.
func (c *ContainersClient) Logs(ctx context.Context, nameOrID string, opts *podman.LogOptions, stdout, stderr chan<- string) error {
	if nameOrID == "" {
		return podman.ErrIdentityRequired
	}

	resp, err := c.httpClient.GetStream(ctx, kindContainers.item(nameOrID, "logs"), opts.ToParams())
	if err != nil {
		return fmt.Errorf("opening logs of container %q: %w", nameOrID, err)
	}
	defer resp.Stream.Close()

	return podman.DemuxLogs(resp.Stream, stdout, stderr)
}

// Prune implements podman.ContainersClient.Prune.
func (c *ContainersClient) Prune(ctx context.Context, filters podman.Filters) ([]podman.PruneReport, error) {
	return pruneResource(ctx, c.httpClient, kindContainers, filters)
}
