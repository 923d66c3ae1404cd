package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/apyrgio/podman-go/internal/http"
	"github.com/apyrgio/podman-go/pkg/podman"
)

// PodsClient implements podman.PodsClient.
type PodsClient struct {
	httpClient *http.Client
}

// NewPodsClient creates a new pods client.
func NewPodsClient(httpClient *http.Client) *PodsClient {
	return &PodsClient{httpClient: httpClient}
}

// List implements podman.PodsClient.List.
func (c *PodsClient) List(ctx context.Context, opts *podman.ListOptions) ([]*podman.PodProxy, error) {
	items, err := listResource[podman.ListPod](ctx, c.httpClient, kindPods, opts)
	if err != nil {
		return nil, err
	}

	proxies := make([]*podman.PodProxy, 0, len(items))
	for _, item := range items {
		proxies = append(proxies, podman.NewPodProxy(c, item.ID))
	}

	return proxies, nil
}

// Get implements podman.PodsClient.Get.
func (c *PodsClient) Get(ctx context.Context, nameOrID string) (*podman.PodProxy, error) {
	if err := getResource(ctx, c.httpClient, kindPods, nameOrID); err != nil {
		return nil, err
	}

	return podman.NewPodProxy(c, nameOrID), nil
}

// Create implements podman.PodsClient.Create.
func (c *PodsClient) Create(ctx context.Context, spec *podman.PodSpec) (*podman.PodProxy, error) {
	resp, err := c.httpClient.Post(ctx, kindPods.collection("create"), nil, spec)
	if err != nil {
		return nil, fmt.Errorf("creating pod: %w", err)
	}

	report, err := decodeBody[podman.PodCreateReport](resp.Body, "pod create")
	if err != nil {
		return nil, err
	}

	return podman.NewPodProxy(c, report.ID), nil
}

// Remove implements podman.PodsClient.Remove.
func (c *PodsClient) Remove(ctx context.Context, nameOrID string, opts *podman.RemoveOptions) error {
	return removeResource(ctx, c.httpClient, kindPods, nameOrID, opts)
}

// Inspect implements podman.PodsClient.Inspect.
func (c *PodsClient) Inspect(ctx context.Context, nameOrID string) (*podman.PodDetails, error) {
	return inspectResource[podman.PodDetails](ctx, c.httpClient, kindPods, nameOrID)
}

// Exists implements podman.PodsClient.Exists.
func (c *PodsClient) Exists(ctx context.Context, nameOrID string) (bool, error) {
	return existsResource(ctx, c.httpClient, kindPods, nameOrID)
}

// Start implements podman.PodsClient.Start.
func (c *PodsClient) Start(ctx context.Context, nameOrID string) error {
	return actionResource(ctx, c.httpClient, kindPods, nameOrID, "start", nil)
}

// Stop implements podman.PodsClient.Stop.
func (c *PodsClient) Stop(ctx context.Context, nameOrID string, opts *podman.StopOptions) error {
	return actionResource(ctx, c.httpClient, kindPods, nameOrID, "stop", opts.ToParams())
}

// Restart implements podman.PodsClient.Restart.
func (c *PodsClient) Restart(ctx context.Context, nameOrID string) error {
	return actionResource(ctx, c.httpClient, kindPods, nameOrID, "restart", nil)
}

// Pause implements podman.PodsClient.Pause.
func (c *PodsClient) Pause(ctx context.Context, nameOrID string) error {
	return actionResource(ctx, c.httpClient, kindPods, nameOrID, "pause", nil)
}

// Unpause implements podman.PodsClient.Unpause.
func (c *PodsClient) Unpause(ctx context.Context, nameOrID string) error {
	return actionResource(ctx, c.httpClient, kindPods, nameOrID, "unpause", nil)
}

// Kill implements podman.PodsClient.Kill.
func (c *PodsClient) Kill(ctx context.Context, nameOrID string, signal string) error {
	params := url.Values{}
	if signal != "" {
		params.Set("signal", signal)
	}

	return actionResource(ctx, c.httpClient, kindPods, nameOrID, "kill", params)
}

// Prune implements podman.PodsClient.Prune.
func (c *PodsClient) Prune(ctx context.Context) ([]podman.PruneReport, error) {
	return pruneResource(ctx, c.httpClient, kindPods, nil)
}
