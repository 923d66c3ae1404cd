package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/apyrgio/podman-go/internal/http"
	"github.com/apyrgio/podman-go/pkg/podman"
)

// ImagesClient implements podman.ImagesClient.
type ImagesClient struct {
	httpClient *http.Client
}

// NewImagesClient creates a new images client.
func NewImagesClient(httpClient *http.Client) *ImagesClient {
	return &ImagesClient{httpClient: httpClient}
}

// List implements podman.ImagesClient.List.
func (c *ImagesClient) List(ctx context.Context, opts *podman.ListOptions) ([]*podman.ImageProxy, error) {
	items, err := listResource[podman.ImageSummary](ctx, c.httpClient, kindImages, opts)
	if err != nil {
		return nil, err
	}

	proxies := make([]*podman.ImageProxy, 0, len(items))
	for _, item := range items {
		proxies = append(proxies, podman.NewImageProxy(c, item.ID))
	}

	return proxies, nil
}

// Get implements podman.ImagesClient.Get.
func (c *ImagesClient) Get(ctx context.Context, nameOrID string) (*podman.ImageProxy, error) {
	if err := getResource(ctx, c.httpClient, kindImages, nameOrID); err != nil {
		return nil, err
	}

	return podman.NewImageProxy(c, nameOrID), nil
}

// Remove implements podman.ImagesClient.Remove.
func (c *ImagesClient) Remove(ctx context.Context, nameOrID string, opts *podman.RemoveOptions) error {
	return removeResource(ctx, c.httpClient, kindImages, nameOrID, opts)
}

// Inspect implements podman.ImagesClient.Inspect.
func (c *ImagesClient) Inspect(ctx context.Context, nameOrID string) (*podman.ImageDetails, error) {
	return inspectResource[podman.ImageDetails](ctx, c.httpClient, kindImages, nameOrID)
}

// Exists implements podman.ImagesClient.Exists.
func (c *ImagesClient) Exists(ctx context.Context, nameOrID string) (bool, error) {
	return existsResource(ctx, c.httpClient, kindImages, nameOrID)
}

// Pull implements podman.ImagesClient.Pull. Progress arrives as NDJSON
// frames; the returned stream must be drained and closed by the caller.
func (c *ImagesClient) Pull(ctx context.Context, reference string, opts *podman.PullOptions) (*podman.Stream[podman.PullReport], error) {
	if reference == "" {
		return nil, podman.ErrIdentityRequired
	}

	params := opts.ToParams()
	params.Set("reference", reference)

	resp, err := c.httpClient.PostStream(ctx, kindImages.collection("pull"), params, nil)
	if err != nil {
		return nil, fmt.Errorf("pulling image %q: %w", reference, err)
	}

	return podman.NewStream[podman.PullReport](resp.Stream), nil
}

// Tag implements podman.ImagesClient.Tag.
func (c *ImagesClient) Tag(ctx context.Context, nameOrID, repo, tag string) error {
	return c.retag(ctx, nameOrID, "tag", repo, tag)
}

// Untag implements podman.ImagesClient.Untag.
func (c *ImagesClient) Untag(ctx context.Context, nameOrID, repo, tag string) error {
	return c.retag(ctx, nameOrID, "untag", repo, tag)
}

func (c *ImagesClient) retag(ctx context.Context, nameOrID, action, repo, tag string) error {
	params := url.Values{}
	if repo != "" {
		params.Set("repo", repo)
	}

	if tag != "" {
		params.Set("tag", tag)
	}

	return actionResource(ctx, c.httpClient, kindImages, nameOrID, action, params)
}

// Prune implements podman.ImagesClient.Prune.
func (c *ImagesClient) Prune(ctx context.Context, filters podman.Filters) ([]podman.PruneReport, error) {
	return pruneResource(ctx, c.httpClient, kindImages, filters)
}
