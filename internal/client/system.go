package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/blang/semver/v4"

	"github.com/apyrgio/podman-go/internal/constants"
	"github.com/apyrgio/podman-go/internal/http"
	"github.com/apyrgio/podman-go/pkg/podman"
)

// SystemClient implements podman.SystemClient.
type SystemClient struct {
	httpClient *http.Client
}

// NewSystemClient creates a new system client.
func NewSystemClient(httpClient *http.Client) *SystemClient {
	return &SystemClient{httpClient: httpClient}
}

// Ping implements podman.SystemClient.Ping.
func (c *SystemClient) Ping(ctx context.Context) error {
	if _, err := c.httpClient.Get(ctx, "/_ping", nil); err != nil {
		return fmt.Errorf("pinging service: %w", err)
	}

	return nil
}

// Version implements podman.SystemClient.Version.
func (c *SystemClient) Version(ctx context.Context) (*podman.Version, error) {
	resp, err := c.httpClient.Get(ctx, "/version", nil)
	if err != nil {
		return nil, fmt.Errorf("getting version: %w", err)
	}

	return decodeBody[podman.Version](resp.Body, "version")
}

// CheckVersion implements podman.SystemClient.CheckVersion.
func (c *SystemClient) CheckVersion(ctx context.Context) error {
	version, err := c.Version(ctx)
	if err != nil {
		return err
	}

	server, err := semver.ParseTolerant(version.APIVersion)
	if err != nil {
		return fmt.Errorf("parsing server API version %q: %w", version.APIVersion, err)
	}

	minimum := semver.MustParse(constants.MinSupportedAPIVersion)
	if server.LT(minimum) {
		return fmt.Errorf("server API version %s is older than minimum supported %s",
			version.APIVersion, constants.MinSupportedAPIVersion)
	}

	return nil
}

// Info implements podman.SystemClient.Info.
func (c *SystemClient) Info(ctx context.Context) (*podman.Info, error) {
	resp, err := c.httpClient.Get(ctx, "/info", nil)
	if err != nil {
		return nil, fmt.Errorf("getting info: %w", err)
	}

	return decodeBody[podman.Info](resp.Body, "info")
}

// Events implements podman.SystemClient.Events.
func (c *SystemClient) Events(ctx context.Context, opts *podman.EventsOptions) (*podman.Stream[podman.Event], error) {
	params, err := opts.ToParams()
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.GetStream(ctx, "/events", params)
	if err != nil {
		return nil, fmt.Errorf("streaming events: %w", err)
	}

	return podman.NewStream[podman.Event](resp.Stream), nil
}

// DiskUsage implements podman.SystemClient.DiskUsage.
func (c *SystemClient) DiskUsage(ctx context.Context) (*podman.DiskUsage, error) {
	resp, err := c.httpClient.Get(ctx, "/system/df", nil)
	if err != nil {
		return nil, fmt.Errorf("getting disk usage: %w", err)
	}

	var usage podman.DiskUsage
	if err := json.Unmarshal(resp.Body, &usage); err != nil {
		return nil, fmt.Errorf("parsing disk usage response: %w", err)
	}

	return &usage, nil
}
