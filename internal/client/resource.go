// Package client implements the podman.Client interface: per-kind resource
// managers over the API client core, plus system-level operations.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/apyrgio/podman-go/internal/http"
	"github.com/apyrgio/podman-go/pkg/podman"
)

// kind is the capability table entry for one resource kind: everything the
// generic plumbing needs to know about it. The per-kind clients stay thin
// wrappers over these helpers.
type kind struct {
	name podman.Kind
	// path is the endpoint segment, e.g. "containers".
	path string
}

var (
	kindContainers = kind{name: podman.KindContainer, path: "containers"}
	kindImages     = kind{name: podman.KindImage, path: "images"}
	kindPods       = kind{name: podman.KindPod, path: "pods"}
	kindNetworks   = kind{name: podman.KindNetwork, path: "networks"}
	kindVolumes    = kind{name: podman.KindVolume, path: "volumes"}
)

// collection returns the listing path of the kind.
func (k kind) collection(suffix string) string {
	if suffix == "" {
		return "/" + k.path
	}

	return "/" + k.path + "/" + suffix
}

// item returns the path of one resource, with an optional trailing segment.
func (k kind) item(nameOrID, suffix string) string {
	p := "/" + k.path + "/" + url.PathEscape(nameOrID)
	if suffix != "" {
		p += "/" + suffix
	}

	return p
}

// decodeBody unmarshals a JSON response body.
func decodeBody[T any](body []byte, what string) (*T, error) {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", what, err)
	}

	return &out, nil
}

// listResource fetches the kind's listing. Result order is whatever the
// service returned.
func listResource[T any](ctx context.Context, httpClient *http.Client, k kind, opts *podman.ListOptions) ([]T, error) {
	params, err := opts.ToParams()
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Get(ctx, k.collection("json"), params)
	if err != nil {
		return nil, fmt.Errorf("listing %ss: %w", k.name, err)
	}

	var items []T
	if err := json.Unmarshal(resp.Body, &items); err != nil {
		return nil, fmt.Errorf("parsing %s list response: %w", k.name, err)
	}

	return items, nil
}

// inspectResource fetches the full attribute payload of one resource.
func inspectResource[T any](ctx context.Context, httpClient *http.Client, k kind, nameOrID string) (*T, error) {
	if nameOrID == "" {
		return nil, podman.ErrIdentityRequired
	}

	resp, err := httpClient.Get(ctx, k.item(nameOrID, "json"), nil)
	if err != nil {
		return nil, fmt.Errorf("inspecting %s %q: %w", k.name, nameOrID, err)
	}

	return decodeBody[T](resp.Body, string(k.name))
}

// existsResource probes one resource. A 404 means a clean false, any other
// failure propagates.
func existsResource(ctx context.Context, httpClient *http.Client, k kind, nameOrID string) (bool, error) {
	if nameOrID == "" {
		return false, podman.ErrIdentityRequired
	}

	_, err := httpClient.Get(ctx, k.item(nameOrID, "exists"), nil)
	if err != nil {
		if podman.IsNotFound(err) {
			return false, nil
		}

		return false, fmt.Errorf("checking %s %q: %w", k.name, nameOrID, err)
	}

	return true, nil
}

// getResource asserts existence and hands back nothing but the verdict;
// managers build the proxy themselves. Absence surfaces as ErrNotFound so
// Get keeps the manager contract without paying for a full inspect.
func getResource(ctx context.Context, httpClient *http.Client, k kind, nameOrID string) error {
	exists, err := existsResource(ctx, httpClient, k, nameOrID)
	if err != nil {
		return err
	}

	if !exists {
		return fmt.Errorf("%s %q: %w", k.name, nameOrID, podman.ErrNotFound)
	}

	return nil
}

// removeResource deletes one resource.
func removeResource(ctx context.Context, httpClient *http.Client, k kind, nameOrID string, opts *podman.RemoveOptions) error {
	if nameOrID == "" {
		return podman.ErrIdentityRequired
	}

	if _, err := httpClient.Delete(ctx, k.item(nameOrID, ""), opts.ToParams()); err != nil {
		return fmt.Errorf("removing %s %q: %w", k.name, nameOrID, err)
	}

	return nil
}

// actionResource issues a mutating POST on one resource, e.g. start or
// pause. The response body, if any, is discarded.
func actionResource(ctx context.Context, httpClient *http.Client, k kind, nameOrID, action string, params url.Values) error {
	if nameOrID == "" {
		return podman.ErrIdentityRequired
	}

	if _, err := httpClient.Post(ctx, k.item(nameOrID, action), params, nil); err != nil {
		return fmt.Errorf("%s %s %q: %w", action, k.name, nameOrID, err)
	}

	return nil
}

// pruneResource removes unused resources of the kind.
func pruneResource(ctx context.Context, httpClient *http.Client, k kind, filters podman.Filters) ([]podman.PruneReport, error) {
	opts := &podman.ListOptions{Filters: filters}

	params, err := opts.ToParams()
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Post(ctx, k.collection("prune"), params, nil)
	if err != nil {
		return nil, fmt.Errorf("pruning %ss: %w", k.name, err)
	}

	var reports []podman.PruneReport
	if err := json.Unmarshal(resp.Body, &reports); err != nil {
		return nil, fmt.Errorf("parsing %s prune response: %w", k.name, err)
	}

	return reports, nil
}
