package podman

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// CacheState is the lifecycle state of a proxy's attribute cache.
type CacheState uint8

// Cache states.
const (
	// CacheEmpty: nothing fetched yet.
	CacheEmpty CacheState = iota
	// CachePopulating: a fetch is in flight.
	CachePopulating
	// CachePopulated: the cache holds a server snapshot.
	CachePopulated
	// CacheStale: the cache holds a snapshot invalidated by a mutating
	// action; the next Attrs call refetches.
	CacheStale
)

// Proxy is a local handle for one remote resource. Its identity is fixed at
// construction; only the attribute cache mutates, and only as a wholesale
// replacement, so a snapshot never mixes state from different fetches.
//
// Concurrent Attrs calls on an unpopulated proxy share a single in-flight
// fetch. A Proxy is safe for concurrent use; the returned attribute snapshot
// must be treated as read-only.
type Proxy[T any] struct {
	identity Identity
	fetch    func(context.Context) (*T, error)
	check    func(context.Context) (bool, error)

	group singleflight.Group

	mu    sync.Mutex
	state CacheState
	attrs *T
}

// NewProxy builds a proxy over fetch (full attribute load) and check
// (lightweight existence probe).
func NewProxy[T any](identity Identity, fetch func(context.Context) (*T, error), check func(context.Context) (bool, error)) *Proxy[T] {
	return &Proxy[T]{
		identity: identity,
		fetch:    fetch,
		check:    check,
	}
}

// Identity returns the immutable identity of the remote resource.
func (p *Proxy[T]) Identity() Identity {
	return p.identity
}

// ID returns the resource name or ID.
func (p *Proxy[T]) ID() string {
	return p.identity.ID
}

// State returns the current cache state.
func (p *Proxy[T]) State() CacheState {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

// Attrs returns the cached attributes, fetching them on first access or after
// invalidation. Repeated calls without an intervening Reload or mutating
// action return the same snapshot.
func (p *Proxy[T]) Attrs(ctx context.Context) (*T, error) {
	p.mu.Lock()
	if p.state == CachePopulated {
		attrs := p.attrs
		p.mu.Unlock()

		return attrs, nil
	}
	p.mu.Unlock()

	// singleflight collapses concurrent populates into one fetch; late
	// arrivals wait for the in-flight result instead of refetching.
	v, err, _ := p.group.Do("populate", func() (interface{}, error) {
		p.mu.Lock()
		if p.state == CachePopulated {
			attrs := p.attrs
			p.mu.Unlock()

			return attrs, nil
		}

		prev := p.state
		p.state = CachePopulating
		p.mu.Unlock()

		attrs, err := p.fetch(ctx)

		p.mu.Lock()
		defer p.mu.Unlock()

		if err != nil {
			// A failed fetch leaves the cache untouched.
			p.state = prev

			return nil, err
		}

		p.attrs = attrs
		p.state = CachePopulated

		return attrs, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*T), nil
}

// Reload forces a full re-fetch, replacing the cached snapshot atomically.
// On failure the previous snapshot is kept.
func (p *Proxy[T]) Reload(ctx context.Context) error {
	attrs, err := p.fetch(ctx)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.attrs = attrs
	p.state = CachePopulated
	p.mu.Unlock()

	return nil
}

// Exists probes the resource without populating the cache.
func (p *Proxy[T]) Exists(ctx context.Context) (bool, error) {
	return p.check(ctx)
}

// Invalidate marks the cached snapshot stale so the next Attrs call
// refetches. Called by action methods after a successful mutation; cheaper
// than an eager refetch the caller may never need.
func (p *Proxy[T]) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == CachePopulated {
		p.state = CacheStale
	}
}

// ContainerProxy is a lazy handle for one container.
type ContainerProxy struct {
	*Proxy[ContainerDetails]

	client ContainersClient
}

// NewContainerProxy builds a container proxy backed by client.
func NewContainerProxy(client ContainersClient, nameOrID string) *ContainerProxy {
	identity := Identity{Kind: KindContainer, ID: nameOrID}

	return &ContainerProxy{
		Proxy: NewProxy(identity,
			func(ctx context.Context) (*ContainerDetails, error) {
				return client.Inspect(ctx, nameOrID)
			},
			func(ctx context.Context) (bool, error) {
				return client.Exists(ctx, nameOrID)
			}),
		client: client,
	}
}

// Start starts the container and invalidates the cached attributes.
func (p *ContainerProxy) Start(ctx context.Context) error {
	if err := p.client.Start(ctx, p.ID()); err != nil {
		return err
	}

	p.Invalidate()

	return nil
}

// Stop stops the container and invalidates the cached attributes.
func (p *ContainerProxy) Stop(ctx context.Context, opts *StopOptions) error {
	if err := p.client.Stop(ctx, p.ID(), opts); err != nil {
		return err
	}

	p.Invalidate()

	return nil
}

// Restart restarts the container and invalidates the cached attributes.
func (p *ContainerProxy) Restart(ctx context.Context, opts *StopOptions) error {
	if err := p.client.Restart(ctx, p.ID(), opts); err != nil {
		return err
	}

	p.Invalidate()

	return nil
}

// Pause pauses the container and invalidates the cached attributes.
func (p *ContainerProxy) Pause(ctx context.Context) error {
	if err := p.client.Pause(ctx, p.ID()); err != nil {
		return err
	}

	p.Invalidate()

	return nil
}

// Unpause resumes the container and invalidates the cached attributes.
func (p *ContainerProxy) Unpause(ctx context.Context) error {
	if err := p.client.Unpause(ctx, p.ID()); err != nil {
		return err
	}

	p.Invalidate()

	return nil
}

// Kill signals the container and invalidates the cached attributes.
func (p *ContainerProxy) Kill(ctx context.Context, signal string) error {
	if err := p.client.Kill(ctx, p.ID(), signal); err != nil {
		return err
	}

	p.Invalidate()

	return nil
}

// Wait blocks until the container reaches one of the requested states.
func (p *ContainerProxy) Wait(ctx context.Context, opts *WaitOptions) (int32, error) {
	return p.client.Wait(ctx, p.ID(), opts)
}

// Logs streams the container's logs onto the given channels.
func (p *ContainerProxy) Logs(ctx context.Context, opts *LogOptions, stdout, stderr chan<- string) error {
	return p.client.Logs(ctx, p.ID(), opts, stdout, stderr)
}

// Remove deletes the container and invalidates the cached attributes.
func (p *ContainerProxy) Remove(ctx context.Context, opts *RemoveOptions) error {
	if err := p.client.Remove(ctx, p.ID(), opts); err != nil {
		return err
	}

	p.Invalidate()

	return nil
}

// ImageProxy is a lazy handle for one image.
type ImageProxy struct {
	*Proxy[ImageDetails]

	client ImagesClient
}

// NewImageProxy builds an image proxy backed by client.
func NewImageProxy(client ImagesClient, nameOrID string) *ImageProxy {
	identity := Identity{Kind: KindImage, ID: nameOrID}

	return &ImageProxy{
		Proxy: NewProxy(identity,
			func(ctx context.Context) (*ImageDetails, error) {
				return client.Inspect(ctx, nameOrID)
			},
			func(ctx context.Context) (bool, error) {
				return client.Exists(ctx, nameOrID)
			}),
		client: client,
	}
}

// Tag adds repo:tag to the image and invalidates the cached attributes.
func (p *ImageProxy) Tag(ctx context.Context, repo, tag string) error {
	if err := p.client.Tag(ctx, p.ID(), repo, tag); err != nil {
		return err
	}

	p.Invalidate()

	return nil
}

// Untag removes repo:tag from the image and invalidates the cached
// attributes.
func (p *ImageProxy) Untag(ctx context.Context, repo, tag string) error {
	if err := p.client.Untag(ctx, p.ID(), repo, tag); err != nil {
		return err
	}

	p.Invalidate()

	return nil
}

// Remove deletes the image and invalidates the cached attributes.
func (p *ImageProxy) Remove(ctx context.Context, opts *RemoveOptions) error {
	if err := p.client.Remove(ctx, p.ID(), opts); err != nil {
		return err
	}

	p.Invalidate()

	return nil
}

// PodProxy is a lazy handle for one pod.
type PodProxy struct {
	*Proxy[PodDetails]

	client PodsClient
}

// NewPodProxy builds a pod proxy backed by client.
func NewPodProxy(client PodsClient, nameOrID string) *PodProxy {
	identity := Identity{Kind: KindPod, ID: nameOrID}

	return &PodProxy{
		Proxy: NewProxy(identity,
			func(ctx context.Context) (*PodDetails, error) {
				return client.Inspect(ctx, nameOrID)
			},
			func(ctx context.Context) (bool, error) {
				return client.Exists(ctx, nameOrID)
			}),
		client: client,
	}
}

// Start starts the pod and invalidates the cached attributes.
func (p *PodProxy) Start(ctx context.Context) error {
	if err := p.client.Start(ctx, p.ID()); err != nil {
		return err
	}

	p.Invalidate()

	return nil
}

// Stop stops the pod and invalidates the cached attributes.
func (p *PodProxy) Stop(ctx context.Context, opts *StopOptions) error {
	if err := p.client.Stop(ctx, p.ID(), opts); err != nil {
		return err
	}

	p.Invalidate()

	return nil
}

// Restart restarts the pod and invalidates the cached attributes.
func (p *PodProxy) Restart(ctx context.Context) error {
	if err := p.client.Restart(ctx, p.ID()); err != nil {
		return err
	}

	p.Invalidate()

	return nil
}

// Pause pauses the pod and invalidates the cached attributes.
func (p *PodProxy) Pause(ctx context.Context) error {
	if err := p.client.Pause(ctx, p.ID()); err != nil {
		return err
	}

	p.Invalidate()

	return nil
}

// Unpause resumes the pod and invalidates the cached attributes.
func (p *PodProxy) Unpause(ctx context.Context) error {
	if err := p.client.Unpause(ctx, p.ID()); err != nil {
		return err
	}

	p.Invalidate()

	return nil
}

// Kill signals the pod's containers and invalidates the cached attributes.
func (p *PodProxy) Kill(ctx context.Context, signal string) error {
	if err := p.client.Kill(ctx, p.ID(), signal); err != nil {
		return err
	}

	p.Invalidate()

	return nil
}

// Remove deletes the pod and invalidates the cached attributes.
func (p *PodProxy) Remove(ctx context.Context, opts *RemoveOptions) error {
	if err := p.client.Remove(ctx, p.ID(), opts); err != nil {
		return err
	}

	p.Invalidate()

	return nil
}

// NetworkProxy is a lazy handle for one network.
type NetworkProxy struct {
	*Proxy[Network]

	client NetworksClient
}

// NewNetworkProxy builds a network proxy backed by client.
func NewNetworkProxy(client NetworksClient, name string) *NetworkProxy {
	identity := Identity{Kind: KindNetwork, ID: name}

	return &NetworkProxy{
		Proxy: NewProxy(identity,
			func(ctx context.Context) (*Network, error) {
				return client.Inspect(ctx, name)
			},
			func(ctx context.Context) (bool, error) {
				return client.Exists(ctx, name)
			}),
		client: client,
	}
}

// Connect attaches a container to the network and invalidates the cached
// attributes.
func (p *NetworkProxy) Connect(ctx context.Context, opts *NetworkConnectOptions) error {
	if err := p.client.Connect(ctx, p.ID(), opts); err != nil {
		return err
	}

	p.Invalidate()

	return nil
}

// Disconnect detaches a container from the network and invalidates the
// cached attributes.
func (p *NetworkProxy) Disconnect(ctx context.Context, container string, force bool) error {
	if err := p.client.Disconnect(ctx, p.ID(), container, force); err != nil {
		return err
	}

	p.Invalidate()

	return nil
}

// Remove deletes the network and invalidates the cached attributes.
func (p *NetworkProxy) Remove(ctx context.Context, opts *RemoveOptions) error {
	if err := p.client.Remove(ctx, p.ID(), opts); err != nil {
		return err
	}

	p.Invalidate()

	return nil
}

// VolumeProxy is a lazy handle for one volume.
type VolumeProxy struct {
	*Proxy[Volume]

	client VolumesClient
}

// NewVolumeProxy builds a volume proxy backed by client.
func NewVolumeProxy(client VolumesClient, name string) *VolumeProxy {
	identity := Identity{Kind: KindVolume, ID: name}

	return &VolumeProxy{
		Proxy: NewProxy(identity,
			func(ctx context.Context) (*Volume, error) {
				return client.Inspect(ctx, name)
			},
			func(ctx context.Context) (bool, error) {
				return client.Exists(ctx, name)
			}),
		client: client,
	}
}

// Remove deletes the volume and invalidates the cached attributes.
func (p *VolumeProxy) Remove(ctx context.Context, opts *RemoveOptions) error {
	if err := p.client.Remove(ctx, p.ID(), opts); err != nil {
		return err
	}

	p.Invalidate()

	return nil
}
