package podman

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFetchFailed = errors.New("fetch failed")

type countingFetcher struct {
	count   atomic.Int64
	fail    atomic.Bool
	release chan struct{}

	mu    sync.Mutex
	attrs ContainerDetails
}

func newCountingFetcher(attrs ContainerDetails) *countingFetcher {
	return &countingFetcher{attrs: attrs}
}

func (f *countingFetcher) set(attrs ContainerDetails) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attrs = attrs
}

func (f *countingFetcher) fetch(_ context.Context) (*ContainerDetails, error) {
	f.count.Add(1)

	if f.release != nil {
		<-f.release
	}

	if f.fail.Load() {
		return nil, errFetchFailed
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	attrs := f.attrs

	return &attrs, nil
}

func (f *countingFetcher) check(_ context.Context) (bool, error) {
	return true, nil
}

func newTestProxy(f *countingFetcher) *Proxy[ContainerDetails] {
	identity := Identity{Kind: KindContainer, ID: "web"}

	return NewProxy(identity, f.fetch, f.check)
}

func TestProxy_AttrsLazy(t *testing.T) {
	fetcher := newCountingFetcher(ContainerDetails{ID: "web", Name: "web"})
	proxy := newTestProxy(fetcher)

	assert.Equal(t, CacheEmpty, proxy.State())
	assert.Zero(t, fetcher.count.Load())

	attrs, err := proxy.Attrs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "web", attrs.Name)
	assert.Equal(t, CachePopulated, proxy.State())
	assert.Equal(t, int64(1), fetcher.count.Load())
}

func TestProxy_AttrsIdempotent(t *testing.T) {
	fetcher := newCountingFetcher(ContainerDetails{ID: "web"})
	proxy := newTestProxy(fetcher)

	first, err := proxy.Attrs(context.Background())
	require.NoError(t, err)

	second, err := proxy.Attrs(context.Background())
	require.NoError(t, err)

	// Same snapshot, no second fetch.
	assert.Same(t, first, second)
	assert.Equal(t, int64(1), fetcher.count.Load())
}

func TestProxy_ConcurrentAttrsSingleFetch(t *testing.T) {
	fetcher := newCountingFetcher(ContainerDetails{ID: "web"})
	fetcher.release = make(chan struct{})
	proxy := newTestProxy(fetcher)

	const workers = 16

	var wg sync.WaitGroup
	results := make([]*ContainerDetails, workers)

	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			attrs, err := proxy.Attrs(context.Background())
			assert.NoError(t, err)
			results[i] = attrs
		}()
	}

	close(fetcher.release)
	wg.Wait()

	assert.Equal(t, int64(1), fetcher.count.Load())
	for _, attrs := range results {
		assert.Same(t, results[0], attrs)
	}
}

func TestProxy_FailedFetchLeavesCacheEmpty(t *testing.T) {
	fetcher := newCountingFetcher(ContainerDetails{ID: "web"})
	fetcher.fail.Store(true)
	proxy := newTestProxy(fetcher)

	_, err := proxy.Attrs(context.Background())
	require.ErrorIs(t, err, errFetchFailed)
	assert.Equal(t, CacheEmpty, proxy.State())

	// Recovery: the next call fetches again.
	fetcher.fail.Store(false)
	attrs, err := proxy.Attrs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "web", attrs.ID)
	assert.Equal(t, CachePopulated, proxy.State())
}

func TestProxy_Reload(t *testing.T) {
	fetcher := newCountingFetcher(ContainerDetails{ID: "web", Name: "before"})
	proxy := newTestProxy(fetcher)

	first, err := proxy.Attrs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "before", first.Name)

	fetcher.set(ContainerDetails{ID: "web", Name: "after"})
	require.NoError(t, proxy.Reload(context.Background()))

	second, err := proxy.Attrs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "after", second.Name)
	assert.NotSame(t, first, second)

	// The first snapshot is untouched; replacement is wholesale.
	assert.Equal(t, "before", first.Name)
}

func TestProxy_ReloadFailureKeepsSnapshot(t *testing.T) {
	fetcher := newCountingFetcher(ContainerDetails{ID: "web", Name: "kept"})
	proxy := newTestProxy(fetcher)

	_, err := proxy.Attrs(context.Background())
	require.NoError(t, err)

	fetcher.fail.Store(true)
	require.ErrorIs(t, proxy.Reload(context.Background()), errFetchFailed)

	assert.Equal(t, CachePopulated, proxy.State())
	attrs, err := proxy.Attrs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "kept", attrs.Name)
}

func TestProxy_Invalidate(t *testing.T) {
	fetcher := newCountingFetcher(ContainerDetails{ID: "web"})
	proxy := newTestProxy(fetcher)

	t.Run("empty cache is unaffected", func(t *testing.T) {
		proxy.Invalidate()
		assert.Equal(t, CacheEmpty, proxy.State())
	})

	t.Run("populated cache goes stale and refetches", func(t *testing.T) {
		_, err := proxy.Attrs(context.Background())
		require.NoError(t, err)

		proxy.Invalidate()
		assert.Equal(t, CacheStale, proxy.State())

		_, err = proxy.Attrs(context.Background())
		require.NoError(t, err)
		assert.Equal(t, CachePopulated, proxy.State())
		assert.Equal(t, int64(2), fetcher.count.Load())
	})
}

func TestProxy_Identity(t *testing.T) {
	proxy := newTestProxy(newCountingFetcher(ContainerDetails{}))

	assert.Equal(t, "web", proxy.ID())
	assert.Equal(t, KindContainer, proxy.Identity().Kind)
	assert.Equal(t, "container/web", proxy.Identity().String())
}

// fakeContainers records lifecycle calls; everything else is canned.
type fakeContainers struct {
	ContainersClient

	inspects atomic.Int64
	started  atomic.Int64
	failNext atomic.Bool
}

func (f *fakeContainers) Inspect(_ context.Context, nameOrID string) (*ContainerDetails, error) {
	f.inspects.Add(1)

	return &ContainerDetails{ID: nameOrID}, nil
}

func (f *fakeContainers) Exists(_ context.Context, _ string) (bool, error) {
	return true, nil
}

func (f *fakeContainers) Start(_ context.Context, _ string) error {
	if f.failNext.Load() {
		return errFetchFailed
	}

	f.started.Add(1)

	return nil
}

func TestContainerProxy_ActionsInvalidate(t *testing.T) {
	client := &fakeContainers{}
	proxy := NewContainerProxy(client, "web")

	_, err := proxy.Attrs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CachePopulated, proxy.State())

	require.NoError(t, proxy.Start(context.Background()))
	assert.Equal(t, CacheStale, proxy.State())

	_, err = proxy.Attrs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), client.inspects.Load())
}

func TestContainerProxy_FailedActionKeepsCache(t *testing.T) {
	client := &fakeContainers{}
	proxy := NewContainerProxy(client, "web")

	_, err := proxy.Attrs(context.Background())
	require.NoError(t, err)

	client.failNext.Store(true)
	require.Error(t, proxy.Start(context.Background()))

	assert.Equal(t, CachePopulated, proxy.State())
	assert.Equal(t, int64(1), client.inspects.Load())
}
