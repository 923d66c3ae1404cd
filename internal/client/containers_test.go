package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apyrgio/podman-go/pkg/podman"
)

func TestContainersClient_List(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, libpodPath("/containers/json"), r.URL.Path)
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "true", r.URL.Query().Get("all"))

		containers := []podman.ListContainer{
			{ID: "aaa111", Names: []string{"web"}, State: "running"},
			{ID: "bbb222", Names: []string{"db"}, State: "exited"},
		}
		json.NewEncoder(w).Encode(containers)
	}))

	proxies, err := client.Containers().List(context.Background(), &podman.ListOptions{All: true})
	require.NoError(t, err)
	require.Len(t, proxies, 2)
	assert.Equal(t, "aaa111", proxies[0].ID())
	assert.Equal(t, "bbb222", proxies[1].ID())
	assert.Equal(t, podman.CacheEmpty, proxies[0].State())
}

func TestContainersClient_ListFilters(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var filters map[string][]string
		require.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("filters")), &filters))
		assert.Equal(t, []string{"running"}, filters["status"])

		json.NewEncoder(w).Encode([]podman.ListContainer{})
	}))

	// Filter keys are lowercased on the wire.
	opts := &podman.ListOptions{Filters: podman.Filters{"Status": {"running"}}}
	proxies, err := client.Containers().List(context.Background(), opts)
	require.NoError(t, err)
	assert.Empty(t, proxies)
}

func TestContainersClient_Get(t *testing.T) {
	t.Run("exists", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, libpodPath("/containers/web/exists"), r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}))

		proxy, err := client.Containers().Get(context.Background(), "web")
		require.NoError(t, err)
		assert.Equal(t, "web", proxy.ID())
		assert.Equal(t, podman.CacheEmpty, proxy.State())
	})

	t.Run("missing", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"cause":    "no such container",
				"message":  "no container with name or ID \"ghost\" found",
				"response": 404,
			})
		}))

		_, err := client.Containers().Get(context.Background(), "ghost")
		require.Error(t, err)
		assert.ErrorIs(t, err, podman.ErrNotFound)
	})

	t.Run("empty id", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		}))

		_, err := client.Containers().Get(context.Background(), "")
		assert.ErrorIs(t, err, podman.ErrIdentityRequired)
	})
}

func TestContainersClient_Create(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, libpodPath("/containers/create"), r.URL.Path)
		assert.Equal(t, "POST", r.Method)

		var spec podman.ContainerSpec
		require.NoError(t, json.NewDecoder(r.Body).Decode(&spec))
		assert.Equal(t, "test1", spec.Name)
		assert.Equal(t, "alpine:latest", spec.Image)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(podman.ContainerCreateReport{ID: "deadbeef"})
	}))

	proxy, err := client.Containers().Create(context.Background(), &podman.ContainerSpec{
		Name:  "test1",
		Image: "alpine:latest",
	})
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", proxy.ID())
}

func TestContainersClient_Remove(t *testing.T) {
	t.Run("force with volumes", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, libpodPath("/containers/web"), r.URL.Path)
			assert.Equal(t, "DELETE", r.Method)
			assert.Equal(t, "true", r.URL.Query().Get("force"))
			assert.Equal(t, "true", r.URL.Query().Get("v"))
			w.WriteHeader(http.StatusNoContent)
		}))

		err := client.Containers().Remove(context.Background(), "web", &podman.RemoveOptions{
			Force:   true,
			Volumes: true,
		})
		require.NoError(t, err)
	})

	t.Run("running without force", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"cause":    "container state improper",
				"message":  "cannot remove container as it is running",
				"response": 409,
			})
		}))

		err := client.Containers().Remove(context.Background(), "web", nil)
		assert.ErrorIs(t, err, podman.ErrConflict)
	})
}

func TestContainersClient_Lifecycle(t *testing.T) {
	tests := []struct {
		name   string
		action string
		call   func(c *Client) error
	}{
		{"start", "start", func(c *Client) error {
			return c.Containers().Start(context.Background(), "web")
		}},
		{"stop", "stop", func(c *Client) error {
			return c.Containers().Stop(context.Background(), "web", nil)
		}},
		{"restart", "restart", func(c *Client) error {
			return c.Containers().Restart(context.Background(), "web", nil)
		}},
		{"pause", "pause", func(c *Client) error {
			return c.Containers().Pause(context.Background(), "web")
		}},
		{"unpause", "unpause", func(c *Client) error {
			return c.Containers().Unpause(context.Background(), "web")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, libpodPath("/containers/web/"+tt.action), r.URL.Path)
				assert.Equal(t, "POST", r.Method)
				w.WriteHeader(http.StatusNoContent)
			}))

			require.NoError(t, tt.call(client))
		})
	}
}

func TestContainersClient_Kill(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, libpodPath("/containers/web/kill"), r.URL.Path)
		assert.Equal(t, "SIGTERM", r.URL.Query().Get("signal"))
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, client.Containers().Kill(context.Background(), "web", "SIGTERM"))
}

func TestContainersClient_Rename(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, libpodPath("/containers/web/rename"), r.URL.Path)
		assert.Equal(t, "frontend", r.URL.Query().Get("name"))
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, client.Containers().Rename(context.Background(), "web", "frontend"))
}

func TestContainersClient_Wait(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, libpodPath("/containers/web/wait"), r.URL.Path)
		assert.Equal(t, "exited", r.URL.Query().Get("condition"))

		json.NewEncoder(w).Encode(podman.WaitReport{StatusCode: 137})
	}))

	code, err := client.Containers().Wait(context.Background(), "web", &podman.WaitOptions{
		Conditions: []string{"exited"},
	})
	require.NoError(t, err)
	assert.Equal(t, int32(137), code)
}

func TestContainersClient_Logs(t *testing.T) {
	t.Run("demux", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, libpodPath("/containers/web/logs"), r.URL.Path)
			assert.Equal(t, "true", r.URL.Query().Get("stdout"))
			assert.Equal(t, "true", r.URL.Query().Get("stderr"))

			require.NoError(t, podman.WriteLogFrame(w, false, "hello\n"))
			require.NoError(t, podman.WriteLogFrame(w, true, "oops\n"))
			require.NoError(t, podman.WriteLogFrame(w, false, "world\n"))
		}))

		stdout := make(chan string, 8)
		stderr := make(chan string, 8)
		err := client.Containers().Logs(context.Background(), "web", nil, stdout, stderr)
		require.NoError(t, err)

		var out, errLines []string
		for line := range stdout {
			out = append(out, line)
		}
		for line := range stderr {
			errLines = append(errLines, line)
		}

		assert.Equal(t, []string{"hello\n", "world\n"}, out)
		assert.Equal(t, []string{"oops\n"}, errLines)
	})

	t.Run("missing container fails at stream open", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"cause":    "no such container",
				"message":  "no container with name or ID \"ghost\" found",
				"response": 404,
			})
		}))

		stdout := make(chan string, 1)
		stderr := make(chan string, 1)
		err := client.Containers().Logs(context.Background(), "ghost", nil, stdout, stderr)
		assert.ErrorIs(t, err, podman.ErrNotFound)
	})
}

func TestContainersClient_Prune(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, libpodPath("/containers/prune"), r.URL.Path)
		assert.Equal(t, "POST", r.Method)

		json.NewEncoder(w).Encode([]podman.PruneReport{
			{ID: "aaa111", Size: 1024},
		})
	}))

	reports, err := client.Containers().Prune(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "aaa111", reports[0].ID)
	assert.Equal(t, uint64(1024), reports[0].Size)
}

// The full manager round trip: create, observe in the listing, remove, and
// observe the absence.
func TestContainersClient_CreateListRemoveGet(t *testing.T) {
	removed := false

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "POST" && r.URL.Path == libpodPath("/containers/create"):
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(podman.ContainerCreateReport{ID: "test1-id"})
		case r.Method == "GET" && r.URL.Path == libpodPath("/containers/json"):
			json.NewEncoder(w).Encode([]podman.ListContainer{
				{ID: "test1-id", Names: []string{"test1"}},
			})
		case r.Method == "DELETE" && r.URL.Path == libpodPath("/containers/test1-id"):
			removed = true
			w.WriteHeader(http.StatusNoContent)
		case r.URL.Path == libpodPath("/containers/test1-id/exists"):
			if removed {
				w.WriteHeader(http.StatusNotFound)
			} else {
				w.WriteHeader(http.StatusNoContent)
			}
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))

	ctx := context.Background()
	containers := client.Containers()

	created, err := containers.Create(ctx, &podman.ContainerSpec{Name: "test1", Image: "alpine"})
	require.NoError(t, err)

	listed, err := containers.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID(), listed[0].ID())

	require.NoError(t, containers.Remove(ctx, created.ID(), nil))

	_, err = containers.Get(ctx, created.ID())
	assert.ErrorIs(t, err, podman.ErrNotFound)
}
