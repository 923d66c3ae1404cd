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

func TestNetworksClient_Create(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, libpodPath("/networks/create"), r.URL.Path)

		var spec podman.NetworkSpec
		require.NoError(t, json.NewDecoder(r.Body).Decode(&spec))
		assert.Equal(t, "backend", spec.Name)

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(podman.Network{Name: "backend", ID: "net1", Driver: "bridge"})
	}))

	proxy, err := client.Networks().Create(context.Background(), &podman.NetworkSpec{Name: "backend"})
	require.NoError(t, err)
	assert.Equal(t, "backend", proxy.ID())
}

func TestNetworksClient_ConnectDisconnect(t *testing.T) {
	t.Run("connect", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, libpodPath("/networks/backend/connect"), r.URL.Path)

			var opts podman.NetworkConnectOptions
			require.NoError(t, json.NewDecoder(r.Body).Decode(&opts))
			assert.Equal(t, "web", opts.Container)
			assert.Equal(t, []string{"frontend"}, opts.Aliases)

			w.WriteHeader(http.StatusOK)
		}))

		err := client.Networks().Connect(context.Background(), "backend", &podman.NetworkConnectOptions{
			Container: "web",
			Aliases:   []string{"frontend"},
		})
		require.NoError(t, err)
	})

	t.Run("connect without container", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		}))

		err := client.Networks().Connect(context.Background(), "backend", nil)
		assert.ErrorIs(t, err, podman.ErrIdentityRequired)
	})

	t.Run("disconnect", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, libpodPath("/networks/backend/disconnect"), r.URL.Path)

			var body struct {
				Container string `json:"Container"`
				Force     bool   `json:"Force"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "web", body.Container)
			assert.True(t, body.Force)

			w.WriteHeader(http.StatusOK)
		}))

		err := client.Networks().Disconnect(context.Background(), "backend", "web", true)
		require.NoError(t, err)
	})
}

func TestNetworksClient_Prune(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, libpodPath("/networks/prune"), r.URL.Path)

		json.NewEncoder(w).Encode([]map[string]string{
			{"Name": "backend", "Error": ""},
		})
	}))

	reports, err := client.Networks().Prune(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "backend", reports[0].ID)
}
