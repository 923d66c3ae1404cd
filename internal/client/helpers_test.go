package client

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/apyrgio/podman-go/internal/constants"
	internalhttp "github.com/apyrgio/podman-go/internal/http"
)

// libpodPath prefixes an endpoint with the versioned API root.
func libpodPath(suffix string) string {
	return "/v" + constants.APIVersion + "/libpod" + suffix
}

// newTestClient starts a server for the handler and returns a client wired
// to it. The server shuts down with the test.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	host := strings.TrimPrefix(server.URL, "http://")
	httpClient := internalhttp.NewClient(http.DefaultTransport, host)

	return New(httpClient, nil)
}
