// Package podman defines the public API surface of the Podman client:
// the Client interface and its per-kind resource clients, the resource and
// report types of the libpod v5 REST dialect, the error taxonomy, and the
// lazy resource Proxy.
//
// Construct a client with the podmanclient package:
//
//	client, err := podmanclient.New(ctx, &podman.Config{
//		BaseURI: "unix:///run/podman/podman.sock",
//	})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	ctr, err := client.Containers().Get(ctx, "web")
//	if err != nil {
//		return err
//	}
//	details, err := ctr.Attrs(ctx) // fetched once, cached on the proxy
package podman
