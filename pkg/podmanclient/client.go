// Package podmanclient provides the main entry point for creating Podman
// service clients.
package podmanclient

import (
	"context"
	"fmt"

	"github.com/apyrgio/podman-go/internal/client"
	"github.com/apyrgio/podman-go/internal/constants"
	"github.com/apyrgio/podman-go/internal/http"
	"github.com/apyrgio/podman-go/internal/transport"
	"github.com/apyrgio/podman-go/pkg/podman"
)

// New creates a client session for the service named by config.BaseURI. The
// channel is established and pinged here, so unreachable services and bad
// credentials fail at construction rather than on first use.
func New(ctx context.Context, config *podman.Config) (podman.Client, error) {
	if config == nil {
		return nil, podman.ErrConfigRequired
	}

	if config.BaseURI == "" {
		return nil, podman.ErrBaseURIRequired
	}

	descriptor, err := transport.Resolve(config.BaseURI)
	if err != nil {
		return nil, err
	}

	channel, err := transport.Open(descriptor, transportOptions(config))
	if err != nil {
		return nil, fmt.Errorf("opening channel to %s: %w", config.BaseURI, err)
	}

	httpClient := http.NewClient(channel.RoundTripper(), urlHost(descriptor), httpOptions(config)...)

	c := client.New(httpClient, channel)

	if err := c.System().Ping(ctx); err != nil {
		_ = channel.Close()

		return nil, fmt.Errorf("verifying connection to %s: %w", config.BaseURI, err)
	}

	return c, nil
}

// NewWithURI creates a client from a connection URI with default settings.
func NewWithURI(ctx context.Context, uri string) (podman.Client, error) {
	return New(ctx, &podman.Config{BaseURI: uri})
}

// NewFromEnvironment creates a client from containers.conf and CONTAINER_*
// environment variables.
func NewFromEnvironment(ctx context.Context) (podman.Client, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	return New(ctx, config)
}

// urlHost picks the URL authority for the channel. Fixed-target transports
// use a placeholder the service ignores.
func urlHost(descriptor transport.Descriptor) string {
	if descriptor.Scheme == "tcp" {
		return descriptor.Address()
	}

	return ""
}

func transportOptions(config *podman.Config) transport.Options {
	opts := transport.Options{
		MaxPoolSize: config.MaxPoolSize,
	}

	if config.CertFile != "" || config.KeyFile != "" || config.CAFile != "" || config.SkipTLSVerify {
		opts.TLS = &transport.TLSOptions{
			CertFile:   config.CertFile,
			KeyFile:    config.KeyFile,
			CAFile:     config.CAFile,
			SkipVerify: config.SkipTLSVerify,
		}
	}

	opts.SSH = &transport.SSHOptions{
		Identity:      config.Identity,
		Passphrase:    config.Passphrase,
		IgnoreHostKey: config.SSHIgnoreHostKey,
	}

	return opts
}

func httpOptions(config *podman.Config) []http.Option {
	var opts []http.Option

	if config.Logger != nil {
		opts = append(opts, http.WithLogger(config.Logger))
	} else if config.Debug {
		opts = append(opts, http.WithLogger(NewLogger()))
	}

	if config.Debug {
		opts = append(opts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		opts = append(opts, http.WithUserAgent(config.UserAgent))
	}

	if config.Timeout > 0 {
		opts = append(opts, http.WithTimeout(config.Timeout))
	}

	if config.RetryMax > 0 {
		waitMin, waitMax := config.RetryWaitMin, config.RetryWaitMax
		if waitMin <= 0 {
			waitMin = constants.DefaultRetryWaitMin
		}

		if waitMax <= 0 {
			waitMax = constants.DefaultRetryWaitMax
		}

		opts = append(opts, http.WithRetryConfig(config.RetryMax, waitMin, waitMax))
	}

	return opts
}
