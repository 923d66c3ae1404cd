package transport

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/apyrgio/podman-go/internal/constants"
	"github.com/apyrgio/podman-go/pkg/podman"
)

// TLSOptions holds certificate material for tcp channels.
type TLSOptions struct {
	CertFile   string
	KeyFile    string
	CAFile     string
	SkipVerify bool
}

// SSHOptions holds credentials for ssh channels.
type SSHOptions struct {
	// Identity is the path to the private key; Passphrase unlocks it when
	// encrypted.
	Identity   string
	Passphrase string
	// IgnoreHostKey skips known_hosts verification.
	IgnoreHostKey bool
	// KnownHostsFile overrides ~/.ssh/known_hosts.
	KnownHostsFile string
}

// Options configures Open.
type Options struct {
	TLS *TLSOptions
	SSH *SSHOptions
	// MaxPoolSize caps pooled connections; 0 applies the default.
	MaxPoolSize int
}

// Channel is one open transport to the service. It hands the HTTP layer an
// http.RoundTripper whose dialer is pinned to the resolved descriptor; Close
// releases every descriptor the channel holds, including the SSH session.
type Channel struct {
	descriptor Descriptor
	transport  *http.Transport
	tunnel     *sshTunnel
}

// Open builds a channel for the descriptor. TLS material is loaded and the
// SSH session is established here, so credential and host-key failures
// surface at open time rather than on the first request. A failed Open
// leaves no descriptor behind.
func Open(descriptor Descriptor, opts Options) (*Channel, error) {
	pool := opts.MaxPoolSize
	if pool <= 0 {
		pool = constants.DefaultMaxPoolSize
	}

	channel := &Channel{descriptor: descriptor}

	dialer := &net.Dialer{Timeout: constants.DefaultDialTimeout}

	switch descriptor.Scheme {
	case "unix":
		channel.transport = &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				return dialer.DialContext(ctx, "unix", descriptor.Path)
			},
			DisableCompression: true,
		}

	case "tcp":
		tlsConfig, err := buildTLSConfig(opts.TLS)
		if err != nil {
			return nil, err
		}

		if tlsConfig == nil {
			channel.transport = &http.Transport{
				DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
					return dialer.DialContext(ctx, "tcp", descriptor.Address())
				},
				DisableCompression: true,
			}
		} else {
			tlsDialer := &tls.Dialer{NetDialer: dialer, Config: tlsConfig}
			channel.transport = &http.Transport{
				DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
					conn, err := tlsDialer.DialContext(ctx, "tcp", descriptor.Address())
					if err != nil {
						return nil, fmt.Errorf("%w: %v", podman.ErrTLSHandshake, err)
					}

					return conn, nil
				},
				DisableCompression: true,
			}
		}

	case "ssh":
		tunnel, err := openSSHTunnel(descriptor, opts.SSH)
		if err != nil {
			return nil, err
		}

		channel.tunnel = tunnel
		channel.transport = &http.Transport{
			// The remote socket is reached through the bastion, not a
			// local dial.
			DialContext: func(_ context.Context, _, _ string) (net.Conn, error) {
				return tunnel.DialSocket(descriptor.Path)
			},
			DisableCompression: true,
		}

	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", podman.ErrInvalidURI, descriptor.Scheme)
	}

	channel.transport.MaxIdleConns = pool
	channel.transport.MaxConnsPerHost = pool

	return channel, nil
}

// Descriptor returns the resolved connection parameters of this channel.
func (c *Channel) Descriptor() Descriptor {
	return c.descriptor
}

// RoundTripper returns the transport requests are sent through.
func (c *Channel) RoundTripper() http.RoundTripper {
	return c.transport
}

// Close releases pooled connections and tears down the SSH session. The
// channel must not be used afterwards.
func (c *Channel) Close() error {
	c.transport.CloseIdleConnections()

	if c.tunnel != nil {
		return c.tunnel.Close()
	}

	return nil
}

// buildTLSConfig loads certificate material. A nil return means plain TCP:
// no material and no verification override were requested.
func buildTLSConfig(opts *TLSOptions) (*tls.Config, error) {
	if opts == nil || (opts.CertFile == "" && opts.CAFile == "" && !opts.SkipVerify) {
		return nil, nil
	}

	config := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: opts.SkipVerify, // #nosec G402 -- explicit caller opt-out
	}

	if opts.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(opts.CertFile, opts.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("%w: loading client certificate: %v", podman.ErrTLSHandshake, err)
		}

		config.Certificates = []tls.Certificate{cert}
	}

	if opts.CAFile != "" {
		pem, err := os.ReadFile(opts.CAFile)
		if err != nil {
			return nil, fmt.Errorf("%w: reading CA file: %v", podman.ErrTLSHandshake, err)
		}

		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("%w: no certificates in CA file %s", podman.ErrTLSHandshake, opts.CAFile)
		}

		config.RootCAs = pool
	}

	return config, nil
}
