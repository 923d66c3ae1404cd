// Package transport resolves connection URIs and opens the channel a client
// session talks through: a Unix socket, a TCP connection with optional TLS,
// or a Unix socket forwarded over an SSH tunnel.
package transport

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/apyrgio/podman-go/internal/constants"
	"github.com/apyrgio/podman-go/pkg/podman"
)

// Descriptor holds the resolved connection parameters of a URI. It is a
// plain value, immutable once returned.
type Descriptor struct {
	// Scheme is unix, tcp or ssh.
	Scheme string
	// Host and Port are set for tcp and ssh schemes.
	Host string
	Port string
	// Path is the socket path (unix and ssh schemes).
	Path string
	// User is the SSH login name.
	User string
}

// Address returns host:port for dialing.
func (d Descriptor) Address() string {
	return d.Host + ":" + d.Port
}

// Resolve parses a connection URI into a Descriptor. It is a pure function:
// no I/O, and equal URIs always resolve to equal descriptors.
//
// Accepted forms:
//
//	unix:///run/podman/podman.sock
//	tcp://host:port        (http:// is accepted as an alias)
//	ssh://user@host[:port]/run/user/1000/podman/podman.sock
func Resolve(uri string) (Descriptor, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return Descriptor{}, fmt.Errorf("%w: %q: %v", podman.ErrInvalidURI, uri, err)
	}

	switch parsed.Scheme {
	case "unix":
		return resolveUnix(uri, parsed)
	case "tcp", "http":
		return resolveTCP(uri, parsed)
	case "ssh":
		return resolveSSH(uri, parsed)
	default:
		return Descriptor{}, fmt.Errorf("%w: unsupported scheme %q in %q", podman.ErrInvalidURI, parsed.Scheme, uri)
	}
}

func resolveUnix(uri string, parsed *url.URL) (Descriptor, error) {
	path := parsed.Path
	// unix://run/podman/podman.sock is accepted alongside the canonical
	// triple-slash form; the host segment is part of the path.
	if !strings.HasPrefix(uri, "unix:///") && parsed.Host != "" {
		path = "/" + parsed.Host + parsed.Path
	}

	if path == "" {
		return Descriptor{}, fmt.Errorf("%w: unix URI %q has no socket path", podman.ErrInvalidURI, uri)
	}

	return Descriptor{Scheme: "unix", Path: path}, nil
}

func resolveTCP(uri string, parsed *url.URL) (Descriptor, error) {
	if parsed.Hostname() == "" {
		return Descriptor{}, fmt.Errorf("%w: tcp URI %q has no host", podman.ErrInvalidURI, uri)
	}

	if parsed.Port() == "" {
		return Descriptor{}, fmt.Errorf("%w: tcp URI %q has no port", podman.ErrInvalidURI, uri)
	}

	return Descriptor{
		Scheme: "tcp",
		Host:   parsed.Hostname(),
		Port:   parsed.Port(),
	}, nil
}

func resolveSSH(uri string, parsed *url.URL) (Descriptor, error) {
	if parsed.Hostname() == "" {
		return Descriptor{}, fmt.Errorf("%w: ssh URI %q has no host", podman.ErrInvalidURI, uri)
	}

	if parsed.User == nil || parsed.User.Username() == "" {
		return Descriptor{}, fmt.Errorf("%w: ssh URI %q has no user", podman.ErrInvalidURI, uri)
	}

	port := parsed.Port()
	if port == "" {
		port = constants.DefaultSSHPort
	}

	path := parsed.Path
	if path == "" {
		path = constants.DefaultRootSocket
	}

	return Descriptor{
		Scheme: "ssh",
		Host:   parsed.Hostname(),
		Port:   port,
		Path:   path,
		User:   parsed.User.Username(),
	}, nil
}
