package transport

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/apyrgio/podman-go/pkg/podman"
)

// sshTunnel wraps an established SSH session to the remote host. The HTTP
// channel dials the remote service socket through it.
type sshTunnel struct {
	client *ssh.Client
}

// openSSHTunnel connects to the bastion described by the descriptor.
// Credential failures map to ErrSSHAuth; network and host-key failures map
// to ErrSSHConnect.
func openSSHTunnel(descriptor Descriptor, opts *SSHOptions) (*sshTunnel, error) {
	if opts == nil {
		opts = &SSHOptions{}
	}

	auth, err := sshAuthMethods(opts)
	if err != nil {
		return nil, err
	}

	hostKeyCallback, err := sshHostKeyCallback(opts)
	if err != nil {
		return nil, err
	}

	client, err := ssh.Dial("tcp", descriptor.Address(), &ssh.ClientConfig{
		User:            descriptor.User,
		Auth:            auth,
		HostKeyCallback: hostKeyCallback,
	})
	if err != nil {
		if strings.Contains(err.Error(), "unable to authenticate") {
			return nil, fmt.Errorf("%w: %s@%s: %v", podman.ErrSSHAuth, descriptor.User, descriptor.Address(), err)
		}

		return nil, fmt.Errorf("%w: %s: %v", podman.ErrSSHConnect, descriptor.Address(), err)
	}

	return &sshTunnel{client: client}, nil
}

// DialSocket opens the remote Unix socket through the tunnel.
func (t *sshTunnel) DialSocket(path string) (net.Conn, error) {
	conn, err := t.client.Dial("unix", path)
	if err != nil {
		return nil, fmt.Errorf("%w: remote socket %s: %v", podman.ErrSSHConnect, path, err)
	}

	return conn, nil
}

// Close tears down the SSH session and with it every forwarded connection.
func (t *sshTunnel) Close() error {
	return t.client.Close()
}

// sshAuthMethods builds the auth chain: the configured identity key, then
// the default ~/.ssh/id_ed25519 and id_rsa when no identity was given.
func sshAuthMethods(opts *SSHOptions) ([]ssh.AuthMethod, error) {
	candidates := []string{opts.Identity}
	if opts.Identity == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("%w: no identity configured and no home dir: %v", podman.ErrSSHAuth, err)
		}

		candidates = []string{
			filepath.Join(home, ".ssh", "id_ed25519"),
			filepath.Join(home, ".ssh", "id_rsa"),
		}
	}

	var signers []ssh.Signer

	for _, path := range candidates {
		key, err := os.ReadFile(path)
		if err != nil {
			if opts.Identity == "" && errors.Is(err, os.ErrNotExist) {
				continue
			}

			return nil, fmt.Errorf("%w: reading identity %s: %v", podman.ErrSSHAuth, path, err)
		}

		signer, err := parsePrivateKey(key, opts.Passphrase)
		if err != nil {
			return nil, fmt.Errorf("%w: parsing identity %s: %v", podman.ErrSSHAuth, path, err)
		}

		signers = append(signers, signer)
	}

	if len(signers) == 0 {
		return nil, fmt.Errorf("%w: no usable identity key found", podman.ErrSSHAuth)
	}

	return []ssh.AuthMethod{ssh.PublicKeys(signers...)}, nil
}

func parsePrivateKey(key []byte, passphrase string) (ssh.Signer, error) {
	if passphrase != "" {
		return ssh.ParsePrivateKeyWithPassphrase(key, []byte(passphrase))
	}

	return ssh.ParsePrivateKey(key)
}

// sshHostKeyCallback verifies against known_hosts when a file is available.
// Without one the host key is accepted as-is, matching the common client
// behavior for ad-hoc targets; IgnoreHostKey forces that mode.
func sshHostKeyCallback(opts *SSHOptions) (ssh.HostKeyCallback, error) {
	if opts.IgnoreHostKey {
		return ssh.InsecureIgnoreHostKey(), nil // #nosec G106 -- explicit caller opt-out
	}

	path := opts.KnownHostsFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ssh.InsecureIgnoreHostKey(), nil // #nosec G106
		}

		path = filepath.Join(home, ".ssh", "known_hosts")
	}

	if _, err := os.Stat(path); err != nil {
		if opts.KnownHostsFile != "" {
			return nil, fmt.Errorf("%w: known_hosts %s: %v", podman.ErrSSHConnect, path, err)
		}

		return ssh.InsecureIgnoreHostKey(), nil // #nosec G106
	}

	callback, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("%w: loading known_hosts %s: %v", podman.ErrSSHConnect, path, err)
	}

	return callback, nil
}
