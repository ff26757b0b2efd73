package tunnel

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	ncerr "logship/internal/errors"
	"logship/util"
)

// SSHConfig holds everything needed to dial an SSH bastion.
type SSHConfig struct {
	User          string
	Host          string
	Port          int
	KeyPath       string
	PromptPass    bool
	UseAgent      bool
	StrictHostKey bool
	KnownHosts    string
	ConnTimeout   time.Duration
}

// SSHTunnel implements [Tunnel] by opening an SSH connection to the
// bastion and forwarding collector traffic with ssh.Client.Dial.
type SSHTunnel struct {
	config *SSHConfig
	client *ssh.Client
	logger *util.Logger
	mu     sync.RWMutex
	alive  bool
}

// NewSSHTunnel creates a tunnel that is ready to [Connect].
func NewSSHTunnel(cfg *SSHConfig, logger *util.Logger) *SSHTunnel {
	if cfg.Port == 0 {
		cfg.Port = 22
	}
	if cfg.ConnTimeout == 0 {
		cfg.ConnTimeout = 30 * time.Second
	}
	return &SSHTunnel{config: cfg, logger: logger}
}

// Connect dials the bastion and completes the SSH handshake.
func (t *SSHTunnel) Connect(ctx context.Context) error {
	authMethods, err := BuildAuthMethods(t.config)
	if err != nil {
		return ncerr.WrapSSH("auth", t.config.Host, t.config.Port, err)
	}

	hkCallback, err := hostKeyCallback(t.config)
	if err != nil {
		return ncerr.WrapSSH("hostkey", t.config.Host, t.config.Port, err)
	}

	sshCfg := &ssh.ClientConfig{
		User:            t.config.User,
		Auth:            authMethods,
		HostKeyCallback: hkCallback,
		Timeout:         t.config.ConnTimeout,
	}

	addr := util.FormatAddr(t.config.Host, t.config.Port)
	t.logger.Debug("ssh: dialing %s as %s", addr, t.config.User)

	// Use a context-aware TCP dial so callers can cancel.
	var dialer net.Dialer
	tcpConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return ncerr.Wrap("dial", addr, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(tcpConn, addr, sshCfg)
	if err != nil {
		tcpConn.Close()
		return ncerr.WrapSSH("handshake", t.config.Host, t.config.Port, classifyHandshake(err))
	}

	client := ssh.NewClient(sshConn, chans, reqs)

	t.mu.Lock()
	t.client = client
	t.alive = true
	t.mu.Unlock()

	go t.monitor()

	return nil
}

// Dial forwards a collector connection through the tunnel.
func (t *SSHTunnel) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	t.mu.RLock()
	client := t.client
	alive := t.alive
	t.mu.RUnlock()

	if !alive || client == nil {
		return nil, ncerr.ErrNotConnected
	}

	t.logger.Debug("tunnel: dialing %s %s", network, address)
	conn, err := client.DialContext(ctx, network, address)
	if err != nil {
		return nil, ncerr.WrapSSH("forward", t.config.Host, t.config.Port, err)
	}
	return conn, nil
}

// Close shuts down the SSH connection.
func (t *SSHTunnel) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.alive = false
	if t.client != nil {
		err := t.client.Close()
		t.client = nil
		return err
	}
	return nil
}

// IsAlive reports whether the tunnel is still connected.
func (t *SSHTunnel) IsAlive() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.alive
}

// monitor blocks until the SSH connection closes and flips the alive flag.
func (t *SSHTunnel) monitor() {
	t.mu.RLock()
	client := t.client
	t.mu.RUnlock()
	if client == nil {
		return
	}

	err := client.Wait()

	t.mu.Lock()
	t.alive = false
	t.mu.Unlock()

	if err != nil {
		t.logger.Debug("ssh tunnel closed: %v", err)
	} else {
		t.logger.Debug("ssh tunnel closed")
	}
}

// classifyHandshake maps handshake failures onto the auth and host-key
// sentinels so callers can tell credential problems from connectivity
// ones.  The ssh package reports both as opaque handshake errors, so
// matching on the message is the only available hook.
func classifyHandshake(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "host key mismatch"), strings.Contains(msg, "knownhosts:"):
		return fmt.Errorf("%w: %v", ncerr.ErrHostKeyMismatch, err)
	case strings.Contains(msg, "unable to authenticate"):
		return fmt.Errorf("%w: %v", ncerr.ErrAuthFailed, err)
	}
	return err
}
