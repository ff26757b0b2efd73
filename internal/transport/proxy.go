package transport

import (
	"bufio"
	"context"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"net/url"

	xproxy "golang.org/x/net/proxy"

	ncerr "logship/internal/errors"
)

// HTTPProxyDialer reaches a destination by opening a tunnel through an
// HTTP proxy with the CONNECT method.  Optional credentials are sent
// as Proxy-Authorization: Basic.
//
// The forward dial and the CONNECT exchange are deliberately not
// time-bounded; callers that need a bound must cancel ctx themselves.
type HTTPProxyDialer struct {
	// Addr is the proxy endpoint as "host:port".
	Addr string

	// Username and Password enable proxy authentication when non-empty.
	Username string
	Password string

	// Forward performs the raw dial to the proxy itself.
	// Defaults to a plain net.Dialer.
	Forward xproxy.ContextDialer
}

// Dial tunnels to address through the proxy.
func (d *HTTPProxyDialer) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	forward := d.Forward
	if forward == nil {
		forward = &net.Dialer{}
	}

	conn, err := forward.DialContext(ctx, network, d.Addr)
	if err != nil {
		return nil, ncerr.Wrap("dial", d.Addr, err)
	}

	if err := d.connect(conn, address); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// connect performs the CONNECT handshake on an open proxy connection.
func (d *HTTPProxyDialer) connect(conn net.Conn, address string) error {
	req := &http.Request{
		Method: http.MethodConnect,
		URL:    &url.URL{Opaque: address},
		Host:   address,
		Header: make(http.Header),
	}
	if d.Username != "" {
		cred := base64.StdEncoding.EncodeToString(
			[]byte(d.Username + ":" + d.Password))
		req.Header.Set("Proxy-Authorization", "Basic "+cred)
	}

	if err := req.Write(conn); err != nil {
		return ncerr.Wrap("proxy-connect", address, err)
	}

	// The proxy sends nothing after its response until the tunnel is
	// up, so a plain bufio reader cannot over-read tunnel bytes here.
	br := bufio.NewReader(conn)
	resp, err := http.ReadResponse(br, req)
	if err != nil {
		return ncerr.Wrap("proxy-connect", address, err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ncerr.Wrap("proxy-connect", address,
			fmt.Errorf("%w: %s", ncerr.ErrProxyRefused, resp.Status))
	}
	if br.Buffered() > 0 {
		// Should not happen with a conforming proxy; surface it
		// rather than silently dropping tunnel bytes.
		return ncerr.Wrap("proxy-connect", address,
			fmt.Errorf("proxy sent %d unexpected bytes after response", br.Buffered()))
	}
	return nil
}

// Close is a no-op; the dialer holds no long-lived resources.
func (d *HTTPProxyDialer) Close() error { return nil }
