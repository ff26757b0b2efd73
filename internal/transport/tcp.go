package transport

import (
	"context"
	"net"
	"time"
)

// TCPDialer establishes plain TCP connections with keep-alive enabled.
//
// Timeout bounds connection establishment only; established connections
// carry no read or write deadlines.  A zero Timeout means no bound,
// which is what the proxy tunnel path uses.
type TCPDialer struct {
	Timeout   time.Duration
	KeepAlive time.Duration // keep-alive probe interval (0 = Go default)
}

// Dial connects to address over TCP.
func (d *TCPDialer) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	dialer := net.Dialer{
		Timeout:   d.Timeout,
		KeepAlive: d.KeepAlive,
	}
	return dialer.DialContext(ctx, network, address)
}

// Close is a no-op for stateless TCP dialers.
func (d *TCPDialer) Close() error { return nil }
