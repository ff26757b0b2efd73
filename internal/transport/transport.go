// Package transport provides abstractions for network connection
// establishment.  Transports handle the "how" of reaching a collector
// (direct TCP, an HTTP CONNECT tunnel, or an SSH bastion hop)
// independent of what is written over the connection, which is the
// sender's job.
package transport

import (
	"context"
	"net"
)

// Dialer opens outbound network connections.  Implementations include
// a plain keep-alive TCP dialer, an HTTP CONNECT proxy dialer, and an
// SSH-tunnelled dialer that routes traffic through a bastion.
type Dialer interface {
	// Dial establishes a connection to the given network address.
	Dial(ctx context.Context, network, address string) (net.Conn, error)

	// Close releases any long-lived resources held by the dialer
	// (e.g. an SSH session).  Stateless dialers return nil.
	Close() error
}
