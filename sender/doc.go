// Package sender delivers framed syslog records to a collector over a
// stream transport: plain TCP, TLS, or either one tunnelled through an
// HTTP CONNECT proxy or an SSH bastion.
//
// One Sender owns at most one connection.  Send serializes all callers
// through a single mutex, so a second caller blocks for the duration of
// another caller's send, including reconnects and TLS handshakes.  Each
// Send either succeeds or fails after MaxRetries+1 attempts; failed
// transports are discarded before any retry so a retried record never
// lands on a half-written stream.
//
// Known limitations, kept deliberately: only connection establishment
// on the direct path is time-bounded.  Writes, flushes, and the proxy
// tunnel handshake have no deadline, and an in-flight Send cannot be
// cancelled.  A collector that accepts the connection and then stalls
// blocks the caller indefinitely.
package sender
