package sender

import (
	"bufio"
	"context"
	"crypto/tls"
	"net"

	ncerr "logship/internal/errors"
	"logship/internal/transport"
	"logship/util"
)

// conn.go - connection lifecycle: staleness detection, connection
// strategy selection, and transport/writer replacement.  Every method
// here runs under the Sender mutex.

// ensureConnection makes s.conn and s.w usable for one write attempt.
//
// Order matters: the freshly resolved collector address and the proxy
// config are snapshotted once, then an existing transport is discarded
// if any staleness check fires, then a missing transport is rebuilt.
// The three checks are mutually exclusive by their proxy-usage
// precondition and evaluated with short-circuiting, mirroring how the
// connection was originally made.
func (s *Sender) ensureConnection() error {
	ip, err := s.res.Resolve()
	if err != nil {
		return ncerr.Connect(s.addr(), err)
	}
	proxy := s.proxy // snapshot; swapped only under s.mu

	if s.conn != nil &&
		(s.directAddrChanged(ip) ||
			s.proxyUseChanged(proxy) ||
			s.proxyAddrChanged(ip, proxy)) {
		s.logger.Info("collector endpoint changed, reconnecting: old=%v new=%v proxied=%v",
			util.RemoteIP(s.conn.RemoteAddr()), ip, proxy != nil)
		s.discard()
	}

	if s.conn == nil {
		s.w = nil
		conn, err := s.connect(ip, proxy)
		if err != nil {
			return err
		}
		s.conn = conn
		s.metrics.ConnectionOpened()
		s.logger.Verbose("connected to %v", conn.RemoteAddr())
	}

	if s.w == nil {
		s.w = bufio.NewWriter(s.conn)
	}
	return nil
}

// ── Staleness checks ─────────────────────────────────────────────────

// directAddrChanged fires when the current connection is direct and the
// collector's freshly resolved address no longer matches the
// connection's remote address (DNS failover).
func (s *Sender) directAddrChanged(ip net.IP) bool {
	return s.proxyConnAddr == nil &&
		!ipEqual(util.RemoteIP(s.conn.RemoteAddr()), ip)
}

// proxyUseChanged fires when proxy usage was toggled since the current
// connection was made, in either direction.
func (s *Sender) proxyUseChanged(proxy *ProxyConfig) bool {
	return (proxy != nil && s.proxyConnAddr == nil) ||
		(proxy == nil && s.proxyConnAddr != nil)
}

// proxyAddrChanged fires when the current connection is proxied and
// either the collector's resolved address drifted from the one recorded
// at connect time, or the connection's remote no longer matches the
// proxy's current resolved address.  A failing proxy resolution counts
// as drift: the transport cannot be trusted if its proxy cannot be
// located.
func (s *Sender) proxyAddrChanged(ip net.IP, proxy *ProxyConfig) bool {
	if s.proxyConnAddr == nil || proxy == nil {
		return false
	}
	if !ipEqual(ip, s.proxyConnAddr) {
		return true
	}
	proxyIP, err := proxy.resolve()
	if err != nil {
		return true
	}
	return !ipEqual(util.RemoteIP(s.conn.RemoteAddr()), proxyIP)
}

// ── Connection strategies ────────────────────────────────────────────

// connect builds a new transport for the resolved collector address.
// The strategy is the closed set selected by (UseTLS, proxy != nil).
func (s *Sender) connect(ip net.IP, proxy *ProxyConfig) (net.Conn, error) {
	addr := util.FormatIPAddr(ip, s.port)

	if proxy == nil {
		conn, err := s.dial.Dial(context.Background(), "tcp", addr)
		if err != nil {
			return nil, ncerr.Connect(addr, err)
		}
		if s.useTLS {
			tlsConn, err := s.upgradeTLS(conn)
			if err != nil {
				conn.Close()
				return nil, ncerr.Connect(addr, err)
			}
			conn = tlsConn
		}
		s.proxyConnAddr = nil
		return conn, nil
	}

	proxyIP, err := proxy.resolve()
	if err != nil {
		return nil, ncerr.Connect(proxy.Addr(), err)
	}

	// Tunnel through the proxy.  This path has no connect timeout;
	// see the package documentation.
	pd := &transport.HTTPProxyDialer{
		Addr:     util.FormatIPAddr(proxyIP, proxy.Port()),
		Username: proxy.username,
		Password: proxy.password,
	}
	conn, err := pd.Dial(context.Background(), "tcp", addr)
	if err != nil {
		return nil, ncerr.Connect(addr, err)
	}
	if s.useTLS {
		// Endpoint identification runs against the collector's
		// hostname, never the proxy's.
		tlsConn, err := s.upgradeTLS(conn)
		if err != nil {
			conn.Close()
			return nil, ncerr.Connect(addr, err)
		}
		conn = tlsConn
	}
	s.proxyConnAddr = ip
	return conn, nil
}

// upgradeTLS wraps an established raw connection in a verified TLS
// session against the collector hostname.
func (s *Sender) upgradeTLS(raw net.Conn) (net.Conn, error) {
	cfg := s.tlsConfig
	if cfg == nil {
		cfg = &tls.Config{}
	} else {
		cfg = cfg.Clone()
	}
	if cfg.ServerName == "" {
		cfg.ServerName = s.host
	}
	tlsConn := tls.Client(raw, cfg)
	if err := tlsConn.Handshake(); err != nil {
		return nil, err
	}
	return tlsConn, nil
}

// discard force-closes the transport and writer as a pair.  Close
// errors are suppressed: the transport is being thrown away.
func (s *Sender) discard() {
	if s.conn != nil {
		util.CloseQuietly(s.conn)
	}
	s.conn = nil
	s.w = nil
}

// ipEqual is nil-tolerant net.IP equality.
func ipEqual(a, b net.IP) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}
