package sender

import (
	"net"
	"time"

	"logship/internal/resolver"
	"logship/util"
)

// ProxyConfig identifies an HTTP CONNECT proxy.  It is immutable once
// created; to point a Sender at a different proxy, build a new
// ProxyConfig and pass it to [Sender.SetProxy].  The proxy hostname is
// resolved through its own TTL cache, independent of the collector's.
type ProxyConfig struct {
	host     string
	port     int
	username string
	password string
	res      *resolver.Cached
}

// NewProxyConfig creates a proxy configuration.  dnsTTL bounds how long
// the proxy's resolved address is cached; non-positive means the
// resolver default.
func NewProxyConfig(host string, port int, dnsTTL time.Duration) *ProxyConfig {
	return &ProxyConfig{
		host: host,
		port: port,
		res:  resolver.New(host, dnsTTL),
	}
}

// WithCredentials returns a copy of p carrying proxy credentials.
func (p *ProxyConfig) WithCredentials(username, password string) *ProxyConfig {
	cp := *p
	cp.username = username
	cp.password = password
	return &cp
}

// Host returns the proxy hostname.
func (p *ProxyConfig) Host() string { return p.host }

// Port returns the proxy port.
func (p *ProxyConfig) Port() int { return p.port }

// Addr returns the unresolved "host:port" form.
func (p *ProxyConfig) Addr() string { return util.FormatAddr(p.host, p.port) }

// resolve returns the proxy's current IP through its TTL cache.
func (p *ProxyConfig) resolve() (net.IP, error) {
	return p.res.Resolve()
}
