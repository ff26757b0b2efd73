// Package resolver provides TTL-cached DNS resolution.
//
// A collector's hostname is re-resolved at most once per TTL so that
// DNS changes (failover, blue/green cutover) are picked up without
// paying a lookup on every send.  The cache itself is delegated to
// go-cache; this package only decides what to look up.
package resolver

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultTTL bounds how long a resolved address is served without
// consulting DNS again.
const DefaultTTL = 30 * time.Second

// LookupFunc resolves a hostname to candidate IPs.  Injectable for
// tests; the default uses the platform resolver.
type LookupFunc func(ctx context.Context, host string) ([]net.IP, error)

// Cached resolves one hostname through a TTL cache.
//
// Resolve returns either the cached address or a freshly looked-up one,
// never a partial value.  Lookups happen lazily on expiry; concurrent
// callers during a refresh may both perform the lookup, which is
// harmless.
type Cached struct {
	host   string
	ttl    time.Duration
	lookup LookupFunc

	mu    sync.Mutex
	cache *gocache.Cache
}

// New returns a cached resolver for host.  A non-positive ttl falls
// back to [DefaultTTL].
func New(host string, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cached{
		host:   host,
		ttl:    ttl,
		cache:  gocache.New(ttl, 2*ttl),
		lookup: defaultLookup,
	}
}

// SetLookup overrides the lookup function.  Test hook; must be called
// before the first Resolve.
func (c *Cached) SetLookup(fn LookupFunc) { c.lookup = fn }

// Host returns the hostname this resolver serves.
func (c *Cached) Host() string { return c.host }

// Resolve returns the collector's current IP, consulting DNS only when
// the cached entry has expired.
func (c *Cached) Resolve() (net.IP, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.cache.Get(c.host); ok {
		return v.(net.IP), nil
	}

	ips, err := c.lookup(context.Background(), c.host)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", c.host, err)
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("resolve %q: no addresses", c.host)
	}

	ip := ips[0]
	c.cache.Set(c.host, ip, gocache.DefaultExpiration)
	return ip, nil
}

// Flush drops the cached entry so the next Resolve hits DNS.
func (c *Cached) Flush() {
	c.mu.Lock()
	c.cache.Flush()
	c.mu.Unlock()
}

func defaultLookup(ctx context.Context, host string) ([]net.IP, error) {
	// Literal IPs short-circuit DNS entirely.
	if ip := net.ParseIP(host); ip != nil {
		return []net.IP{ip}, nil
	}
	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}
	ips := make([]net.IP, 0, len(addrs))
	for _, a := range addrs {
		ips = append(ips, a.IP)
	}
	return ips, nil
}
