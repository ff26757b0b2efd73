package sender

import (
	"bufio"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	ncerr "logship/internal/errors"
	"logship/internal/metrics"
	"logship/internal/resolver"
	"logship/internal/transport"
	"logship/syslog"
	"logship/util"
)

// Defaults for the tuneables a Config leaves zero.
const (
	// DefaultConnectTimeout bounds direct connection establishment.
	DefaultConnectTimeout = 500 * time.Millisecond

	// DefaultMaxRetries is the number of retries after the first
	// attempt, i.e. three attempts in total.
	DefaultMaxRetries = 2

	// DefaultPostfix is the RFC 6587 non-transparent frame delimiter.
	DefaultPostfix = "\r\n"

	// DefaultPort is the IANA port for syslog over TLS; plain TCP
	// collectors conventionally listen there too.
	DefaultPort = 6514
)

// Formatter renders one record onto a writer.  [syslog.Format]
// satisfies it; anything else that writes exactly one unframed record
// per call works as well.
type Formatter interface {
	Render(w io.Writer, m *syslog.Message) error
}

// Config holds every tuneable for a Sender.
type Config struct {
	// Host is the collector hostname, re-resolved through a TTL cache.
	Host string
	// Port is the collector port (default DefaultPort).
	Port int

	// UseTLS wraps every connection in TLS.
	UseTLS bool
	// TLSConfig optionally customizes TLS (roots, client certs).
	// Cloned per connection; nil means library defaults.
	TLSConfig *tls.Config

	// Proxy tunnels connections through an HTTP CONNECT proxy.
	Proxy *ProxyConfig

	// ConnectTimeout bounds direct connection establishment
	// (default DefaultConnectTimeout).  The proxy path is unbounded.
	ConnectTimeout time.Duration

	// MaxRetries is how many times a failed attempt is retried
	// (default DefaultMaxRetries).  Set negative for exactly one
	// attempt per Send.
	MaxRetries int

	// Postfix is the frame delimiter appended after every record
	// (default DefaultPostfix).
	Postfix string

	// Format renders records (default syslog.RFC5424).
	Format Formatter

	// DNSCacheTTL bounds how long resolved collector addresses are
	// served from cache (default resolver.DefaultTTL).
	DNSCacheTTL time.Duration

	// KeepAlive is the TCP keep-alive probe interval (0 = Go default).
	KeepAlive time.Duration

	// Dial overrides the raw-socket dialer of the direct path, e.g.
	// with an SSH bastion dialer.  Mutually exclusive with Proxy.
	Dial transport.Dialer
}

// Sender ships records to one collector.  Safe for concurrent use; all
// sends are serialized.
type Sender struct {
	mu sync.Mutex

	host       string
	port       int
	useTLS     bool
	tlsConfig  *tls.Config
	proxy      *ProxyConfig
	maxRetries int
	postfix    string
	format     Formatter
	dial       transport.Dialer

	res     *resolver.Cached
	logger  *util.Logger
	metrics *metrics.Collector

	// Connection state.  conn and w are replaced as a pair, never
	// independently; proxyConnAddr is non-nil only when the current
	// connection was made through a proxy, and then holds the resolved
	// collector address recorded at connect time.
	conn          net.Conn
	w             *bufio.Writer
	proxyConnAddr net.IP
}

// New creates a Sender from cfg.  The collector is not dialed until the
// first Send.
func New(cfg Config, logger *util.Logger) (*Sender, error) {
	if cfg.Host == "" {
		return nil, ncerr.New("sender: collector host is required")
	}
	if cfg.Proxy != nil && cfg.Dial != nil {
		return nil, ncerr.New("sender: proxy and custom dialer are mutually exclusive")
	}
	if logger == nil {
		logger = util.NewLogger(0)
	}

	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}
	timeout := cfg.ConnectTimeout
	if timeout == 0 {
		timeout = DefaultConnectTimeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	if cfg.MaxRetries == 0 {
		maxRetries = DefaultMaxRetries
	}
	postfix := cfg.Postfix
	if postfix == "" {
		postfix = DefaultPostfix
	}
	format := cfg.Format
	if format == nil {
		format = syslog.RFC5424
	}
	dial := cfg.Dial
	if dial == nil {
		dial = &transport.TCPDialer{Timeout: timeout, KeepAlive: cfg.KeepAlive}
	}

	return &Sender{
		host:       cfg.Host,
		port:       port,
		useTLS:     cfg.UseTLS,
		tlsConfig:  cfg.TLSConfig,
		proxy:      cfg.Proxy,
		maxRetries: maxRetries,
		postfix:    postfix,
		format:     format,
		dial:       dial,
		res:        resolver.New(cfg.Host, cfg.DNSCacheTTL),
		logger:     logger,
		metrics:    metrics.New(),
	}, nil
}

// Send delivers one record, blocking until it is written and flushed or
// until MaxRetries+1 attempts have failed.  On exhaustion the last
// attempt's error is returned unrewrapped.  Every failed attempt
// discards the transport, so a retry always starts on a fresh
// connection.
func (s *Sender) Send(msg *syslog.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.SendStarted()
	start := time.Now()
	defer func() {
		s.metrics.AddSendDuration(time.Since(start))
	}()

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		err := s.trySend(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		s.discard()
		s.metrics.TryFailed()
		s.logger.Debug("send attempt %d/%d failed: %v",
			attempt+1, s.maxRetries+1, err)
	}

	s.metrics.SendFailed(lastErr.Error())
	return lastErr
}

// trySend performs a single connect+write+flush cycle.  A formatter
// failure takes the same return path as a transport failure and is
// retried by Send, even though re-rendering the same record rarely
// changes the outcome.
func (s *Sender) trySend(msg *syslog.Message) error {
	if err := s.ensureConnection(); err != nil {
		return err
	}
	if err := s.format.Render(s.w, msg); err != nil {
		return err
	}
	if _, err := io.WriteString(s.w, s.postfix); err != nil {
		return err
	}
	return s.w.Flush()
}

// Close releases the current transport, if any, and the dialer's
// long-lived resources (an SSH bastion session, for a tunnelled
// sender).  Closing a sender that never connected, or closing twice,
// is a no-op.  A later Send reconnects transparently.
func (s *Sender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dialErr := s.dial.Close()
	if s.conn == nil {
		return dialErr
	}
	err := s.conn.Close()
	s.conn = nil
	s.w = nil
	s.proxyConnAddr = nil
	if err != nil {
		return ncerr.Wrap("close", s.addr(), err)
	}
	return dialErr
}

// ── Live reconfiguration ─────────────────────────────────────────────

// SetProxy swaps the proxy configuration (nil disables proxying).  The
// change is observed atomically at the start of the next connect
// decision; an established connection is not torn down here, the
// staleness check of the next Send does that.
func (s *Sender) SetProxy(p *ProxyConfig) {
	s.mu.Lock()
	s.proxy = p
	s.mu.Unlock()
}

// SetTLSConfig swaps the TLS configuration used for future
// connections.
func (s *Sender) SetTLSConfig(cfg *tls.Config) {
	s.mu.Lock()
	s.tlsConfig = cfg
	s.mu.Unlock()
}

// ── Introspection ────────────────────────────────────────────────────

// Proxy returns the current proxy configuration, nil when direct.
func (s *Sender) Proxy() *ProxyConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.proxy
}

// TLSConfig returns the current TLS configuration, nil for defaults.
func (s *Sender) TLSConfig() *tls.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tlsConfig
}

// MaxRetries returns the configured retry bound.
func (s *Sender) MaxRetries() int { return s.maxRetries }

// Metrics exposes the sender's delivery counters.
func (s *Sender) Metrics() *metrics.Collector { return s.metrics }

// String summarizes configuration and counters for diagnostics.
func (s *Sender) String() string {
	s.mu.Lock()
	proxied := s.proxy != nil
	s.mu.Unlock()
	snap := s.metrics.Snapshot()
	return fmt.Sprintf(
		"sender{collector=%s tls=%v proxy=%v retries=%d sends=%d sendErrors=%d tryErrors=%d}",
		s.addr(), s.useTLS, proxied, s.maxRetries,
		snap.SendTotal, snap.SendErrors, snap.TryErrors)
}

// addr returns the unresolved collector "host:port".
func (s *Sender) addr() string {
	return util.FormatAddr(s.host, s.port)
}
