package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags, config file parsing, and environment variable
// loading.

const (
	// DefaultPort is the collector port when none is given.
	DefaultPort = 6514

	// DefaultConnectTimeout is the direct-path connection timeout.
	DefaultConnectTimeout = 500 * time.Millisecond

	// DefaultMaxRetries is how many times a failed send attempt is
	// retried before the call fails.
	DefaultMaxRetries = 2

	// DefaultDNSTTL is how long resolved collector and proxy
	// addresses are served from cache.
	DefaultDNSTTL = 30 * time.Second

	// DefaultFormat is the record wire format.
	DefaultFormat = "rfc5424"

	// DefaultFacility classifies records with no explicit facility.
	DefaultFacility = "user"

	// DefaultSeverity labels records with no explicit severity.
	DefaultSeverity = "info"

	// DefaultSSHPort is the standard SSH port.
	DefaultSSHPort = 22

	// DefaultTunnelConnTimeout is the SSH bastion connection timeout.
	DefaultTunnelConnTimeout = 30 * time.Second
)

// New returns a Config populated with every default.
func New() *Config {
	return &Config{
		Port:           DefaultPort,
		ConnectTimeout: DefaultConnectTimeout,
		MaxRetries:     DefaultMaxRetries,
		DNSTTL:         DefaultDNSTTL,
		Format:         DefaultFormat,
		Facility:       DefaultFacility,
		Severity:       DefaultSeverity,
	}
}
