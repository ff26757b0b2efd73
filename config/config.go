// Package config defines the runtime configuration for logship and
// provides helpers for parsing endpoint specifications.
package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	ncerr "logship/internal/errors"
	"logship/syslog"
)

// Config holds every tuneable for a single logship run.
type Config struct {
	// ── Collector ────────────────────────────────────────────────────
	Host             string        `toml:"host"`
	Port             int           `toml:"port"`
	UseTLS           bool          `toml:"tls"`
	TLSCAFile        string        `toml:"tls_ca_file"`
	TLSCertFile      string        `toml:"tls_cert_file"`
	TLSKeyFile       string        `toml:"tls_key_file"`
	TLSInsecure      bool          `toml:"tls_insecure"`
	ConnectTimeout   time.Duration `toml:"-"`
	ConnectTimeoutMs int           `toml:"connect_timeout_ms"`
	MaxRetries       int           `toml:"max_retries"`
	Postfix          string        `toml:"postfix"`
	Format           string        `toml:"format"`
	DNSTTL           time.Duration `toml:"-"`
	DNSTTLSeconds    int           `toml:"dns_ttl_seconds"`

	// ── Record defaults ──────────────────────────────────────────────
	AppName  string `toml:"app_name"`
	Hostname string `toml:"hostname"`
	Facility string `toml:"facility"`
	Severity string `toml:"severity"`

	// ── HTTP proxy ───────────────────────────────────────────────────
	ProxySpec string `toml:"proxy"` // host:port
	ProxyUser string `toml:"proxy_user"`
	ProxyPass string `toml:"proxy_pass"`

	// ── SSH tunnel ───────────────────────────────────────────────────
	TunnelSpec     string `toml:"tunnel"` // [user@]host[:port]
	TunnelEnabled  bool   `toml:"-"`
	TunnelUser     string `toml:"-"`
	TunnelHost     string `toml:"-"`
	TunnelPort     int    `toml:"-"`
	SSHKeyPath     string `toml:"ssh_key"`
	SSHPassword    bool   `toml:"-"` // prompt interactively
	UseSSHAgent    bool   `toml:"ssh_agent"`
	StrictHostKey  bool   `toml:"strict_hostkey"`
	KnownHostsPath string `toml:"known_hosts"`

	// ── Operations ───────────────────────────────────────────────────
	Verbose     int    `toml:"verbose"`
	MetricsAddr string `toml:"metrics_addr"`
	ConfigFile  string `toml:"-"`
	WatchConfig bool   `toml:"-"`
}

// ── Spec parsers ─────────────────────────────────────────────────────

// ParseProxySpec extracts host and port from "host:port".
func ParseProxySpec(spec string) (host string, port int, err error) {
	host, portStr, err := splitHostPort(spec)
	if err != nil {
		return "", 0, fmt.Errorf("invalid proxy spec %q, expected host:port", spec)
	}
	port, err = strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return "", 0, fmt.Errorf("invalid proxy port %q", portStr)
	}
	return host, port, nil
}

func splitHostPort(spec string) (string, string, error) {
	i := strings.LastIndexByte(spec, ':')
	if i <= 0 || i == len(spec)-1 {
		return "", "", fmt.Errorf("missing port")
	}
	return spec[:i], spec[i+1:], nil
}

// tunnelRe matches [user@]host[:port].
var tunnelRe = regexp.MustCompile(`^(?:([^@]+)@)?([^:]+)(?::(\d+))?$`)

// ParseTunnelSpec extracts user, host, and port from a string such as
// "admin@bastion.example.com:2222".  Port defaults to 22.
func ParseTunnelSpec(spec string) (user, host string, port int, err error) {
	m := tunnelRe.FindStringSubmatch(spec)
	if m == nil {
		return "", "", 0, fmt.Errorf("invalid tunnel spec %q, expected [user@]host[:port]", spec)
	}
	user = m[1]
	host = m[2]
	port = DefaultSSHPort
	if m[3] != "" {
		port, err = strconv.Atoi(m[3])
		if err != nil || port < 1 || port > 65535 {
			return "", "", 0, fmt.Errorf("invalid tunnel port %q", m[3])
		}
	}
	if host == "" {
		return "", "", 0, fmt.Errorf("tunnel host is required")
	}
	return user, host, port, nil
}

// ── Normalization ────────────────────────────────────────────────────

// Normalize converts scalar aliases (millisecond/second integers from
// TOML or env) into their duration fields and expands the tunnel spec.
// It must run after all config layers have been applied.
func (c *Config) Normalize() error {
	if c.ConnectTimeoutMs > 0 {
		c.ConnectTimeout = time.Duration(c.ConnectTimeoutMs) * time.Millisecond
	}
	if c.DNSTTLSeconds > 0 {
		c.DNSTTL = time.Duration(c.DNSTTLSeconds) * time.Second
	}
	if c.TunnelSpec != "" {
		user, host, port, err := ParseTunnelSpec(c.TunnelSpec)
		if err != nil {
			return err
		}
		c.TunnelEnabled = true
		c.TunnelUser = user
		c.TunnelHost = host
		c.TunnelPort = port
	}
	return nil
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Host == "" {
		return &ncerr.ConfigError{
			Field:   "host",
			Message: "collector hostname is required",
			Hint:    "logship [options] host port",
		}
	}
	if c.Port < 1 || c.Port > 65535 {
		return &ncerr.ConfigError{
			Field:   "port",
			Value:   c.Port,
			Message: "collector port must be in 1-65535",
		}
	}
	if c.ProxySpec != "" && c.TunnelEnabled {
		return &ncerr.ConfigError{
			Field:   "proxy",
			Message: "an HTTP proxy and an SSH tunnel are mutually exclusive",
		}
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return &ncerr.ConfigError{
			Field:   "tls-cert",
			Message: "client certificate and key must be given together",
		}
	}
	if c.ProxySpec != "" {
		if _, _, err := ParseProxySpec(c.ProxySpec); err != nil {
			return &ncerr.ConfigError{Field: "proxy", Value: c.ProxySpec, Message: err.Error()}
		}
	}
	if c.Format != "" {
		if _, err := syslog.ParseFormat(c.Format); err != nil {
			return &ncerr.ConfigError{
				Field: "format", Value: c.Format,
				Message: "unknown message format",
				Hint:    "use rfc3164 or rfc5424",
			}
		}
	}
	if c.Facility != "" {
		if _, err := syslog.ParseFacility(c.Facility); err != nil {
			return &ncerr.ConfigError{Field: "facility", Value: c.Facility, Message: "unknown facility"}
		}
	}
	if c.Severity != "" {
		if _, err := syslog.ParseSeverity(c.Severity); err != nil {
			return &ncerr.ConfigError{Field: "severity", Value: c.Severity, Message: "unknown severity"}
		}
	}
	return nil
}
