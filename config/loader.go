package config

// loader.go - configuration loading from environment variables.
//
// Precedence order (highest wins):
//   1. CLI flags   (handled by cmd/root.go)
//   2. Environment variables   (this file)
//   3. Config file (file.go)
//   4. Defaults    (defaults.go)

import (
	"os"
	"strconv"
	"strings"
)

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the LOGSHIP_ prefix.  Boolean values
// accept "1", "true", "yes" (case-insensitive).

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty
// env vars override the existing value.  This should be called BEFORE
// CLI flag parsing so that flags take precedence.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("LOGSHIP_HOST"); v != "" {
		cfg.Host = v
	}
	if v := envInt("LOGSHIP_PORT"); v > 0 {
		cfg.Port = v
	}
	if envBool("LOGSHIP_TLS") {
		cfg.UseTLS = true
	}
	if v := os.Getenv("LOGSHIP_TLS_CA"); v != "" {
		cfg.TLSCAFile = v
	}
	if v := os.Getenv("LOGSHIP_TLS_CERT"); v != "" {
		cfg.TLSCertFile = v
	}
	if v := os.Getenv("LOGSHIP_TLS_KEY"); v != "" {
		cfg.TLSKeyFile = v
	}
	if v := envInt("LOGSHIP_CONNECT_TIMEOUT_MS"); v > 0 {
		cfg.ConnectTimeoutMs = v
	}
	if v, ok := envIntOK("LOGSHIP_MAX_RETRIES"); ok {
		cfg.MaxRetries = v
	}
	if v := os.Getenv("LOGSHIP_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := envInt("LOGSHIP_DNS_TTL_SECONDS"); v > 0 {
		cfg.DNSTTLSeconds = v
	}

	// Record defaults
	if v := os.Getenv("LOGSHIP_APP_NAME"); v != "" {
		cfg.AppName = v
	}
	if v := os.Getenv("LOGSHIP_HOSTNAME"); v != "" {
		cfg.Hostname = v
	}
	if v := os.Getenv("LOGSHIP_FACILITY"); v != "" {
		cfg.Facility = v
	}
	if v := os.Getenv("LOGSHIP_SEVERITY"); v != "" {
		cfg.Severity = v
	}

	// HTTP proxy
	if v := os.Getenv("LOGSHIP_PROXY"); v != "" {
		cfg.ProxySpec = v
	}
	if v := os.Getenv("LOGSHIP_PROXY_USER"); v != "" {
		cfg.ProxyUser = v
	}
	if v := os.Getenv("LOGSHIP_PROXY_PASS"); v != "" {
		cfg.ProxyPass = v
	}

	// SSH tunnel
	if v := os.Getenv("LOGSHIP_TUNNEL"); v != "" {
		cfg.TunnelSpec = v
	}
	if v := os.Getenv("LOGSHIP_SSH_KEY"); v != "" {
		cfg.SSHKeyPath = v
	}
	if envBool("LOGSHIP_SSH_AGENT") {
		cfg.UseSSHAgent = true
	}
	if envBool("LOGSHIP_STRICT_HOSTKEY") {
		cfg.StrictHostKey = true
	}
	if v := os.Getenv("LOGSHIP_KNOWN_HOSTS"); v != "" {
		cfg.KnownHostsPath = v
	}

	// Operations
	if v := envInt("LOGSHIP_VERBOSE"); v > 0 {
		cfg.Verbose = v
	}
	if v := os.Getenv("LOGSHIP_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
}

// ── helpers ──────────────────────────────────────────────────────────

func envInt(key string) int {
	n, _ := envIntOK(key)
	return n
}

func envIntOK(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}
