package config

// tls.go - building a tls.Config from file-based settings.

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// BuildTLSConfig assembles a tls.Config from the CA / client-cert
// settings, or returns nil when none are set so the sender uses
// library defaults.
func (c *Config) BuildTLSConfig() (*tls.Config, error) {
	if c.TLSCAFile == "" && c.TLSCertFile == "" && !c.TLSInsecure {
		return nil, nil
	}

	tlsCfg := &tls.Config{}

	if c.TLSInsecure {
		tlsCfg.InsecureSkipVerify = true //nolint:gosec // explicit user opt-out
	}

	if c.TLSCAFile != "" {
		caPEM, err := os.ReadFile(c.TLSCAFile)
		if err != nil {
			return nil, fmt.Errorf("read ca file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caPEM) {
			return nil, fmt.Errorf("no valid certs in ca file %q", c.TLSCAFile)
		}
		tlsCfg.RootCAs = pool
	}

	if c.TLSCertFile != "" {
		cert, err := tls.LoadX509KeyPair(c.TLSCertFile, c.TLSKeyFile)
		if err != nil {
			return nil, fmt.Errorf("load client cert: %w", err)
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}

	return tlsCfg, nil
}
