// Package cmd wires up the CLI flags and dispatches to the shipping core.
package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"

	"logship/config"
	"logship/internal/metrics"
	"logship/internal/transport"
	"logship/sender"
	"logship/ship"
	"logship/syslog"
	"logship/tunnel"
	"logship/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X logship/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args and runs the shipper.
func Execute(ctx context.Context, args []string) error {
	cfg, done, err := parseArgs(args)
	if err != nil || done {
		return err
	}

	logger := util.NewLogger(cfg.Verbose)

	snd, err := buildSender(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := snd.Close(); cerr != nil {
			logger.Warn("closing sender: %v", cerr)
		}
	}()

	if cfg.MetricsAddr != "" {
		stop := serveMetrics(cfg.MetricsAddr, snd, logger)
		defer stop()
	}

	if cfg.WatchConfig && cfg.ConfigFile != "" {
		go watchConfig(ctx, cfg.ConfigFile, snd, logger)
	}

	return ship.New(cfg, snd, logger).Run(ctx)
}

// parseArgs assembles the effective configuration with the precedence
// flags > environment > config file > defaults.  done is true when a
// flag like --help or --version already completed the run.
func parseArgs(args []string) (cfg *config.Config, done bool, err error) {
	// The config file sits at the bottom of the precedence order, so
	// its path has to be known before anything else is applied.
	cfg = config.New()
	if path := preScanConfigPath(args); path != "" {
		if err := config.LoadFile(path, cfg); err != nil {
			return nil, false, err
		}
		cfg.ConfigFile = path
	}
	config.LoadFromEnv(cfg)

	fs := flag.NewFlagSet("logship", flag.ContinueOnError)

	// ── collector ────────────────────────────────────────────────
	fs.BoolVar(&cfg.UseTLS, "tls", cfg.UseTLS, "Wrap the connection in TLS")
	fs.StringVar(&cfg.TLSCAFile, "tls-ca", cfg.TLSCAFile, "CA bundle for collector verification")
	fs.StringVar(&cfg.TLSCertFile, "tls-cert", cfg.TLSCertFile, "Client certificate file")
	fs.StringVar(&cfg.TLSKeyFile, "tls-key", cfg.TLSKeyFile, "Client key file")
	fs.BoolVar(&cfg.TLSInsecure, "tls-insecure", cfg.TLSInsecure, "Skip collector certificate verification")
	fs.IntVarP(&cfg.ConnectTimeoutMs, "connect-timeout", "w", cfg.ConnectTimeoutMs,
		"Connection timeout in milliseconds")
	fs.IntVarP(&cfg.MaxRetries, "max-retries", "r", cfg.MaxRetries,
		"Retries per record after the first attempt")
	fs.IntVar(&cfg.DNSTTLSeconds, "dns-ttl", cfg.DNSTTLSeconds, "DNS cache TTL in seconds")

	// ── record defaults ──────────────────────────────────────────
	fs.StringVarP(&cfg.Format, "format", "f", cfg.Format, "Wire format: rfc3164 or rfc5424")
	fs.StringVar(&cfg.Facility, "facility", cfg.Facility, "Syslog facility")
	fs.StringVar(&cfg.Severity, "severity", cfg.Severity, "Syslog severity")
	fs.StringVar(&cfg.AppName, "app", cfg.AppName, "APP-NAME field (default: process name)")
	fs.StringVar(&cfg.Hostname, "record-hostname", cfg.Hostname, "HOSTNAME field (default: os hostname)")

	// ── HTTP proxy ───────────────────────────────────────────────
	fs.StringVarP(&cfg.ProxySpec, "proxy", "x", cfg.ProxySpec, "HTTP CONNECT proxy as host:port")
	fs.StringVar(&cfg.ProxyUser, "proxy-user", cfg.ProxyUser, "Proxy username")
	fs.StringVar(&cfg.ProxyPass, "proxy-pass", cfg.ProxyPass, "Proxy password")

	// ── SSH tunnel ───────────────────────────────────────────────
	fs.StringVarP(&cfg.TunnelSpec, "tunnel", "T", cfg.TunnelSpec, "SSH tunnel via [user@]host[:port]")
	fs.StringVar(&cfg.SSHKeyPath, "ssh-key", cfg.SSHKeyPath, "SSH private key file")
	fs.BoolVar(&cfg.SSHPassword, "ssh-password", cfg.SSHPassword, "Prompt for SSH password")
	fs.BoolVar(&cfg.UseSSHAgent, "ssh-agent", cfg.UseSSHAgent, "Use SSH agent")
	fs.BoolVar(&cfg.StrictHostKey, "strict-hostkey", cfg.StrictHostKey, "Verify SSH host keys")
	fs.StringVar(&cfg.KnownHostsPath, "known-hosts", cfg.KnownHostsPath, "Custom known_hosts path")

	// ── operations ───────────────────────────────────────────────
	var configPath string
	fs.StringVarP(&configPath, "config", "c", "", "TOML config file")
	fs.BoolVar(&cfg.WatchConfig, "watch-config", cfg.WatchConfig,
		"Reload proxy/TLS settings when the config file changes")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr,
		"Expose prometheus metrics on this address")

	// Registering a count flag resets the bound int, so the flag gets
	// its own counter and only overrides an env or file verbosity when
	// it was actually given.
	var verboseFlag int
	fs.CountVarP(&verboseFlag, "verbose", "v", "Increase verbosity (repeatable)")

	var showVersion, showHelp bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return nil, false, err
	}

	if showHelp || len(args) == 0 {
		printUsage(fs)
		return nil, true, nil
	}
	if showVersion {
		fmt.Printf("logship %s\n", version)
		return nil, true, nil
	}

	if fs.Changed("verbose") {
		cfg.Verbose = verboseFlag
	}

	// ── positional arguments: host [port] ────────────────────────
	if err := parsePositional(cfg, fs.Args()); err != nil {
		return nil, false, err
	}

	if err := cfg.Normalize(); err != nil {
		return nil, false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, false, err
	}
	return cfg, false, nil
}

// buildSender translates the CLI config into a Sender.
func buildSender(cfg *config.Config, logger *util.Logger) (*sender.Sender, error) {
	tlsCfg, err := cfg.BuildTLSConfig()
	if err != nil {
		return nil, err
	}

	format, err := syslog.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	scfg := sender.Config{
		Host:           cfg.Host,
		Port:           cfg.Port,
		UseTLS:         cfg.UseTLS,
		TLSConfig:      tlsCfg,
		ConnectTimeout: cfg.ConnectTimeout,
		MaxRetries:     cfg.MaxRetries,
		Postfix:        cfg.Postfix,
		Format:         format,
		DNSCacheTTL:    cfg.DNSTTL,
	}
	// The sender reads zero MaxRetries as "use the default"; an
	// explicit zero from the CLI means exactly one attempt.
	if cfg.MaxRetries == 0 {
		scfg.MaxRetries = -1
	}

	if cfg.ProxySpec != "" {
		scfg.Proxy = buildProxy(cfg)
	}

	if cfg.TunnelEnabled {
		scfg.Dial = transport.NewSSHDialer(&tunnel.SSHConfig{
			User:          cfg.TunnelUser,
			Host:          cfg.TunnelHost,
			Port:          cfg.TunnelPort,
			KeyPath:       cfg.SSHKeyPath,
			PromptPass:    cfg.SSHPassword,
			UseAgent:      cfg.UseSSHAgent,
			StrictHostKey: cfg.StrictHostKey,
			KnownHosts:    cfg.KnownHostsPath,
			ConnTimeout:   config.DefaultTunnelConnTimeout,
		}, logger)
	}

	return sender.New(scfg, logger)
}

func buildProxy(cfg *config.Config) *sender.ProxyConfig {
	host, port, err := config.ParseProxySpec(cfg.ProxySpec)
	if err != nil {
		return nil // Validate already rejected malformed specs
	}
	p := sender.NewProxyConfig(host, port, cfg.DNSTTL)
	if cfg.ProxyUser != "" {
		p = p.WithCredentials(cfg.ProxyUser, cfg.ProxyPass)
	}
	return p
}

// watchConfig applies proxy and TLS changes from a reloaded config
// file to a running sender.
func watchConfig(ctx context.Context, path string, snd *sender.Sender, logger *util.Logger) {
	err := config.Watch(ctx, path, logger, func(next *config.Config) {
		if next.ProxySpec == "" {
			snd.SetProxy(nil)
		} else if p := buildProxy(next); p != nil {
			snd.SetProxy(p)
		} else {
			logger.Error("config: invalid proxy spec %q, keeping previous proxy", next.ProxySpec)
		}
		tlsCfg, err := next.BuildTLSConfig()
		if err != nil {
			logger.Error("config: keeping previous TLS settings: %v", err)
			return
		}
		snd.SetTLSConfig(tlsCfg)
	})
	if err != nil {
		logger.Error("config: watcher stopped: %v", err)
	}
}

// serveMetrics exposes the sender's counters on addr/metrics.  The
// returned func shuts the listener down.
func serveMetrics(addr string, snd *sender.Sender, logger *util.Logger) func() {
	reg := prometheus.NewRegistry()
	reg.MustRegister(metrics.NewPrometheusBridge(snd.Metrics()))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Verbose("metrics: listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics: %v", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}

// ── helpers ──────────────────────────────────────────────────────────

// preScanConfigPath finds --config/-c before the flag set exists, so
// the file can seed the defaults that flag parsing then overrides.
func preScanConfigPath(args []string) string {
	for i, a := range args {
		switch {
		case a == "--config" || a == "-c":
			if i+1 < len(args) {
				return args[i+1]
			}
		case len(a) > len("--config=") && a[:len("--config=")] == "--config=":
			return a[len("--config="):]
		}
	}
	return ""
}

func parsePositional(cfg *config.Config, remaining []string) error {
	switch len(remaining) {
	case 0:
		// host may come from env or the config file
	case 1:
		cfg.Host = remaining[0]
	case 2:
		cfg.Host = remaining[0]
		port, err := parsePort(remaining[1])
		if err != nil {
			return err
		}
		cfg.Port = port
	default:
		return fmt.Errorf("too many arguments (expected: host [port])")
	}
	return nil
}

func parsePort(s string) (int, error) {
	var port int
	if _, err := fmt.Sscanf(s, "%d", &port); err != nil || port < 1 || port > 65535 {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	return port, nil
}

func printUsage(fs *flag.FlagSet) {
	fmt.Println(`logship - ship structured log records to a remote collector

Usage:
  logship [options] host [port]

Reads newline-delimited records from stdin and delivers each one as a
framed syslog message over TCP, TLS, an HTTP CONNECT proxy, or an SSH
tunnel.  Every record is retried over fresh connections before it is
reported as failed.

Examples:
  tail -f app.log | logship logs.example.com 6514 --tls
  logship --proxy proxy.corp:3128 --tls logs.example.com
  logship -T bastion@jump.corp logs.internal 514 --format rfc3164

Options:`)
	fmt.Println(fs.FlagUsages())
}
