package cmd

import (
	"context"
	"testing"

	"logship/config"
)

func TestPreScanConfigPath(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"long flag", []string{"--config", "/etc/logship.toml", "host"}, "/etc/logship.toml"},
		{"short flag", []string{"-c", "ship.toml"}, "ship.toml"},
		{"equals form", []string{"--config=ship.toml", "host"}, "ship.toml"},
		{"absent", []string{"host", "6514"}, ""},
		{"dangling", []string{"--config"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := preScanConfigPath(tt.args); got != tt.want {
				t.Errorf("preScanConfigPath(%v) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestParsePositional(t *testing.T) {
	cfg := config.New()
	if err := parsePositional(cfg, []string{"logs.example.com", "1514"}); err != nil {
		t.Fatalf("parsePositional: %v", err)
	}
	if cfg.Host != "logs.example.com" || cfg.Port != 1514 {
		t.Errorf("host/port = (%q, %d)", cfg.Host, cfg.Port)
	}

	cfg = config.New()
	if err := parsePositional(cfg, []string{"logs.example.com"}); err != nil {
		t.Fatalf("parsePositional: %v", err)
	}
	if cfg.Port != config.DefaultPort {
		t.Errorf("Port = %d, want default when omitted", cfg.Port)
	}

	if err := parsePositional(config.New(), []string{"a", "b", "c"}); err == nil {
		t.Error("parsePositional should reject extra arguments")
	}
	if err := parsePositional(config.New(), []string{"host", "notaport"}); err == nil {
		t.Error("parsePositional should reject a bad port")
	}
}

// TestParseArgsVerbosePrecedence verifies an environment-seeded
// verbosity survives flag registration and that the flag still wins
// when given.
func TestParseArgsVerbosePrecedence(t *testing.T) {
	t.Setenv("LOGSHIP_VERBOSE", "2")

	cfg, done, err := parseArgs([]string{"logs.example.com"})
	if err != nil || done {
		t.Fatalf("parseArgs: done=%v err=%v", done, err)
	}
	if cfg.Verbose != 2 {
		t.Errorf("Verbose = %d, env value lost, want 2", cfg.Verbose)
	}

	cfg, done, err = parseArgs([]string{"-v", "-v", "-v", "logs.example.com"})
	if err != nil || done {
		t.Fatalf("parseArgs: done=%v err=%v", done, err)
	}
	if cfg.Verbose != 3 {
		t.Errorf("Verbose = %d, want 3 (flags override env)", cfg.Verbose)
	}
}

// TestParseArgsEnvOverridesDefaults verifies the env layer lands in
// the parsed config when no flag shadows it.
func TestParseArgsEnvOverridesDefaults(t *testing.T) {
	t.Setenv("LOGSHIP_FORMAT", "rfc3164")
	cfg, done, err := parseArgs([]string{"logs.example.com"})
	if err != nil || done {
		t.Fatalf("parseArgs: done=%v err=%v", done, err)
	}
	if cfg.Format != "rfc3164" {
		t.Errorf("Format = %q, want env value", cfg.Format)
	}

	cfg, _, err = parseArgs([]string{"--format", "rfc5424", "logs.example.com"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Format != "rfc5424" {
		t.Errorf("Format = %q, want flag value", cfg.Format)
	}
}

// TestExecuteValidation verifies config errors surface before any
// network activity.
func TestExecuteValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad port", []string{"logs.example.com", "99999"}},
		{"proxy and tunnel", []string{
			"--proxy", "proxy.corp:3128", "-T", "jump.corp", "logs.example.com",
		}},
		{"bad format", []string{"--format", "gelf", "logs.example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Execute(context.Background(), tt.args); err == nil {
				t.Error("Execute should fail")
			}
		})
	}
}

// TestExecuteVersion verifies --version short-circuits without needing
// a host argument.
func TestExecuteVersion(t *testing.T) {
	if err := Execute(context.Background(), []string{"--version"}); err != nil {
		t.Errorf("Execute(--version): %v", err)
	}
}
