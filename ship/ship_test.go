package ship

import (
	"bufio"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"logship/config"
	"logship/sender"
	"logship/util"
)

// startCollector runs a line-framing collector and returns received
// frames on a channel.
func startCollector(t *testing.T) (net.Listener, chan string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	frames := make(chan string, 16)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				r := bufio.NewReader(conn)
				for {
					line, err := r.ReadString('\n')
					if line != "" {
						frames <- strings.TrimRight(line, "\r\n")
					}
					if err != nil {
						return
					}
				}
			}(conn)
		}
	}()
	return ln, frames
}

func testConfig(host string, port int) *config.Config {
	cfg := config.New()
	cfg.Host = host
	cfg.Port = port
	return cfg
}

func newShipper(t *testing.T, cfg *config.Config, input string) *Shipper {
	t.Helper()
	snd, err := sender.New(sender.Config{
		Host:       cfg.Host,
		Port:       cfg.Port,
		MaxRetries: -1,
	}, util.NewLogger(0))
	if err != nil {
		t.Fatalf("sender.New: %v", err)
	}
	t.Cleanup(func() { snd.Close() })

	sh := New(cfg, snd, util.NewLogger(0))
	sh.Input = strings.NewReader(input)
	return sh
}

// TestRunShipsEveryLine verifies each non-empty input line arrives as
// one frame, in order.
func TestRunShipsEveryLine(t *testing.T) {
	ln, frames := startCollector(t)
	port := ln.Addr().(*net.TCPAddr).Port

	sh := newShipper(t, testConfig("127.0.0.1", port),
		"first record\n\nsecond record\nthird record\n")

	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"first record", "second record", "third record"}
	for _, body := range want {
		select {
		case frame := <-frames:
			if !strings.HasSuffix(frame, " "+body) {
				t.Errorf("frame %q does not carry body %q", frame, body)
			}
		case <-time.After(3 * time.Second):
			t.Fatalf("timed out waiting for %q", body)
		}
	}
	select {
	case frame := <-frames:
		t.Errorf("unexpected extra frame %q (blank lines must be skipped)", frame)
	case <-time.After(100 * time.Millisecond):
	}
}

// TestRunReportsFailures verifies an unreachable collector surfaces as
// a failure count, not a hard stop after the first record.
func TestRunReportsFailures(t *testing.T) {
	ln, _ := startCollector(t)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close() // free the port so every dial is refused

	sh := newShipper(t, testConfig("127.0.0.1", port), "one\ntwo\n")

	err := sh.Run(context.Background())
	if err == nil {
		t.Fatal("Run should report failed records")
	}
	if !strings.Contains(err.Error(), "2 of 2 records failed") {
		t.Errorf("Run error = %v, want a 2-of-2 failure report", err)
	}
	if got := sh.Sender.Metrics().SendErrorCount(); got != 2 {
		t.Errorf("SendErrorCount = %d, want 2", got)
	}
}

// TestRunStopsOnCancel verifies context cancellation stops the loop
// between records.
func TestRunStopsOnCancel(t *testing.T) {
	ln, frames := startCollector(t)
	port := ln.Addr().(*net.TCPAddr).Port

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sh := newShipper(t, testConfig("127.0.0.1", port), "never shipped\n")
	if err := sh.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	select {
	case frame := <-frames:
		t.Errorf("received %q after cancellation", frame)
	case <-time.After(100 * time.Millisecond):
	}
}

// TestRunRecordFields verifies configured facility, severity, app and
// hostname reach the wire.
func TestRunRecordFields(t *testing.T) {
	ln, frames := startCollector(t)
	port := ln.Addr().(*net.TCPAddr).Port

	cfg := testConfig("127.0.0.1", port)
	cfg.Facility = "local3"
	cfg.Severity = "warning"
	cfg.AppName = "payments"
	cfg.Hostname = "app07"

	sh := newShipper(t, cfg, "charge declined\n")
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	select {
	case frame := <-frames:
		// local3.warning = 19*8+4 = 156
		if !strings.HasPrefix(frame, "<156>1 ") {
			t.Errorf("frame %q does not carry local3.warning priority", frame)
		}
		if !strings.Contains(frame, " app07 payments ") {
			t.Errorf("frame %q does not carry hostname and app name", frame)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for the frame")
	}
}
