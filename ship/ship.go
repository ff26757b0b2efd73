// Package ship implements the CLI shipping loop: read lines, send each
// line as one framed record, report what happened.
package ship

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"logship/config"
	"logship/sender"
	"logship/syslog"
	"logship/util"
)

// Shipper reads newline-delimited records from an input stream and
// delivers each one through a Sender.
type Shipper struct {
	Sender *sender.Sender
	Config *config.Config
	Logger *util.Logger

	// Input defaults to os.Stdin when nil.  Override in tests for
	// deterministic I/O.
	Input io.Reader

	facility syslog.Facility
	severity syslog.Severity
}

// New returns a ready-to-run Shipper.  cfg must already be validated.
func New(cfg *config.Config, snd *sender.Sender, logger *util.Logger) *Shipper {
	facility, _ := syslog.ParseFacility(cfg.Facility)
	severity, _ := syslog.ParseSeverity(cfg.Severity)
	return &Shipper{
		Sender:   snd,
		Config:   cfg,
		Logger:   logger,
		facility: facility,
		severity: severity,
	}
}

func (sh *Shipper) input() io.Reader {
	if sh.Input != nil {
		return sh.Input
	}
	return os.Stdin
}

// Run ships every input line until EOF or ctx cancellation.  A line
// whose delivery fails after all retries is logged and skipped; Run
// keeps going and reports the total failure count at the end, so one
// unreachable window does not drop the rest of a piped file silently.
func (sh *Shipper) Run(ctx context.Context) error {
	buf := util.GetBuf()
	defer util.PutBuf(buf)

	scanner := bufio.NewScanner(sh.input())
	scanner.Buffer(*buf, len(*buf))

	var lines, failed int64
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		lines++

		msg := &syslog.Message{
			Facility: sh.facility,
			Severity: sh.severity,
			Hostname: sh.Config.Hostname,
			AppName:  sh.Config.AppName,
			Body:     line,
		}
		if err := sh.Sender.Send(msg); err != nil {
			failed++
			sh.Logger.Error("ship: record dropped after retries: %v", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	sh.Logger.Verbose("shipped %d of %d records", lines-failed, lines)
	if sh.Logger.Level() >= util.LogVerbose {
		sh.Logger.Verbose("metrics: %s", sh.Sender.Metrics().JSON())
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d records failed", failed, lines)
	}
	return nil
}
