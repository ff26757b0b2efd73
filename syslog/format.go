package syslog

import (
	"fmt"
	"io"
	"strings"
)

// Format selects the wire format a Message renders to.
type Format int

const (
	// RFC3164 is the legacy BSD syslog format.
	RFC3164 Format = iota
	// RFC5424 is the modern structured syslog format.
	RFC5424
)

func (f Format) String() string {
	switch f {
	case RFC3164:
		return "rfc3164"
	case RFC5424:
		return "rfc5424"
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// ParseFormat accepts "rfc3164", "rfc5424", or the short aliases
// "3164" / "5424" / "bsd".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rfc3164", "3164", "bsd":
		return RFC3164, nil
	case "rfc5424", "5424":
		return RFC5424, nil
	}
	return 0, fmt.Errorf("unknown message format %q", s)
}

// rfc3164Time is the BSD syslog timestamp layout (day space-padded).
const rfc3164Time = "Jan _2 15:04:05"

// rfc5424Time is an RFC 3339 timestamp with millisecond precision, as
// recommended by RFC 5424 §6.2.3.
const rfc5424Time = "2006-01-02T15:04:05.000Z07:00"

// Render writes one unframed record for m in format f.  Defaultable
// fields of m are filled first; m itself is not modified.
func (f Format) Render(w io.Writer, m *Message) error {
	rec := m.filled()
	switch f {
	case RFC3164:
		return renderRFC3164(w, &rec)
	case RFC5424:
		return renderRFC5424(w, &rec)
	}
	return fmt.Errorf("cannot render unknown format %d", int(f))
}

func renderRFC3164(w io.Writer, m *Message) error {
	_, err := fmt.Fprintf(w, "<%d>%s %s %s[%s]: %s",
		Priority(m.Facility, m.Severity),
		m.Timestamp.Format(rfc3164Time),
		m.Hostname,
		m.AppName,
		m.ProcID,
		m.Body,
	)
	return err
}

func renderRFC5424(w io.Writer, m *Message) error {
	_, err := fmt.Fprintf(w, "<%d>1 %s %s %s %s %s %s",
		Priority(m.Facility, m.Severity),
		m.Timestamp.Format(rfc5424Time),
		m.Hostname,
		m.AppName,
		m.ProcID,
		nilvalue(m.MsgID),
		nilvalue(m.StructuredData),
	)
	if err != nil {
		return err
	}
	if m.Body == "" {
		return nil
	}
	_, err = io.WriteString(w, " "+m.Body)
	return err
}

// nilvalue maps an empty field to the RFC 5424 NILVALUE.
func nilvalue(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
