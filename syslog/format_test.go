package syslog

import (
	"strings"
	"testing"
	"time"
)

var renderTime = time.Date(2026, time.March, 7, 9, 5, 4, 320_000_000, time.UTC)

// fullMessage returns a message with every defaultable field pinned, so
// rendered output is byte-exact.
func fullMessage() *Message {
	return &Message{
		Facility:  FacilityLocal4,
		Severity:  SeverityNotice,
		Timestamp: renderTime,
		Hostname:  "web01",
		AppName:   "billing",
		ProcID:    "4242",
		Body:      "invoice 991 settled",
	}
}

func render(t *testing.T, f Format, m *Message) string {
	t.Helper()
	var sb strings.Builder
	if err := f.Render(&sb, m); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return sb.String()
}

func TestRenderRFC3164(t *testing.T) {
	got := render(t, RFC3164, fullMessage())
	want := "<165>Mar  7 09:05:04 web01 billing[4242]: invoice 991 settled"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestRenderRFC5424(t *testing.T) {
	got := render(t, RFC5424, fullMessage())
	want := "<165>1 2026-03-07T09:05:04.320Z web01 billing 4242 - - invoice 991 settled"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestRenderRFC5424StructuredData(t *testing.T) {
	m := fullMessage()
	m.MsgID = "TX"
	m.StructuredData = `[origin ip="10.0.0.1"]`
	got := render(t, RFC5424, m)
	want := `<165>1 2026-03-07T09:05:04.320Z web01 billing 4242 TX [origin ip="10.0.0.1"] invoice 991 settled`
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

// TestRenderRFC5424EmptyBody verifies an empty body produces a header
// with no trailing space, per the ABNF.
func TestRenderRFC5424EmptyBody(t *testing.T) {
	m := fullMessage()
	m.Body = ""
	got := render(t, RFC5424, m)
	if strings.HasSuffix(got, " ") {
		t.Errorf("got %q, trailing space after header", got)
	}
	if !strings.HasSuffix(got, " - -") {
		t.Errorf("got %q, want header ending in nilvalues", got)
	}
}

// TestRenderFillsDefaults verifies zero-value fields are populated at
// render time without mutating the caller's message.
func TestRenderFillsDefaults(t *testing.T) {
	m := &Message{Body: "bare"}
	got := render(t, RFC5424, m)

	if strings.Contains(got, "  ") {
		t.Errorf("got %q, an unfilled field collapsed to a double space", got)
	}
	if m.Hostname != "" || m.AppName != "" || !m.Timestamp.IsZero() {
		t.Error("Render mutated the caller's message")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"rfc5424", RFC5424, false},
		{"5424", RFC5424, false},
		{"RFC3164", RFC3164, false},
		{"bsd", RFC3164, false},
		{" rfc3164 ", RFC3164, false},
		{"gelf", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
