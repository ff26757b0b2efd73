package syslog

import (
	"os"
	"strconv"
	"time"
)

// Message is one structured log record.  Zero-value fields are filled
// with process defaults at render time, matching common syslog client
// behavior: callers only have to set what they care about.
type Message struct {
	Facility Facility
	Severity Severity

	// Timestamp of the event.  Zero means "now at render time".
	Timestamp time.Time

	// Hostname defaults to os.Hostname().
	Hostname string

	// AppName defaults to the process name.
	AppName string

	// ProcID defaults to the current PID.  RFC 5424 only.
	ProcID string

	// MsgID is the RFC 5424 MSGID field ("-" when empty).
	MsgID string

	// StructuredData is raw RFC 5424 SD-ELEMENT text ("-" when empty).
	// The package does not validate or escape it.
	StructuredData string

	// Body is the free-form message text.
	Body string
}

var (
	processName = procName()
	processPID  = strconv.Itoa(os.Getpid())
)

func procName() string {
	if len(os.Args) == 0 || os.Args[0] == "" {
		return "logship"
	}
	name := os.Args[0]
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '/' {
			return name[i+1:]
		}
	}
	return name
}

// filled returns a copy of m with every defaultable field populated.
func (m *Message) filled() Message {
	out := *m
	if out.Timestamp.IsZero() {
		out.Timestamp = time.Now()
	}
	if out.Hostname == "" {
		if h, err := os.Hostname(); err == nil && h != "" {
			out.Hostname = h
		} else {
			out.Hostname = "localhost"
		}
	}
	if out.AppName == "" {
		out.AppName = processName
	}
	if out.ProcID == "" {
		out.ProcID = processPID
	}
	return out
}
