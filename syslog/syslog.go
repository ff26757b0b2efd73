// Package syslog models syslog records and renders them in RFC 3164
// (BSD) and RFC 5424 wire formats.
//
// The package is transport-agnostic: rendering writes one unframed
// record to an io.Writer, and framing (trailing delimiter per RFC 6587
// non-transparent framing) is the sender's concern.
package syslog

import (
	"fmt"
	"strings"
)

// Severity is the syslog severity level (RFC 5424 §6.2.1).
type Severity int

const (
	SeverityEmergency Severity = iota
	SeverityAlert
	SeverityCritical
	SeverityError
	SeverityWarning
	SeverityNotice
	SeverityInfo
	SeverityDebug
)

var severityNames = map[Severity]string{
	SeverityEmergency: "emerg",
	SeverityAlert:     "alert",
	SeverityCritical:  "crit",
	SeverityError:     "err",
	SeverityWarning:   "warning",
	SeverityNotice:    "notice",
	SeverityInfo:      "info",
	SeverityDebug:     "debug",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// ParseSeverity accepts a severity keyword ("err", "warning", ...) or a
// numeric code 0-7.
func ParseSeverity(s string) (Severity, error) {
	lower := strings.ToLower(strings.TrimSpace(s))
	for sev, name := range severityNames {
		if lower == name {
			return sev, nil
		}
	}
	// Common aliases.
	switch lower {
	case "error":
		return SeverityError, nil
	case "warn":
		return SeverityWarning, nil
	case "informational":
		return SeverityInfo, nil
	case "emergency":
		return SeverityEmergency, nil
	case "critical":
		return SeverityCritical, nil
	}
	var n int
	if _, err := fmt.Sscanf(lower, "%d", &n); err == nil && n >= 0 && n <= 7 {
		return Severity(n), nil
	}
	return 0, fmt.Errorf("unknown severity %q", s)
}

// Facility is the syslog facility (RFC 5424 §6.2.1).
type Facility int

const (
	FacilityKern Facility = iota
	FacilityUser
	FacilityMail
	FacilityDaemon
	FacilityAuth
	FacilitySyslog
	FacilityLPR
	FacilityNews
	FacilityUUCP
	FacilityCron
	FacilityAuthPriv
	FacilityFTP
	FacilityNTP
	FacilityAudit
	FacilityAlert
	FacilityClock
	FacilityLocal0
	FacilityLocal1
	FacilityLocal2
	FacilityLocal3
	FacilityLocal4
	FacilityLocal5
	FacilityLocal6
	FacilityLocal7
)

var facilityNames = map[Facility]string{
	FacilityKern:     "kern",
	FacilityUser:     "user",
	FacilityMail:     "mail",
	FacilityDaemon:   "daemon",
	FacilityAuth:     "auth",
	FacilitySyslog:   "syslog",
	FacilityLPR:      "lpr",
	FacilityNews:     "news",
	FacilityUUCP:     "uucp",
	FacilityCron:     "cron",
	FacilityAuthPriv: "authpriv",
	FacilityFTP:      "ftp",
	FacilityNTP:      "ntp",
	FacilityAudit:    "audit",
	FacilityAlert:    "alert",
	FacilityClock:    "clock",
	FacilityLocal0:   "local0",
	FacilityLocal1:   "local1",
	FacilityLocal2:   "local2",
	FacilityLocal3:   "local3",
	FacilityLocal4:   "local4",
	FacilityLocal5:   "local5",
	FacilityLocal6:   "local6",
	FacilityLocal7:   "local7",
}

func (f Facility) String() string {
	if name, ok := facilityNames[f]; ok {
		return name
	}
	return fmt.Sprintf("facility(%d)", int(f))
}

// ParseFacility accepts a facility keyword ("user", "local0", ...) or a
// numeric code 0-23.
func ParseFacility(s string) (Facility, error) {
	lower := strings.ToLower(strings.TrimSpace(s))
	for fac, name := range facilityNames {
		if lower == name {
			return fac, nil
		}
	}
	var n int
	if _, err := fmt.Sscanf(lower, "%d", &n); err == nil && n >= 0 && n <= 23 {
		return Facility(n), nil
	}
	return 0, fmt.Errorf("unknown facility %q", s)
}

// Priority computes the PRI value for a facility/severity pair.
func Priority(f Facility, s Severity) int {
	return int(f)*8 + int(s)
}
