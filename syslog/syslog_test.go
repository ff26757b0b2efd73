package syslog

import "testing"

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in      string
		want    Severity
		wantErr bool
	}{
		{"err", SeverityError, false},
		{"error", SeverityError, false},
		{"warn", SeverityWarning, false},
		{"warning", SeverityWarning, false},
		{"INFO", SeverityInfo, false},
		{"informational", SeverityInfo, false},
		{"emerg", SeverityEmergency, false},
		{"0", SeverityEmergency, false},
		{"7", SeverityDebug, false},
		{"8", 0, true},
		{"fatal", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseSeverity(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSeverity(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseSeverity(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFacility(t *testing.T) {
	tests := []struct {
		in      string
		want    Facility
		wantErr bool
	}{
		{"user", FacilityUser, false},
		{"kern", FacilityKern, false},
		{"LOCAL0", FacilityLocal0, false},
		{"local7", FacilityLocal7, false},
		{"authpriv", FacilityAuthPriv, false},
		{"16", FacilityLocal0, false},
		{"23", FacilityLocal7, false},
		{"24", 0, true},
		{"nonsense", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseFacility(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFacility(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseFacility(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPriority(t *testing.T) {
	tests := []struct {
		f    Facility
		s    Severity
		want int
	}{
		{FacilityKern, SeverityEmergency, 0},
		{FacilityUser, SeverityInfo, 14},
		{FacilityLocal4, SeverityNotice, 165},
		{FacilityLocal7, SeverityDebug, 191},
	}
	for _, tt := range tests {
		if got := Priority(tt.f, tt.s); got != tt.want {
			t.Errorf("Priority(%v, %v) = %d, want %d", tt.f, tt.s, got, tt.want)
		}
	}
}

func TestSeverityString(t *testing.T) {
	if got := SeverityWarning.String(); got != "warning" {
		t.Errorf("String() = %q, want %q", got, "warning")
	}
	if got := Severity(42).String(); got != "severity(42)" {
		t.Errorf("String() = %q, want %q", got, "severity(42)")
	}
}
