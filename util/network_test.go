package util

import (
	"net"
	"testing"
)

func TestFormatAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"logs.example.com", 6514, "logs.example.com:6514"},
		{"127.0.0.1", 514, "127.0.0.1:514"},
		{"::1", 6514, "[::1]:6514"},
	}
	for _, tt := range tests {
		if got := FormatAddr(tt.host, tt.port); got != tt.want {
			t.Errorf("FormatAddr(%q, %d) = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestFormatIPAddr(t *testing.T) {
	if got := FormatIPAddr(net.ParseIP("192.0.2.1"), 6514); got != "192.0.2.1:6514" {
		t.Errorf("FormatIPAddr = %q", got)
	}
	if got := FormatIPAddr(net.ParseIP("2001:db8::1"), 6514); got != "[2001:db8::1]:6514" {
		t.Errorf("FormatIPAddr = %q", got)
	}
}

func TestRemoteIP(t *testing.T) {
	tcp := &net.TCPAddr{IP: net.ParseIP("192.0.2.1"), Port: 6514}
	if got := RemoteIP(tcp); !got.Equal(net.ParseIP("192.0.2.1")) {
		t.Errorf("RemoteIP(TCPAddr) = %v", got)
	}

	udp := &net.UDPAddr{IP: net.ParseIP("192.0.2.2"), Port: 514}
	if got := RemoteIP(udp); !got.Equal(net.ParseIP("192.0.2.2")) {
		t.Errorf("RemoteIP(UDPAddr) = %v", got)
	}

	// Non-IP address types fall back to textual parsing.
	pipe := fakeAddr("pipe")
	if got := RemoteIP(pipe); got != nil {
		t.Errorf("RemoteIP(pipe) = %v, want nil", got)
	}
	textual := fakeAddr("198.51.100.1:9")
	if got := RemoteIP(textual); !got.Equal(net.ParseIP("198.51.100.1")) {
		t.Errorf("RemoteIP(textual) = %v", got)
	}
}

type fakeAddr string

func (a fakeAddr) Network() string { return "fake" }
func (a fakeAddr) String() string  { return string(a) }
