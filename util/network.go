package util

import (
	"net"
	"strconv"
)

// FormatAddr returns "host:port".
func FormatAddr(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// FormatIPAddr returns "ip:port" for a resolved IP.
func FormatIPAddr(ip net.IP, port int) string {
	return net.JoinHostPort(ip.String(), strconv.Itoa(port))
}

// RemoteIP extracts the IP from a connection's remote address, or nil
// when the address is not IP-based (e.g. an in-memory pipe in tests).
func RemoteIP(addr net.Addr) net.IP {
	switch a := addr.(type) {
	case *net.TCPAddr:
		return a.IP
	case *net.UDPAddr:
		return a.IP
	case *net.IPAddr:
		return a.IP
	}
	// Fall back to parsing "host:port" textual forms.
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return nil
	}
	return net.ParseIP(host)
}
