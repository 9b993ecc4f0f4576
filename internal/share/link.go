package share

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
)

// Scheme prefixes the links hosts hand out to guests.
const Scheme = "sketchboard://"

// DefaultPort is where hosts listen unless configured otherwise.
const DefaultPort = 8888

// Link builds the invitation link for a host at ip:port.
func Link(ip string, port int) string {
	return Scheme + net.JoinHostPort(ip, strconv.Itoa(port))
}

// IsLink reports whether s is an invitation link.
func IsLink(s string) bool {
	return strings.HasPrefix(s, Scheme)
}

// ParseLink returns the host:port an invitation link points at.
func ParseLink(link string) (string, error) {
	addr, ok := strings.CutPrefix(link, Scheme)
	if !ok {
		return "", fmt.Errorf("not a %s link: %q", Scheme, link)
	}
	addr = strings.TrimSuffix(addr, "/")
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return "", fmt.Errorf("bad host address in %q: %w", link, err)
	}
	return addr, nil
}

// OutgoingIP finds the address other machines on the LAN can reach this one
// on. Without a default route it falls back to the first non-loopback IPv4
// interface address, then to loopback.
func OutgoingIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err == nil {
		defer conn.Close()
		if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
			return addr.IP.String()
		}
	}
	addrs, err := net.InterfaceAddrs()
	if err == nil {
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
				return ipnet.IP.String()
			}
		}
	}
	slog.Warn("no LAN address found, share link uses loopback", "component", "share")
	return "127.0.0.1"
}
