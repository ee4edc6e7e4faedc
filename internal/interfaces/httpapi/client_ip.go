package httpapi

import (
	"net/http"
	"net/netip"
	"strings"
)

// forwardedHeaders are consulted in order before falling back to RemoteAddr.
var forwardedHeaders = []string{"X-Forwarded-For", "X-Real-IP"}

// clientAddr reports the caller address for request logs. Only the first
// hop of X-Forwarded-For is used.
func clientAddr(r *http.Request) string {
	for _, header := range forwardedHeaders {
		first, _, _ := strings.Cut(r.Header.Get(header), ",")
		if addr, ok := parseAddr(first); ok {
			return addr.String()
		}
	}
	if addr, ok := parseAddr(r.RemoteAddr); ok {
		return addr.String()
	}
	return ""
}

func parseAddr(raw string) (netip.Addr, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return netip.Addr{}, false
	}
	if addrPort, err := netip.ParseAddrPort(raw); err == nil {
		return addrPort.Addr().Unmap(), true
	}
	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}
