package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Proxy headers checked in priority order, most reliable first.
var ipHeaders = []string{
	"CF-Connecting-IP",
	"DO-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// GetIP extracts the real client IP address from the request, checking
// proxy headers in priority order and falling back to RemoteAddr. It never
// panics; when no valid IP can be determined it returns the raw RemoteAddr.
func GetIP(r *http.Request) string {
	for _, header := range ipHeaders {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}

		// X-Forwarded-For may carry a chain: "client, proxy1, proxy2".
		// The leftmost entry is the original client.
		if header == "X-Forwarded-For" {
			if idx := strings.Index(value, ","); idx >= 0 {
				value = value[:idx]
			}
		}

		if ip := normalizeIP(value); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if ip := normalizeIP(host); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// normalizeIP validates and normalizes an IP string. Returns "" when the
// value is not a usable client address.
func normalizeIP(value string) string {
	ip := net.ParseIP(strings.TrimSpace(value))
	if ip == nil || ip.IsUnspecified() {
		return ""
	}
	return ip.String()
}
