package auth

import (
	"net"
	"net/http"
	"strings"
)

// maxUserAgentLen bounds the stored user-agent string; anything longer is
// garbage or abuse.
const maxUserAgentLen = 512

// LoginContextFromRequest extracts login provenance from an HTTP request.
// The client IP honors the usual proxy headers before falling back to the
// connection address.
func LoginContextFromRequest(r *http.Request) LoginContext {
	ua := r.UserAgent()
	if len(ua) > maxUserAgentLen {
		ua = ua[:maxUserAgentLen]
	}
	return LoginContext{
		IPAddress: clientIP(r),
		UserAgent: ua,
	}
}

func clientIP(r *http.Request) string {
	if ip := parseIP(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	// X-Forwarded-For may hold a chain; the first valid entry is the client.
	for part := range strings.SplitSeq(r.Header.Get("X-Forwarded-For"), ",") {
		if ip := parseIP(strings.TrimSpace(part)); ip != "" {
			return ip
		}
	}
	if ip := parseIP(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

// parseIP validates and normalizes an IP string, returning "" when invalid.
func parseIP(s string) string {
	if s == "" {
		return ""
	}
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}
