package util

import (
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const requestIDPrefix = "nar_"

// GenerateRequestID returns a short, log-friendly id for one narrate call
func GenerateRequestID() string {
	id := uuid.New().String()
	return requestIDPrefix + strings.ReplaceAll(id[:13], "-", "")
}

// GetClientIP resolves the caller's address. Forwarding headers are only
// honoured when the direct peer sits inside one of the trusted CIDRs.
func GetClientIP(r *http.Request, trustProxyHeaders bool, trustedCIDRs []*net.IPNet) string {
	if !trustProxyHeaders {
		return remoteHost(r)
	}

	sourceIP := getSourceIP(r)
	if sourceIP == nil || !isIPInTrustedCIDRs(sourceIP, trustedCIDRs) {
		return remoteHost(r)
	}

	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return strings.TrimSpace(strings.Split(ip, ",")[0])
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return strings.TrimSpace(ip)
	}

	return remoteHost(r)
}

func remoteHost(r *http.Request) string {
	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return ip
	}
	return r.RemoteAddr
}

func getSourceIP(r *http.Request) net.IP {
	return net.ParseIP(remoteHost(r))
}
