// Package utils provides common helper functions for string manipulation,
// request parsing, and data-size handling used across the application.
package utils

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// MaxFilenameLength is the cap applied to client-supplied display names.
const MaxFilenameLength = 32

// SanitizeFilename reduces a client-supplied filename to its final path
// segment and caps it at MaxFilenameLength characters, keeping the tail
// so the file extension survives. Some browsers include full paths in
// upload names. The cut counts runes, not bytes, so a multibyte name is
// never split mid-sequence.
func SanitizeFilename(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if runes := []rune(name); len(runes) > MaxFilenameLength {
		name = string(runes[len(runes)-MaxFilenameLength:])
	}
	return name
}

// IsHashToken reports whether a routing token looks like a content hash
// (exactly 32 characters). Usernames of that length are rejected at
// registration, so the two namespaces cannot collide.
func IsHashToken(token string) bool {
	return len(token) == 32
}

func GetRealIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
