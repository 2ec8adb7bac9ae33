package logger

import (
	"net/http"
	"strings"
)

var sensitiveHeaders = map[string]bool{
	"authentication-code": true,
	"authorization":       true,
	"cookie":              true,
}

// MaskHeaders returns a copy of headers with credentials masked.
func MaskHeaders(headers http.Header) map[string]string {
	masked := make(map[string]string, len(headers))
	for key, values := range headers {
		joined := strings.Join(values, ",")
		if sensitiveHeaders[strings.ToLower(key)] {
			joined = MaskSecret(joined)
		}
		masked[key] = joined
	}
	return masked
}

// MaskSecret keeps only the last 4 characters.
func MaskSecret(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if len(value) <= 4 {
		return "****"
	}
	return "****" + value[len(value)-4:]
}
