package llm

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
)

// User-facing messages produced by Normalize. Stable: the UI and its tests
// rely on the exact strings.
const (
	MsgCancelled    = "Request was cancelled"
	MsgNetwork      = "Network connection failed"
	MsgUnauthorized = "Invalid API key or unauthorized"
	MsgRateLimited  = "Rate limit exceeded - please try again later"
	MsgServerError  = "Server temporarily unavailable"
	MsgTimeout      = "Request timed out"
)

// maxNormalizedLen caps the fallback message length, ellipsis included.
const maxNormalizedLen = 100

// Normalize maps any failure to a short, stable, user-presentable string.
// Structured errors (context errors, StatusError, net.Error) are classified
// directly; anything else falls back to message markers and finally to the
// truncated message text. Total over any error value, including nil.
func Normalize(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) {
		return MsgCancelled
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if msg := statusMsg(statusErr.StatusCode); msg != "" {
			return msg
		}
		return truncate(err.Error())
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return MsgTimeout
		}
		return MsgNetwork
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return MsgTimeout
	}

	return normalizeMessage(err.Error())
}

// statusMsg maps an HTTP status to its display message, or "" when the
// status has no dedicated wording.
func statusMsg(status int) string {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return MsgUnauthorized
	case status == http.StatusTooManyRequests:
		return MsgRateLimited
	case status >= 500:
		return MsgServerError
	default:
		return ""
	}
}

// normalizeMessage classifies plain error text by marker, in priority
// order, before falling back to the truncated message itself.
func normalizeMessage(msg string) string {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "abort") || strings.Contains(lower, "cancel"):
		return MsgCancelled
	case strings.Contains(msg, "NetworkError") || strings.Contains(lower, "connection refused") || strings.Contains(lower, "no such host"):
		return MsgNetwork
	case strings.Contains(msg, "401") || strings.Contains(msg, "Unauthorized"):
		return MsgUnauthorized
	case strings.Contains(msg, "429"):
		return MsgRateLimited
	case strings.Contains(msg, "500") || strings.Contains(msg, "502") || strings.Contains(msg, "503"):
		return MsgServerError
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "timed out"):
		return MsgTimeout
	default:
		return truncate(msg)
	}
}

// truncate shortens msg to maxNormalizedLen runes, ending with "..." when
// anything was cut.
func truncate(msg string) string {
	runes := []rune(msg)
	if len(runes) <= maxNormalizedLen {
		return msg
	}
	return string(runes[:maxNormalizedLen-3]) + "..."
}
