package llm

import (
	"fmt"
	"net/http"
)

// StatusError is a non-2xx HTTP response from a provider API. The retry
// policy inspects StatusCode instead of matching on message text, so the
// retryable/terminal split survives message rewording.
type StatusError struct {
	Provider   string
	StatusCode int
}

func (e *StatusError) Error() string {
	if e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500 {
		return fmt.Sprintf("%s server error: %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s request failed: %d %s", e.Provider, e.StatusCode, http.StatusText(e.StatusCode))
}

// errMissingAPIKey is the synchronous configuration failure for hosted
// providers. Not retryable.
func errMissingAPIKey(display string) error {
	return fmt.Errorf("%s API key is required", display)
}

// errMissingContent marks a 200 response whose body carried no usable text.
// Terminal: a malformed-but-successful response must not be retried.
func errMissingContent(provider string) error {
	return fmt.Errorf("invalid response from %s: missing content", provider)
}

// errMissingModel is returned when Summarize is called without a model.
func errMissingModel(provider string) error {
	return fmt.Errorf("%s: model is required", provider)
}

// statusMessage maps a probe's HTTP status to the user-facing message shown
// in the settings UI.
func statusMessage(display string, status int, model string) string {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Sprintf("Invalid %s API key", display)
	case status == http.StatusNotFound && model != "":
		return fmt.Sprintf("Model %s not found", model)
	default:
		return fmt.Sprintf("%s responded with %d", display, status)
	}
}
