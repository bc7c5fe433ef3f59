// Package telemetry is the product-analytics seam. Recording is a no-op
// today: nothing leaves the machine. The interface stays so callers keep
// their instrumentation points when a real backend lands.
package telemetry

// Client records named events when enabled.
type Client struct {
	enabled bool
}

// New creates a telemetry client. enabled=false drops every event.
func New(enabled bool) *Client {
	return &Client{enabled: enabled}
}

// Enabled reports whether events are recorded.
func (c *Client) Enabled() bool {
	return c.enabled
}

// Record registers an event with optional properties. No-op backend.
func (c *Client) Record(event string, props map[string]any) {
	if !c.enabled {
		return
	}
	// No backend wired yet. Events are accepted and dropped.
	_ = event
	_ = props
}
