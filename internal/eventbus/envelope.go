package eventbus

import "time"

// Envelope is the common wrapper for every message crossing the bus.
// It is generic to allow strongly typed payloads per event, and it is the
// JSON wire format: a listener for a topic reconstructs the same envelope
// the publisher serialized.
//
// Envelopes are values and are never mutated after construction; the
// timestamp is stamped exactly once, in NewEnvelope.
type Envelope[T any] struct {
	EventType     string            `json:"event_type"`
	Payload       T                 `json:"payload"`
	Timestamp     time.Time         `json:"timestamp"`
	Source        string            `json:"source"`
	CorrelationID string            `json:"correlation_id,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// NewEnvelope builds an envelope around payload and stamps the current time.
// No validation is performed; callers are responsible for meaningful
// eventType and source strings.
func NewEnvelope[T any](eventType string, payload T, source, correlationID string, metadata map[string]string) Envelope[T] {
	return Envelope[T]{
		EventType:     eventType,
		Payload:       payload,
		Timestamp:     time.Now().UTC(),
		Source:        source,
		CorrelationID: correlationID,
		Metadata:      metadata,
	}
}
