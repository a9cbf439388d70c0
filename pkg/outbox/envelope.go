package outbox

import (
	"encoding/json"
	"time"
)

// EnvelopeVersion is the current payload schema version written for new
// events.
const EnvelopeVersion = 1

// PayloadEnvelope is the payload structure stored in outbox_events and
// published verbatim to Pub/Sub. Consumers dispatch on the version field.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}
