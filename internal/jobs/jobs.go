package jobs

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Job is the envelope pushed onto the queue. Payload stays raw JSON so the
// envelope can travel without knowing every payload shape.
type Job struct {
	ID        string          `json:"id"`
	Type      JobType         `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Attempts  int             `json:"attempts"`
	MaxTries  int             `json:"maxTries"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NewJob creates a fresh job with defaults.
func NewJob(t JobType, payloadJSON []byte) (Job, error) {
	if !t.IsValid() {
		return Job{}, ErrInvalidJobType
	}

	if len(payloadJSON) == 0 {
		return Job{}, ErrInvalidJobPayload
	}

	return Job{
		ID:        uuid.NewString(),
		Type:      t,
		Payload:   payloadJSON,
		Attempts:  0,
		MaxTries:  5,
		CreatedAt: time.Now().UTC(),
	}, nil
}
