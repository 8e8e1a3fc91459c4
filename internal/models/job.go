package models

import (
	"encoding/json"
	"fmt"
)

// Job is an immutable job descriptor. Payload is handed to the handler verbatim.
type Job struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewJob builds a job, marshaling payload to JSON unless it already is raw JSON.
func NewJob(id, jobType string, payload any) (Job, error) {
	j := Job{ID: id, Type: jobType}

	switch p := payload.(type) {
	case nil:
	case json.RawMessage:
		j.Payload = p
	case []byte:
		j.Payload = json.RawMessage(p)
	default:
		data, err := json.Marshal(p)
		if err != nil {
			return Job{}, fmt.Errorf("failed to marshal payload for job %s: %w", id, err)
		}
		j.Payload = data
	}

	return j, nil
}
