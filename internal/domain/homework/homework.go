// internal/domain/homework/homework.go
package homework

import (
	"encoding/json"
	"fmt"
)

// Field names used by the review-status API.
const (
	FieldName   = "homework_name"
	FieldStatus = "status"
)

// Status is the review state reported for a homework.
type Status string

const (
	StatusReviewing Status = "reviewing"
	StatusRejected  Status = "rejected"
	StatusApproved  Status = "approved"
)

// Homework is a single record from the "homeworks" list of the status API.
// Only homework_name and status are interpreted; every other field is kept
// as received so the record re-encodes to the same JSON object.
type Homework struct {
	fields map[string]json.RawMessage
}

func (h *Homework) UnmarshalJSON(data []byte) error {
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("homework record is not a JSON object: %w", err)
	}
	h.fields = fields
	return nil
}

func (h Homework) MarshalJSON() ([]byte, error) {
	if h.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(h.fields)
}

// Field returns the raw JSON value of key and whether the key was present.
func (h Homework) Field(key string) (json.RawMessage, bool) {
	raw, ok := h.fields[key]
	return raw, ok
}

// Name returns homework_name. ok is false when the key is absent or is not a string.
func (h Homework) Name() (string, bool) {
	raw, present := h.fields[FieldName]
	if !present {
		return "", false
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil || string(raw) == "null" {
		return "", false
	}
	return name, true
}

// Status returns the status value and whether the key was present at all.
// A present key holding something other than a string yields an empty Status.
func (h Homework) Status() (Status, bool) {
	raw, present := h.fields[FieldStatus]
	if !present {
		return "", false
	}
	var status string
	_ = json.Unmarshal(raw, &status)
	return Status(status), true
}

// StatusResponse is the decoded body of a homework_statuses call.
type StatusResponse struct {
	Homeworks   []Homework `json:"homeworks"`
	CurrentDate int64      `json:"current_date"`
}
