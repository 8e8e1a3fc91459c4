package jobs

import (
	"context"
	"fmt"
	"time"
)

type DataProcessPayload struct {
	RecordID int `json:"recordId"`
}

type DataProcessResult struct {
	Status    string    `json:"status"`
	RecordID  int       `json:"recordId"`
	Timestamp time.Time `json:"timestamp"`
}

// ValidationError is returned for records that fail validation.
type ValidationError struct {
	RecordID int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("data validation failed for record %d", e.RecordID)
}

// ProcessData pretends to process a record. Records whose id is a non-zero
// multiple of 7 fail validation.
func (s *Simulator) ProcessData(ctx context.Context, p DataProcessPayload) (any, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if p.RecordID != 0 && p.RecordID%7 == 0 {
		return nil, &ValidationError{RecordID: p.RecordID}
	}
	return DataProcessResult{
		Status:    "processed",
		RecordID:  p.RecordID,
		Timestamp: time.Now(),
	}, nil
}
