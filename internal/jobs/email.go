package jobs

import (
	"context"
	"time"
)

type EmailPayload struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject,omitempty"`
}

type EmailResult struct {
	Status    string    `json:"status"`
	Recipient string    `json:"recipient"`
	Timestamp time.Time `json:"timestamp"`
}

// SendEmail pretends to deliver an email.
func (s *Simulator) SendEmail(ctx context.Context, p EmailPayload) (any, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return EmailResult{
		Status:    "sent",
		Recipient: p.Recipient,
		Timestamp: time.Now(),
	}, nil
}
