package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// EvaluationEventType is the type carried by evaluation events.
const EvaluationEventType = "evaluation.completed"

// EvaluationEvent is broadcast after every completed evaluation.
type EvaluationEvent struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	ChallengeID string    `json:"challenge_id,omitempty"`
	Correctness float64   `json:"correctness"`
	Efficiency  float64   `json:"efficiency"`
	Quality     float64   `json:"quality"`
	Passed      bool      `json:"passed"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// EvaluationPublisher delivers evaluation events to interested consumers.
type EvaluationPublisher interface {
	PublishEvaluation(ctx context.Context, event EvaluationEvent) error
}

type natsEvaluationPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSEvaluationPublisher publishes events on the given subject. It returns
// nil when no connection is configured.
func NewNATSEvaluationPublisher(conn *nats.Conn, subject string) EvaluationPublisher {
	if conn == nil || subject == "" {
		return nil
	}
	return &natsEvaluationPublisher{conn: conn, subject: subject}
}

func (p *natsEvaluationPublisher) PublishEvaluation(_ context.Context, event EvaluationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode evaluation event: %w", err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("publish evaluation event: %w", err)
	}
	return nil
}
