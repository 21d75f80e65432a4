package producer

import (
	"context"
	"encoding/json"
	"fmt"

	audit "udyam/pkg/platform/audit"
)

// Sender is the subset of Producer the audit sink needs.
type Sender interface {
	Produce(ctx context.Context, msg *Message) error
}

// AuditSink publishes audit events as JSON, keyed by registration ID so all
// events of one registration land on the same partition.
type AuditSink struct {
	sender Sender
	topic  string
}

func NewAuditSink(sender Sender, topic string) *AuditSink {
	return &AuditSink{sender: sender, topic: topic}
}

func (s *AuditSink) Publish(ctx context.Context, event audit.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	msg := &Message{
		Topic: s.topic,
		Value: value,
		Headers: map[string]string{
			"category": string(event.Category),
			"action":   string(event.Action),
		},
	}
	if event.RegistrationID != "" {
		msg.Key = []byte(event.RegistrationID)
	}
	return s.sender.Produce(ctx, msg)
}
