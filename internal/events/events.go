// Package events announces record changes to other systems.
package events

import (
	"context"
	"encoding/json"
	"time"

	"spendo/internal/dto"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// RecordEvent describes one committed change. Record is nil for deletions.
type RecordEvent struct {
	Action     Action              `json:"action"`
	RecordID   string              `json:"record_id"`
	Record     *dto.RecordResponse `json:"record,omitempty"`
	OccurredAt time.Time           `json:"occurred_at"`
}

// RoutingKey is record.<action>.
func (e RecordEvent) RoutingKey() string {
	return "record." + string(e.Action)
}

func (e RecordEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

type Notifier interface {
	RecordChanged(ctx context.Context, event RecordEvent) error
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) RecordChanged(context.Context, RecordEvent) error { return nil }
