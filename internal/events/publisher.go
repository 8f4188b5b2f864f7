package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/unixplore/apiserver/internal/logutil"
	"github.com/unixplore/apiserver/internal/mq"
)

// Channel is the broker channel all directory events go to. Consumers
// (e.g. the notifier) filter on the event attribute.
const Channel = "unixplore.events"

// Event names.
const (
	ClubRegistered    = "club.registered"
	ClubStatusChanged = "club.status_changed"
	AnnouncementAdded = "club.announcement"
)

// ClubEvent is the payload published for club lifecycle events.
type ClubEvent struct {
	Event     string    `json:"event"`
	ClubID    string    `json:"clubId"`
	CollegeID string    `json:"collegeId"`
	Name      string    `json:"name,omitempty"`
	Status    string    `json:"status,omitempty"`
	Title     string    `json:"title,omitempty"`
	At        time.Time `json:"at"`
}

// Publisher emits directory events to the configured broker. A nil
// Publisher is valid and drops everything, so callers never need to
// check whether eventing is enabled.
type Publisher struct {
	bus *mq.MQ
}

// NewPublisher wraps the broker. Pass nil to disable eventing.
func NewPublisher(bus *mq.MQ) *Publisher {
	if bus == nil {
		return nil
	}
	return &Publisher{bus: bus}
}

// Publish emits the event. Failures are logged and swallowed: losing a
// notification must never fail the request that triggered it.
func (p *Publisher) Publish(ctx context.Context, event ClubEvent) {
	if p == nil {
		return
	}
	if event.At.IsZero() {
		event.At = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger := logutil.GetOrDefault(ctx)
		logger.Error().Err(err).Str("event", event.Event).Msg("marshal event")
		return
	}

	attrs := map[string]string{"event": event.Event}
	if _, err := p.bus.Publish(ctx, Channel, data, attrs); err != nil {
		logger := logutil.GetOrDefault(ctx)
		logger.Error().Err(err).Str("event", event.Event).Msg("publish event")
	}
}

// Close releases the broker connection.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.bus.Close()
}
