// Package dispatch publishes trigger events and weather alerts to Pub/Sub so
// downstream consumers (the itinerary reshuffler, notification fan-out) can
// react without being linked into the monitoring process.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/roamcast/roamcast/internal/alerting"
	"github.com/roamcast/roamcast/internal/trigger"
)

// Message type attribute values.
const (
	TypeTriggerEvent = "trigger_event"
	TypeWeatherAlert = "weather_alert"
)

// PublisherConfig holds configuration for the Pub/Sub publisher.
type PublisherConfig struct {
	ProjectID string

	// TriggerTopic receives reshuffle trigger events.
	TriggerTopic string

	// AlertTopic receives weather alerts. Empty falls back to TriggerTopic.
	AlertTopic string

	// PublishTimeout bounds each publish call. Default: 10 seconds.
	PublishTimeout time.Duration

	Logger zerolog.Logger
}

// Publisher forwards monitor output to Pub/Sub topics. It implements the
// monitor's ChangeListener and AlertListener interfaces; publish failures are
// logged and dropped since the monitor keeps the authoritative state.
type Publisher struct {
	client         *pubsub.Client
	triggers       *pubsub.Publisher
	alerts         *pubsub.Publisher
	publishTimeout time.Duration
	logger         zerolog.Logger
}

// NewPublisher creates a Pub/Sub publisher.
func NewPublisher(ctx context.Context, cfg PublisherConfig) (*Publisher, error) {
	if cfg.TriggerTopic == "" {
		return nil, fmt.Errorf("dispatch: trigger topic is required")
	}

	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	alertTopic := cfg.AlertTopic
	if alertTopic == "" {
		alertTopic = cfg.TriggerTopic
	}
	timeout := cfg.PublishTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Publisher{
		client:         client,
		triggers:       client.Publisher(cfg.TriggerTopic),
		alerts:         client.Publisher(alertTopic),
		publishTimeout: timeout,
		logger:         cfg.Logger,
	}, nil
}

// OnWeatherChange publishes a trigger event to the trigger topic.
func (p *Publisher) OnWeatherChange(ctx context.Context, ev trigger.Event) {
	attrs := map[string]string{
		"type":     TypeTriggerEvent,
		"trip_id":  ev.TripID,
		"kind":     string(ev.Kind),
		"severity": string(ev.Severity),
	}
	if err := p.publish(ctx, p.triggers, ev, attrs); err != nil {
		p.logger.Error().Err(err).
			Str("trip_id", ev.TripID).
			Str("kind", string(ev.Kind)).
			Msg("failed to publish trigger event")
		return
	}
	p.logger.Debug().
		Str("trip_id", ev.TripID).
		Str("kind", string(ev.Kind)).
		Msg("trigger event published")
}

// OnWeatherAlert publishes a weather alert to the alert topic.
func (p *Publisher) OnWeatherAlert(ctx context.Context, alert alerting.Alert) {
	attrs := map[string]string{
		"type":     TypeWeatherAlert,
		"alert_id": alert.ID,
		"kind":     string(alert.Kind),
		"severity": string(alert.Severity),
	}
	if err := p.publish(ctx, p.alerts, alert, attrs); err != nil {
		p.logger.Error().Err(err).
			Str("alert_id", alert.ID).
			Str("kind", string(alert.Kind)).
			Msg("failed to publish weather alert")
		return
	}
	p.logger.Debug().
		Str("alert_id", alert.ID).
		Str("kind", string(alert.Kind)).
		Msg("weather alert published")
}

func (p *Publisher) publish(ctx context.Context, topic *pubsub.Publisher, payload any, attrs map[string]string) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.publishTimeout)
	defer cancel()

	result := topic.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: attrs,
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publishing message: %w", err)
	}
	return nil
}

// Close flushes pending messages and closes the Pub/Sub client.
func (p *Publisher) Close() error {
	p.triggers.Stop()
	p.alerts.Stop()
	return p.client.Close()
}
