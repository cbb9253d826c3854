package cdc

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
)

// Publisher fans change hints out to interested sessions. Publishing is
// best-effort: a failed publish is logged and swallowed so the write path
// never depends on the channel. The reconciliation poller covers the gap.
type Publisher struct {
	bus PubSub
	log zerolog.Logger
}

func NewPublisher(bus PubSub, log zerolog.Logger) *Publisher {
	return &Publisher{
		bus: bus,
		log: log.With().Str("component", "cdc_publisher").Logger(),
	}
}

func (p *Publisher) Publish(ctx context.Context, channel string, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.log.Warn().Err(err).Str("channel", channel).Msg("dropping change event")
		return
	}

	if err := p.bus.Publish(ctx, channel, payload); err != nil {
		p.log.Warn().Err(err).Str("channel", channel).Str("table", event.Table).
			Msg("change event publish failed")
	}
}
