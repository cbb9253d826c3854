package cdc

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"prolink/internal/common"
)

// Listener opens one subscription per channel of interest and invokes the
// supplied callback on every delivered event. There is no delivery or
// ordering guarantee; callbacks must be cheap and idempotent.
type Listener struct {
	bus     PubSub
	log     zerolog.Logger
	maxWait time.Duration
}

func NewListener(bus PubSub, log zerolog.Logger, maxWait time.Duration) *Listener {
	if maxWait <= 0 {
		maxWait = 30 * time.Second
	}
	return &Listener{
		bus:     bus,
		log:     log.With().Str("component", "cdc_listener").Logger(),
		maxWait: maxWait,
	}
}

// Handle cancels one subscription. Cancel blocks until the receive loop has
// stopped, so no callback fires after it returns.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func (h *Handle) Cancel() {
	h.cancel()
	<-h.done
}

// Subscribe opens the channel and starts the receive loop. A failed initial
// open returns a SubscriptionError; the caller degrades to poller-only
// operation. Dropped subscriptions reconnect with bounded backoff.
func (l *Listener) Subscribe(ctx context.Context, channel string, onChange func(Event)) (*Handle, error) {
	runCtx, cancel := context.WithCancel(ctx)

	sub, err := l.bus.Subscribe(runCtx, channel)
	if err != nil {
		cancel()
		return nil, common.NewSubscriptionError(channel, err)
	}

	h := &Handle{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go l.run(runCtx, channel, sub, onChange, h.done)

	l.log.Debug().Str("channel", channel).Msg("subscribed")
	return h, nil
}

func (l *Listener) run(ctx context.Context, channel string, sub Subscription, onChange func(Event), done chan struct{}) {
	defer close(done)
	defer func() {
		_ = sub.Close()
	}()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 250 * time.Millisecond
	bo.MaxInterval = l.maxWait
	bo.MaxElapsedTime = 0 // keep retrying; the poller bounds staleness meanwhile

	for {
		payload, err := sub.Receive(ctx)
		if err == nil {
			bo.Reset()

			var ev Event
			if err := json.Unmarshal(payload, &ev); err != nil {
				// Payloads are advisory; an undecodable one still means
				// "something changed".
				ev = Event{}
			}
			onChange(ev)
			continue
		}

		if ctx.Err() != nil {
			return
		}

		_ = sub.Close()
		l.log.Warn().Err(err).Str("channel", channel).Msg("subscription dropped, reconnecting")

		next, ok := l.reconnect(ctx, channel, bo)
		if !ok {
			return
		}
		sub = next
		bo.Reset()
	}
}

func (l *Listener) reconnect(ctx context.Context, channel string, bo backoff.BackOff) (Subscription, bool) {
	for {
		wait := bo.NextBackOff()
		if wait == backoff.Stop {
			wait = l.maxWait
		}

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, false
		}

		sub, err := l.bus.Subscribe(ctx, channel)
		if err == nil {
			l.log.Info().Str("channel", channel).Msg("subscription re-established")
			return sub, true
		}
		if ctx.Err() != nil {
			return nil, false
		}
		l.log.Warn().Err(err).Str("channel", channel).Msg("reconnect attempt failed")
	}
}
