// Package cdc carries best-effort change notifications between the services
// that write conversation and notification rows and the sessions that render
// them. Delivery is at-most-once and unordered; consumers must re-derive
// truth from the store on every event and rely on the reconciliation poller
// when events are lost.
package cdc

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const (
	TableMessages      = "messages"
	TableNotifications = "notifications"
)

// Event is the change hint published on a channel. Consumers may only assume
// "something changed"; every field is advisory.
type Event struct {
	Table string `json:"table"`
	RowID string `json:"row_id,omitempty"`
	Kind  string `json:"kind,omitempty"` // insert, update, delete
}

// MessagesKey is the channel carrying message/membership changes visible to
// one user. Separate from NotificationsKey so one feed cannot stall the other.
func MessagesKey(userID string) string {
	return "cdc:messages:" + userID
}

func NotificationsKey(userID string) string {
	return "cdc:notifications:" + userID
}

// PubSub abstracts the transport so tests can inject an in-process fake.
type PubSub interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (Subscription, error)
}

type Subscription interface {
	Receive(ctx context.Context) ([]byte, error)
	Close() error
}

type redisPubSub struct {
	client *redis.Client
}

func NewRedisPubSub(client *redis.Client) PubSub {
	return &redisPubSub{client: client}
}

func (p *redisPubSub) Publish(ctx context.Context, channel string, payload []byte) error {
	return p.client.Publish(ctx, channel, payload).Err()
}

func (p *redisPubSub) Subscribe(ctx context.Context, channel string) (Subscription, error) {
	ps := p.client.Subscribe(ctx, channel)

	// Force the subscription onto the wire so open failures surface here
	// instead of on the first Receive.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}

	return &redisSubscription{ps: ps}, nil
}

type redisSubscription struct {
	ps *redis.PubSub
}

func (s *redisSubscription) Receive(ctx context.Context) ([]byte, error) {
	msg, err := s.ps.ReceiveMessage(ctx)
	if err != nil {
		return nil, err
	}
	return []byte(msg.Payload), nil
}

func (s *redisSubscription) Close() error {
	return s.ps.Close()
}
