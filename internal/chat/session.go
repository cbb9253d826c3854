package chat

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"prolink/internal/cdc"
	"prolink/internal/common"
	"prolink/internal/dbmysql"
)

// Session owns the conversation view model for one mounted view. It performs
// the initial fetch, listens for change events, and re-aggregates on a fixed
// interval so staleness stays bounded even when every push event is lost.
// Close tears down the subscription and the poller; results of fetches still
// in flight at that point are discarded.
type Session struct {
	userID string

	agg       *Aggregator
	repo      dbmysql.ConversationRepository
	publisher *cdc.Publisher
	log       zerolog.Logger

	mu        sync.Mutex
	summaries []ConversationSummary
	previous  map[string]ConversationSummary
	loading   bool
	lastErr   error
	closed    bool
	gen       uint64

	cancel context.CancelFunc
	kick   chan struct{}
	wg     sync.WaitGroup
	handle *cdc.Handle
}

// NewSession starts the push+poll pipeline for userID. listener may be nil,
// in which case the session runs poller-only; a failed subscribe likewise
// degrades to poller-only without surfacing an error, correctness is
// unaffected and only latency suffers.
func NewSession(
	userID string,
	agg *Aggregator,
	repo dbmysql.ConversationRepository,
	publisher *cdc.Publisher,
	listener *cdc.Listener,
	pollInterval time.Duration,
	log zerolog.Logger,
) *Session {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		userID:    userID,
		agg:       agg,
		repo:      repo,
		publisher: publisher,
		log:       log.With().Str("component", "conversation_session").Str("user_id", userID).Logger(),
		summaries: []ConversationSummary{},
		previous:  map[string]ConversationSummary{},
		loading:   true,
		cancel:    cancel,
		kick:      make(chan struct{}, 1),
	}

	if listener != nil {
		handle, err := listener.Subscribe(ctx, cdc.MessagesKey(userID), func(cdc.Event) {
			s.trigger()
		})
		if err != nil {
			s.log.Warn().Err(err).Msg("change subscription unavailable, running poller-only")
		} else {
			s.handle = handle
		}
	}

	s.wg.Add(1)
	go s.run(ctx, pollInterval)

	return s
}

func (s *Session) run(ctx context.Context, pollInterval time.Duration) {
	defer s.wg.Done()

	if err := s.Refresh(ctx); err != nil {
		s.log.Warn().Err(err).Msg("initial aggregation failed")
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-s.kick:
		}

		if err := s.Refresh(ctx); err != nil {
			s.log.Warn().Err(err).Msg("aggregation failed, keeping previous view model")
		}
	}
}

// trigger coalesces refresh requests; firing it many times for one write is
// harmless because aggregation is idempotent.
func (s *Session) trigger() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Refresh runs one aggregation pass and replaces the snapshot atomically.
// Safe to call concurrently with the poller; whichever pass applies last
// wins wholesale, never field by field.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	gen := s.gen
	previous := s.previous
	s.mu.Unlock()

	summaries, err := s.agg.Aggregate(ctx, s.userID, previous)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen {
		// The view unmounted while this pass was in flight.
		return nil
	}

	s.loading = false
	if err != nil {
		s.lastErr = err
		return err
	}

	s.lastErr = nil
	s.summaries = summaries
	s.previous = make(map[string]ConversationSummary, len(summaries))
	for _, summary := range summaries {
		s.previous[summary.ID] = summary
	}
	return nil
}

// Snapshot returns a copy of the current view model. The previous snapshot
// stays visible through refresh failures; the UI never flickers to empty.
func (s *Session) Snapshot() []ConversationSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ConversationSummary, len(s.summaries))
	copy(out, s.summaries)
	return out
}

// UnreadCount sums the per-conversation unread counts.
func (s *Session) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, summary := range s.summaries {
		if summary.UnreadCount > 0 {
			total += summary.UnreadCount
		}
	}
	return total
}

// Loading reports whether the initial fetch is still outstanding.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastErr returns the error of the most recent failed pass, nil after a
// successful one. The UI shows it only when there is no data at all.
func (s *Session) LastErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// MarkMessageSeen marks one message seen and nudges the pipeline so the
// unread count converges without waiting for the next poll tick.
func (s *Session) MarkMessageSeen(ctx context.Context, messageID string) error {
	if err := s.repo.MarkMessageSeen(ctx, messageID); err != nil {
		return common.NewMutationError("mark message seen", messageID, err)
	}

	if s.publisher != nil {
		s.publisher.Publish(ctx, cdc.MessagesKey(s.userID), cdc.Event{
			Table: cdc.TableMessages,
			RowID: messageID,
			Kind:  "update",
		})
	}

	s.trigger()
	return nil
}

// Close cancels the subscription and the poller and marks the session so
// in-flight aggregation results are never applied.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.gen++
	s.mu.Unlock()

	s.cancel()
	if s.handle != nil {
		s.handle.Cancel()
	}
	s.wg.Wait()
}
