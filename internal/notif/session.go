package notif

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"prolink/internal/cdc"
)

// Session owns the notification view model for one mounted view: the same
// push+poll+merge pipeline as the conversation session, sourced from its own
// channel key so a failure in one feed cannot stall the other.
//
// Read-state is monotonic within a session: once an id has been observed
// read, no stale fetch or late push event may resurrect it as unread.
type Session struct {
	userID string

	feed *Feed
	log  zerolog.Logger

	mu      sync.Mutex
	items   []Notification
	readIDs map[string]struct{}
	pages   int
	hasMore bool
	loading bool
	lastErr error
	closed  bool
	gen     uint64

	cancel context.CancelFunc
	kick   chan struct{}
	wg     sync.WaitGroup
	handle *cdc.Handle
}

// NewSession starts the pipeline with one page loaded. listener may be nil
// for poller-only operation.
func NewSession(
	userID string,
	feed *Feed,
	listener *cdc.Listener,
	pollInterval time.Duration,
	log zerolog.Logger,
) *Session {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		userID:  userID,
		feed:    feed,
		log:     log.With().Str("component", "notification_session").Str("user_id", userID).Logger(),
		items:   []Notification{},
		readIDs: map[string]struct{}{},
		pages:   1,
		hasMore: true,
		loading: true,
		cancel:  cancel,
		kick:    make(chan struct{}, 1),
	}

	if listener != nil {
		handle, err := listener.Subscribe(ctx, cdc.NotificationsKey(userID), func(cdc.Event) {
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
		s.log.Warn().Err(err).Msg("initial notification fetch failed")
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
			s.log.Warn().Err(err).Msg("notification fetch failed, keeping previous view model")
		}
	}
}

func (s *Session) trigger() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Refresh re-fetches the window the loaded pages cover and replaces the view
// model wholesale. Applying it twice with no intervening writes yields an
// identical window, so duplicate change events are harmless.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	gen := s.gen
	window := s.pages * s.feed.PageSize()
	s.mu.Unlock()

	fetched, err := s.feed.Window(ctx, s.userID, window)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen {
		return nil
	}

	s.loading = false
	if err != nil {
		s.lastErr = err
		return err
	}

	s.lastErr = nil
	s.items = s.mergeLocked(fetched)
	s.hasMore = len(fetched) == window
	return nil
}

// mergeLocked enforces the one-way Unread -> Read transition against the
// fetched rows. Call with mu held.
func (s *Session) mergeLocked(fetched []Notification) []Notification {
	out := make([]Notification, len(fetched))
	for i, item := range fetched {
		if _, read := s.readIDs[item.ID]; read {
			item.Read = true
		} else if item.Read {
			s.readIDs[item.ID] = struct{}{}
		}
		out[i] = item
	}
	return out
}

// LoadMore appends the next page to the window.
func (s *Session) LoadMore(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	gen := s.gen
	page := s.pages
	s.mu.Unlock()

	fetched, err := s.feed.Page(ctx, s.userID, page)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen {
		return nil
	}

	existing := make(map[string]struct{}, len(s.items))
	for _, item := range s.items {
		existing[item.ID] = struct{}{}
	}
	for _, item := range s.mergeLocked(fetched) {
		if _, ok := existing[item.ID]; ok {
			continue
		}
		s.items = append(s.items, item)
	}

	s.pages++
	s.hasMore = len(fetched) == s.feed.PageSize()
	return nil
}

// MarkRead flips the local copy immediately and rolls it back if the write
// is rejected, surfacing the MutationError; the state never silently
// diverges from the store.
func (s *Session) MarkRead(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}

	if _, read := s.readIDs[id]; read {
		s.mu.Unlock()
		return nil // already read; marking again is a no-op success
	}

	m := beginMutation(
		func() {
			s.setReadLocked(id, true)
			s.readIDs[id] = struct{}{}
		},
		func() {
			s.setReadLocked(id, false)
			delete(s.readIDs, id)
		},
	)
	s.mu.Unlock()

	if err := s.feed.MarkRead(ctx, s.userID, id); err != nil {
		s.mu.Lock()
		m.rollback()
		s.lastErr = err
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	m.commit()
	s.mu.Unlock()

	s.trigger()
	return nil
}

// MarkAllRead applies the flip to every loaded item optimistically and
// restores the exact prior unread set on failure.
func (s *Session) MarkAllRead(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}

	var wasUnread []string
	for _, item := range s.items {
		if !item.Read {
			wasUnread = append(wasUnread, item.ID)
		}
	}

	m := beginMutation(
		func() {
			for _, id := range wasUnread {
				s.setReadLocked(id, true)
				s.readIDs[id] = struct{}{}
			}
		},
		func() {
			for _, id := range wasUnread {
				s.setReadLocked(id, false)
				delete(s.readIDs, id)
			}
		},
	)
	s.mu.Unlock()

	if err := s.feed.MarkAllRead(ctx, s.userID); err != nil {
		s.mu.Lock()
		m.rollback()
		s.lastErr = err
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	m.commit()
	s.mu.Unlock()

	s.trigger()
	return nil
}

// setReadLocked looks the item up by id at call time; the slice may have
// been replaced since the mutation began. Call with mu held.
func (s *Session) setReadLocked(id string, read bool) {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Read = read
			return
		}
	}
}

// Snapshot returns a copy of the current window, newest first.
func (s *Session) Snapshot() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Notification, len(s.items))
	copy(out, s.items)
	return out
}

// UnreadCount counts unread notifications in the loaded window.
func (s *Session) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, item := range s.items {
		if !item.Read {
			count++
		}
	}
	return count
}

func (s *Session) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Session) LastErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Close stops the poller and the subscription; in-flight fetches are
// discarded rather than applied to torn-down state.
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
