package notif

import (
	"context"

	"github.com/rs/zerolog"

	"prolink/internal/cdc"
	"prolink/internal/common"
	"prolink/internal/dbmysql"
)

// Feed reads and mutates a user's notification log. Pagination is
// offset/limit based, newest first; the feed is read-heavy and bounded in
// practice, so no cursor machinery is warranted.
type Feed struct {
	repo      dbmysql.NotificationRepository
	publisher *cdc.Publisher
	pageSize  int
	log       zerolog.Logger
}

func NewFeed(
	repo dbmysql.NotificationRepository,
	publisher *cdc.Publisher,
	pageSize int,
	log zerolog.Logger,
) *Feed {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Feed{
		repo:      repo,
		publisher: publisher,
		pageSize:  pageSize,
		log:       log.With().Str("component", "notification_feed").Logger(),
	}
}

func (f *Feed) PageSize() int {
	return f.pageSize
}

// Page fetches one page of notifications, newest first. Page numbers start
// at zero; an out-of-range page returns an empty slice, not an error.
func (f *Feed) Page(ctx context.Context, userID string, page int) ([]Notification, error) {
	if page < 0 {
		page = 0
	}

	rows, err := f.repo.ByUserID(ctx, userID, f.pageSize, page*f.pageSize)
	if err != nil {
		return nil, common.NewFetchError("notification page", err)
	}

	out := make([]Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromModel(row))
	}
	return out, nil
}

// Window fetches the newest n notifications in one query. Sessions use it to
// re-fetch everything their loaded pages cover in a single pass.
func (f *Feed) Window(ctx context.Context, userID string, n int) ([]Notification, error) {
	if n <= 0 {
		n = f.pageSize
	}

	rows, err := f.repo.ByUserID(ctx, userID, n, 0)
	if err != nil {
		return nil, common.NewFetchError("notification window", err)
	}

	out := make([]Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromModel(row))
	}
	return out, nil
}

func (f *Feed) MarkRead(ctx context.Context, userID, id string) error {
	if err := f.repo.MarkRead(ctx, id); err != nil {
		return common.NewMutationError("mark notification read", id, err)
	}

	f.publish(ctx, userID, id)
	return nil
}

func (f *Feed) MarkAllRead(ctx context.Context, userID string) error {
	if err := f.repo.MarkAllRead(ctx, userID); err != nil {
		return common.NewMutationError("mark all notifications read", userID, err)
	}

	f.publish(ctx, userID, "")
	return nil
}

func (f *Feed) UnreadCount(ctx context.Context, userID string) (int, error) {
	count, err := f.repo.UnreadCount(ctx, userID)
	if err != nil {
		return 0, common.NewFetchError("notification unread count", err)
	}
	return int(count), nil
}

func (f *Feed) publish(ctx context.Context, userID, rowID string) {
	if f.publisher == nil {
		return
	}
	f.publisher.Publish(ctx, cdc.NotificationsKey(userID), cdc.Event{
		Table: cdc.TableNotifications,
		RowID: rowID,
		Kind:  "update",
	})
}
