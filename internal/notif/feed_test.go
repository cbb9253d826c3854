package notif

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"prolink/internal/common"
	"prolink/internal/dbmysql"
	"prolink/internal/dbmysql/mocks"
)

func TestFeed_PageOffsets(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockNotificationRepository(ctrl)
	feed := NewFeed(mockRepo, nil, 10, zerolog.Nop())

	createdAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		page       int
		wantOffset int
	}{
		{name: "first page", page: 0, wantOffset: 0},
		{name: "third page", page: 2, wantOffset: 20},
		{name: "negative page clamps to first", page: -3, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.EXPECT().
				ByUserID(gomock.Any(), "user-a", 10, tt.wantOffset).
				Return([]*dbmysql.Notification{
					{
						ID:        "n-1",
						UserID:    "user-a",
						Type:      common.PostLikeType,
						Content:   "Ada liked your post",
						CreatedAt: createdAt,
					},
				}, nil)

			items, err := feed.Page(context.Background(), "user-a", tt.page)
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, "n-1", items[0].ID)
			assert.Equal(t, common.PostLikeType, items[0].Type)
			assert.False(t, items[0].Read)
		})
	}
}

func TestFeed_UnknownTypeNormalizesToOther(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockNotificationRepository(ctrl)
	feed := NewFeed(mockRepo, nil, 10, zerolog.Nop())

	mockRepo.EXPECT().
		ByUserID(gomock.Any(), "user-a", 10, 0).
		Return([]*dbmysql.Notification{
			{ID: "n-1", UserID: "user-a", Type: "endorsement_v2", Content: "x"},
		}, nil)

	items, err := feed.Page(context.Background(), "user-a", 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, common.OtherType, items[0].Type)
}

func TestFeed_PageFetchError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockNotificationRepository(ctrl)
	feed := NewFeed(mockRepo, nil, 10, zerolog.Nop())

	mockRepo.EXPECT().
		ByUserID(gomock.Any(), "user-a", 10, 0).
		Return(nil, errors.New("connection refused"))

	items, err := feed.Page(context.Background(), "user-a", 0)
	assert.Nil(t, items)
	assert.True(t, common.IsFetchError(err))
}

func TestFeed_MarkReadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockNotificationRepository(ctrl)
	feed := NewFeed(mockRepo, nil, 10, zerolog.Nop())

	mockRepo.EXPECT().
		MarkRead(gomock.Any(), "n-1").
		Return(errors.New("write rejected"))

	err := feed.MarkRead(context.Background(), "user-a", "n-1")
	assert.True(t, common.IsMutationError(err))
}

func TestFeed_WindowUsesSingleQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockNotificationRepository(ctrl)
	feed := NewFeed(mockRepo, nil, 10, zerolog.Nop())

	mockRepo.EXPECT().
		ByUserID(gomock.Any(), "user-a", 30, 0).
		Return([]*dbmysql.Notification{}, nil)

	items, err := feed.Window(context.Background(), "user-a", 30)
	require.NoError(t, err)
	assert.Empty(t, items)
}
