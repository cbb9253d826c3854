package chat

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

const viewerID = "user-viewer"

func TestAggregator_Ordering(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockConversationRepository(ctrl)
	agg := NewAggregator(mockRepo, zerolog.Nop())

	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	// C1 last message at t=10, C2 no messages, C3 last message at t=20.
	mockRepo.EXPECT().
		ConversationIDs(gomock.Any(), viewerID).
		Return([]string{"conv-1", "conv-2", "conv-3"}, nil)
	mockRepo.EXPECT().
		ParticipantProfiles(gomock.Any(), []string{"conv-1", "conv-2", "conv-3"}).
		Return([]dbmysql.ParticipantProfileRow{
			{ConversationID: "conv-1", ProfileID: "user-a", Name: "Ada"},
			{ConversationID: "conv-2", ProfileID: "user-b", Name: "Ben"},
			{ConversationID: "conv-3", ProfileID: "user-c", Name: "Cal"},
		}, nil)
	mockRepo.EXPECT().
		LatestMessage(gomock.Any(), "conv-1").
		Return(&dbmysql.Message{
			ID: "msg-1", ConversationID: "conv-1", SenderID: "user-a",
			Content: "old", CreatedAt: base.Add(10 * time.Second),
		}, nil)
	mockRepo.EXPECT().
		LatestMessage(gomock.Any(), "conv-2").
		Return(nil, nil)
	mockRepo.EXPECT().
		LatestMessage(gomock.Any(), "conv-3").
		Return(&dbmysql.Message{
			ID: "msg-3", ConversationID: "conv-3", SenderID: "user-c",
			Content: "new", CreatedAt: base.Add(20 * time.Second),
		}, nil)
	mockRepo.EXPECT().
		UnreadCount(gomock.Any(), "conv-1", viewerID).
		Return(int64(0), nil)
	mockRepo.EXPECT().
		UnreadCount(gomock.Any(), "conv-3", viewerID).
		Return(int64(2), nil)

	summaries, err := agg.Aggregate(context.Background(), viewerID, nil)
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	assert.Equal(t, "conv-3", summaries[0].ID)
	assert.Equal(t, "conv-1", summaries[1].ID)
	assert.Equal(t, "conv-2", summaries[2].ID)

	// Empty conversation: no last message, zero unread.
	assert.Nil(t, summaries[2].LastMessage)
	assert.Equal(t, 0, summaries[2].UnreadCount)

	assert.Equal(t, 2, summaries[0].UnreadCount)
	assert.Equal(t, "new", summaries[0].LastMessage.Content)
}

func TestAggregator_EmptyMembership(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockConversationRepository(ctrl)
	agg := NewAggregator(mockRepo, zerolog.Nop())

	mockRepo.EXPECT().
		ConversationIDs(gomock.Any(), viewerID).
		Return([]string{}, nil)

	summaries, err := agg.Aggregate(context.Background(), viewerID, nil)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestAggregator_MembershipFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockConversationRepository(ctrl)
	agg := NewAggregator(mockRepo, zerolog.Nop())

	mockRepo.EXPECT().
		ConversationIDs(gomock.Any(), viewerID).
		Return(nil, errors.New("connection refused"))

	summaries, err := agg.Aggregate(context.Background(), viewerID, nil)
	assert.Nil(t, summaries)
	assert.True(t, common.IsFetchError(err))
}

func TestAggregator_ViewerExcludedFromParticipants(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockConversationRepository(ctrl)
	agg := NewAggregator(mockRepo, zerolog.Nop())

	mockRepo.EXPECT().
		ConversationIDs(gomock.Any(), viewerID).
		Return([]string{"conv-1"}, nil)
	mockRepo.EXPECT().
		ParticipantProfiles(gomock.Any(), []string{"conv-1"}).
		Return([]dbmysql.ParticipantProfileRow{
			{ConversationID: "conv-1", ProfileID: viewerID, Name: "Me"},
			{ConversationID: "conv-1", ProfileID: "user-a", Name: "Ada"},
		}, nil)
	mockRepo.EXPECT().
		LatestMessage(gomock.Any(), "conv-1").
		Return(nil, nil)

	summaries, err := agg.Aggregate(context.Background(), viewerID, nil)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Len(t, summaries[0].Participants, 1)
	assert.Equal(t, "user-a", summaries[0].Participants[0].ProfileID)
}

func TestAggregator_PartialFailureFallsBackToPrevious(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockConversationRepository(ctrl)
	agg := NewAggregator(mockRepo, zerolog.Nop())

	mockRepo.EXPECT().
		ConversationIDs(gomock.Any(), viewerID).
		Return([]string{"conv-bad", "conv-good"}, nil)
	mockRepo.EXPECT().
		ParticipantProfiles(gomock.Any(), gomock.Any()).
		Return(nil, nil)
	mockRepo.EXPECT().
		LatestMessage(gomock.Any(), "conv-bad").
		Return(nil, errors.New("timeout"))
	mockRepo.EXPECT().
		LatestMessage(gomock.Any(), "conv-good").
		Return(nil, nil)

	previous := map[string]ConversationSummary{
		"conv-bad": {ID: "conv-bad", UnreadCount: 3},
	}

	summaries, err := agg.Aggregate(context.Background(), viewerID, previous)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byID := map[string]ConversationSummary{}
	for _, s := range summaries {
		byID[s.ID] = s
	}
	assert.Equal(t, 3, byID["conv-bad"].UnreadCount, "stale summary should survive the failed sub-fetch")
	assert.Equal(t, 0, byID["conv-good"].UnreadCount)
}

func TestAggregator_PartialFailureOmitsWithoutPrevious(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockConversationRepository(ctrl)
	agg := NewAggregator(mockRepo, zerolog.Nop())

	mockRepo.EXPECT().
		ConversationIDs(gomock.Any(), viewerID).
		Return([]string{"conv-bad"}, nil)
	mockRepo.EXPECT().
		ParticipantProfiles(gomock.Any(), gomock.Any()).
		Return(nil, nil)
	mockRepo.EXPECT().
		LatestMessage(gomock.Any(), "conv-bad").
		Return(nil, errors.New("timeout"))

	summaries, err := agg.Aggregate(context.Background(), viewerID, nil)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestAggregator_Idempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockConversationRepository(ctrl)
	agg := NewAggregator(mockRepo, zerolog.Nop())

	createdAt := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	mockRepo.EXPECT().
		ConversationIDs(gomock.Any(), viewerID).
		Return([]string{"conv-1"}, nil).
		Times(2)
	mockRepo.EXPECT().
		ParticipantProfiles(gomock.Any(), []string{"conv-1"}).
		Return([]dbmysql.ParticipantProfileRow{
			{ConversationID: "conv-1", ProfileID: "user-a", Name: "Ada"},
		}, nil).
		Times(2)
	mockRepo.EXPECT().
		LatestMessage(gomock.Any(), "conv-1").
		Return(&dbmysql.Message{
			ID: "msg-1", ConversationID: "conv-1", SenderID: "user-a",
			Content: "hi", CreatedAt: createdAt,
		}, nil).
		Times(2)
	mockRepo.EXPECT().
		UnreadCount(gomock.Any(), "conv-1", viewerID).
		Return(int64(1), nil).
		Times(2)

	first, err := agg.Aggregate(context.Background(), viewerID, nil)
	require.NoError(t, err)
	second, err := agg.Aggregate(context.Background(), viewerID, nil)
	require.NoError(t, err)

	// Back-to-back passes with no intervening writes yield identical views.
	assert.Equal(t, first, second)
}
