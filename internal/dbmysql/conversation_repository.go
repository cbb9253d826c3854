package dbmysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// ParticipantProfileRow is the batched conversation-to-profile projection
// used by the conversation aggregator.
type ParticipantProfileRow struct {
	ConversationID string
	ProfileID      string
	Name           string
	Headline       string
	AvatarURL      *string
}

type ConversationRepository interface {
	ConversationIDs(ctx context.Context, profileID string) ([]string, error)
	ParticipantProfiles(ctx context.Context, conversationIDs []string) ([]ParticipantProfileRow, error)
	LatestMessage(ctx context.Context, conversationID string) (*Message, error)
	UnreadCount(ctx context.Context, conversationID, viewerID string) (int64, error)
	MarkMessageSeen(ctx context.Context, messageID string) error
}

type conversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{
		db: db,
	}
}

func (r *conversationRepository) ConversationIDs(ctx context.Context, profileID string) ([]string, error) {
	var ids []string

	err := r.db.WithContext(ctx).
		Model(&ConversationParticipant{}).
		Where("profile_id = ?", profileID).
		Order("conversation_id ASC").
		Pluck("conversation_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list conversation ids: %w", err)
	}

	return ids, nil
}

func (r *conversationRepository) ParticipantProfiles(
	ctx context.Context,
	conversationIDs []string,
) ([]ParticipantProfileRow, error) {
	var rows []ParticipantProfileRow

	if len(conversationIDs) == 0 {
		return rows, nil
	}

	err := r.db.WithContext(ctx).
		Table("conversation_participants").
		Select("conversation_participants.conversation_id, profiles.id AS profile_id, profiles.name, profiles.headline, profiles.avatar_url").
		Joins("JOIN profiles ON profiles.id = conversation_participants.profile_id").
		Where("conversation_participants.conversation_id IN ?", conversationIDs).
		Order("conversation_participants.conversation_id ASC, profiles.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch participant profiles: %w", err)
	}

	return rows, nil
}

// LatestMessage returns the most recent message of a conversation, or nil
// when the conversation has no messages. Absence is not an error.
func (r *conversationRepository) LatestMessage(ctx context.Context, conversationID string) (*Message, error) {
	var messages []*Message

	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(1).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest message: %w", err)
	}

	if len(messages) == 0 {
		return nil, nil
	}
	return messages[0], nil
}

func (r *conversationRepository) UnreadCount(ctx context.Context, conversationID, viewerID string) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&Message{}).
		Where("conversation_id = ? AND seen = ? AND sender_id <> ?", conversationID, false, viewerID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}

	return count, nil
}

// MarkMessageSeen is idempotent: marking an already-seen message is a no-op
// success (zero rows affected).
func (r *conversationRepository) MarkMessageSeen(ctx context.Context, messageID string) error {
	result := r.db.WithContext(ctx).
		Model(&Message{}).
		Where("id = ? AND seen = ?", messageID, false).
		Update("seen", true)

	if result.Error != nil {
		return fmt.Errorf("failed to mark message seen: %w", result.Error)
	}

	return nil
}
