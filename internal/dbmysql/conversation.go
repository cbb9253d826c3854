package dbmysql

import (
	"time"
)

type Conversation struct {
	ID        string `gorm:"primaryKey;size:36"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ConversationParticipant is the many-to-many membership row between
// conversations and profiles.
type ConversationParticipant struct {
	ConversationID string `gorm:"primaryKey;size:36;index"`
	ProfileID      string `gorm:"primaryKey;size:36;index"`
	JoinedAt       time.Time
}
