package chat

import (
	"sort"
	"time"
)

// ParticipantRef is the lightweight profile projection shown in a
// conversation row. The viewing user is never included.
type ParticipantRef struct {
	ProfileID string  `json:"profile_id"`
	Name      string  `json:"name"`
	Headline  string  `json:"headline,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

type MessagePreview struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	Seen      bool      `json:"seen"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationSummary is derived, never persisted, and always replaced
// wholesale by an aggregation pass so its fields stay consistent together.
type ConversationSummary struct {
	ID           string           `json:"id"`
	Participants []ParticipantRef `json:"participants"`
	LastMessage  *MessagePreview  `json:"last_message,omitempty"`
	UnreadCount  int              `json:"unread_count"`
}

// sortSummaries orders by last message time descending, conversations without
// messages last, ties broken by conversation id ascending.
func sortSummaries(summaries []ConversationSummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		switch {
		case a.LastMessage == nil && b.LastMessage == nil:
			return a.ID < b.ID
		case a.LastMessage == nil:
			return false
		case b.LastMessage == nil:
			return true
		case a.LastMessage.CreatedAt.Equal(b.LastMessage.CreatedAt):
			return a.ID < b.ID
		default:
			return a.LastMessage.CreatedAt.After(b.LastMessage.CreatedAt)
		}
	})
}
