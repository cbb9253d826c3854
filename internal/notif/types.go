package notif

import (
	"time"

	"prolink/internal/common"
	"prolink/internal/dbmysql"
)

// Notification is the view-model projection of a notifications row.
type Notification struct {
	ID        string                  `json:"id"`
	UserID    string                  `json:"user_id"`
	Type      common.NotificationType `json:"type"`
	Content   string                  `json:"content"`
	Link      *string                 `json:"link,omitempty"`
	Read      bool                    `json:"read"`
	CreatedAt time.Time               `json:"created_at"`
}

func fromModel(n *dbmysql.Notification) Notification {
	return Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      common.NormalizeNotificationType(string(n.Type)),
		Content:   n.Content,
		Link:      n.Link,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}
