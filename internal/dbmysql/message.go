package dbmysql

import (
	"time"
)

type Message struct {
	ID             string `gorm:"primaryKey;size:36"`
	ConversationID string `gorm:"index;size:36"`
	SenderID       string `gorm:"index;size:36"`
	Content        string `gorm:"type:text"`
	Seen           bool   `gorm:"index;default:false"`
	CreatedAt      time.Time
}
