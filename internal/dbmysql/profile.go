package dbmysql

import (
	"time"
)

// Profile carries only the display fields the conversation view needs.
// Full profile CRUD lives in the profile service.
type Profile struct {
	ID        string  `gorm:"primaryKey;size:36"`
	Name      string  `gorm:"not null;size:255"`
	Headline  string  `gorm:"size:255"`
	AvatarURL *string `gorm:"size:512"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
