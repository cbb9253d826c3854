package dbmysql

import (
	"prolink/internal/common"
	"time"
)

type Notification struct { //Notification struct containing all the attributes for the notifications table
	ID        string                  `gorm:"primaryKey;size:36"`
	UserID    string                  `gorm:"not null;index;size:36"`
	Type      common.NotificationType `gorm:"not null;size:50"`
	Content   string                  `gorm:"not null;type:text"`
	Link      *string                 `gorm:"size:512"`
	Read      bool                    `gorm:"index;default:false"`
	CreatedAt time.Time               `gorm:"autoCreateTime"`
	UpdatedAt time.Time               `gorm:"autoUpdateTime"`
}
