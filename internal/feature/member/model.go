package member

import (
	"time"

	"gorm.io/gorm"
)

type MemberModel struct {
	ID               string `gorm:"primaryKey;type:varchar(36)"`
	IdentityID       string `gorm:"uniqueIndex;size:36;not null"`
	Email            string `gorm:"uniqueIndex;size:191;not null"`
	FullName         string `gorm:"size:128;not null"`
	CNIC             string `gorm:"size:32"`
	Gender           string `gorm:"size:16"`
	Phone            string `gorm:"size:32"`
	Address          string `gorm:"size:255"`
	City             string `gorm:"size:64"`
	Role             string `gorm:"size:16;not null;default:member"`
	MembershipType   string `gorm:"size:32;not null;default:Full Member"`
	MembershipStatus string `gorm:"size:16;not null;default:pending"`
	SubscriptionFrom *time.Time
	SubscriptionTo   *time.Time

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (MemberModel) TableName() string { return "members" }
