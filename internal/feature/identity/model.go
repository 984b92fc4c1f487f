package identity

import (
	"time"

	"gorm.io/gorm"
)

// IdentityModel 认证主体（登录凭据），与会员档案一对一
type IdentityModel struct {
	ID           string `gorm:"primaryKey;type:varchar(36)"`
	Email        string `gorm:"uniqueIndex;size:191;not null"`
	FullName     string `gorm:"size:128"`
	PasswordHash string `gorm:"size:100;not null"`
	Role         string `gorm:"size:16;not null;default:member"`
	Verified     bool   `gorm:"not null;default:false"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (IdentityModel) TableName() string { return "identities" }
