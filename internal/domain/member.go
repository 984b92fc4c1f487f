package domain

import (
	"time"

	"gorm.io/gorm"
)

// 会员状态流转：pending -> active/rejected；active 到期 -> expired
const (
	StatusPending  = "pending"
	StatusActive   = "active"
	StatusRejected = "rejected"
	StatusExpired  = "expired"
)

const (
	TypeFull      = "Full Member"
	TypeAssociate = "Associate Member"
	TypeStudent   = "Student Member"
	TypeLife      = "Life Member"
)

type Member struct {
	ID               string     `gorm:"primaryKey;size:36" json:"id"`
	Email            string     `gorm:"uniqueIndex;size:191" json:"email"`
	FullName         string     `gorm:"size:128" json:"fullName"`
	CNIC             string     `gorm:"size:32" json:"cnic"`
	Gender           string     `gorm:"size:16" json:"gender"`
	Phone            string     `gorm:"size:32" json:"phone"`
	Address          string     `gorm:"size:255" json:"address"`
	City             string     `gorm:"size:64" json:"city"`
	Role             string     `gorm:"size:16" json:"role"` // "member"/"student"/"admin"
	MembershipType   string     `gorm:"size:32" json:"membershipType"`
	MembershipStatus string     `gorm:"size:16" json:"membershipStatus"`
	SubscriptionFrom *time.Time `json:"subscriptionFrom"`
	SubscriptionTo   *time.Time `json:"subscriptionTo"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

type MemberRepository interface {
	Create(m *Member) error
	FindByID(id string) (*Member, error)
	FindByEmail(email string) (*Member, error)
	List(offset, limit int) ([]Member, int64, error)
	Update(m *Member) error
	SoftDelete(id string) error
	ExpireLapsed(now time.Time) (int64, error)
}
