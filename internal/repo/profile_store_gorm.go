package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"membership-hub/internal/feature/member"
	"membership-hub/internal/importer"
)

// ProfileStore 会员档案持久化 + 去重索引灌入来源
type ProfileStore struct{ db *gorm.DB }

func NewProfileStore(db *gorm.DB) *ProfileStore { return &ProfileStore{db: db} }

func (s *ProfileStore) SaveProfile(ctx context.Context, p importer.Profile) error {
	from, to := p.SubscriptionFrom, p.SubscriptionTo
	m := member.MemberModel{
		ID:               uuid.NewString(),
		IdentityID:       p.IdentityID,
		Email:            p.Email,
		FullName:         p.FullName,
		CNIC:             p.CNIC,
		Gender:           p.Gender,
		Phone:            p.Phone,
		Address:          p.Address,
		City:             p.City,
		Role:             p.Role,
		MembershipType:   p.MembershipType,
		MembershipStatus: p.MembershipStatus,
		SubscriptionFrom: &from,
		SubscriptionTo:   &to,
		CreatedAt:        p.CreatedAt,
	}
	return s.db.WithContext(ctx).Create(&m).Error
}

// ListEmails 一次整批读出全部已注册邮箱。导入开始时灌索引用，
// 运行中绝不逐行回查
func (s *ProfileStore) ListEmails(ctx context.Context) ([]string, error) {
	var emails []string
	err := s.db.WithContext(ctx).Model(&member.MemberModel{}).Pluck("email", &emails).Error
	if err != nil {
		return nil, err
	}
	return emails, nil
}
