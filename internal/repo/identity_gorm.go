package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"membership-hub/internal/feature/identity"
	"membership-hub/internal/importer"
	"membership-hub/pkg/utils"
)

// IdentityStore 给导入编排器用的身份提供方实现
type IdentityStore struct{ db *gorm.DB }

func NewIdentityStore(db *gorm.DB) *IdentityStore { return &IdentityStore{db: db} }

// CreateIdentity 唯一键冲突统一翻译成 importer.ErrAlreadyRegistered，
// 编排器不用关心驱动层的报错措辞
func (s *IdentityStore) CreateIdentity(ctx context.Context, email, credential, fullName string) (string, error) {
	m := identity.IdentityModel{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: utils.HashPassword(credential),
		Role:         "member",
		Verified:     true, // 管理员导入的身份视为已验证
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isDupKey(err) {
			return "", importer.ErrAlreadyRegistered
		}
		return "", err
	}
	return m.ID, nil
}

// DeleteIdentity 补偿删除用硬删，别留软删尸体占住唯一索引
func (s *IdentityStore) DeleteIdentity(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&identity.IdentityModel{}).Error
}

func isDupKey(err error) bool {
	// 不依赖 gorm.ErrDuplicatedKey，避免版本差异导致"undefined"
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
