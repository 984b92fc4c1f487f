package repo

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"membership-hub/internal/domain"
)

type MemberRepo struct{ db *gorm.DB }

func NewMemberRepo(db *gorm.DB) *MemberRepo { return &MemberRepo{db: db} }

func (r *MemberRepo) Create(m *domain.Member) error { return r.db.Create(m).Error }

func (r *MemberRepo) FindByID(id string) (*domain.Member, error) {
	var m domain.Member
	err := r.db.First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &m, err
}

func (r *MemberRepo) FindByEmail(email string) (*domain.Member, error) {
	var m domain.Member
	err := r.db.First(&m, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &m, err
}

func (r *MemberRepo) List(offset, limit int) ([]domain.Member, int64, error) {
	var members []domain.Member
	tx := r.db.Model(&domain.Member{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := tx.Offset(offset).Limit(limit).Order("created_at desc").Find(&members).Error; err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

func (r *MemberRepo) Update(m *domain.Member) error { return r.db.Save(m).Error }

func (r *MemberRepo) SoftDelete(id string) error {
	return r.db.Where("id = ?", id).Delete(&domain.Member{}).Error
}

// ExpireLapsed 把会籍到期的 active 会员批量置为 expired，返回影响行数
func (r *MemberRepo) ExpireLapsed(now time.Time) (int64, error) {
	res := r.db.Model(&domain.Member{}).
		Where("membership_status = ? AND subscription_to IS NOT NULL AND subscription_to < ?",
			domain.StatusActive, now).
		Update("membership_status", domain.StatusExpired)
	return res.RowsAffected, res.Error
}
