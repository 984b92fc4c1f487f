package repo

import (
	"context"

	"gorm.io/gorm"

	"membership-hub/internal/feature/audit"
	"membership-hub/pkg/utils"
)

// AuditRepo 追加式审计流水，只写不改
type AuditRepo struct{ db *gorm.DB }

func NewAuditRepo(db *gorm.DB) *AuditRepo { return &AuditRepo{db: db} }

func (r *AuditRepo) Record(ctx context.Context, actorID, action, subject, detail string) error {
	return r.db.WithContext(ctx).Create(&audit.AuditLogModel{
		ID:      utils.NewID(),
		ActorID: actorID,
		Action:  action,
		Subject: subject,
		Detail:  detail,
	}).Error
}
