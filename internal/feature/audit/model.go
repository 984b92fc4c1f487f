package audit

import "time"

// 审计动作
const (
	ActionApprove = "member.approve"
	ActionReject  = "member.reject"
	ActionBan     = "member.ban"
	ActionImport  = "member.import"
)

type AuditLogModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	ActorID   string    `gorm:"size:36;index"`
	Action    string    `gorm:"size:48;index;not null"`
	Subject   string    `gorm:"size:191"` // 被操作对象：member id / 导入文件名
	Detail    string    `gorm:"size:1024"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (AuditLogModel) TableName() string { return "audit_logs" }
