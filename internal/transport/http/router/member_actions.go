package router

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"membership-hub/internal/domain"
	"membership-hub/internal/feature/audit"
	"membership-hub/internal/feature/member"
	"membership-hub/internal/importer"
	"membership-hub/internal/repo"
	httpez "membership-hub/internal/transport/http/ez"
)

var importRows = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "member_import_rows_total", Help: "Imported spreadsheet rows by outcome"},
	[]string{"outcome"},
)

func init() { prometheus.MustRegister(importRows) }

// 把管理端接口集中在这里注册
func MountMemberActions(admin *gin.RouterGroup, db *gorm.DB, l *zap.Logger, subscriptionMonths int) {
	if subscriptionMonths <= 0 {
		subscriptionMonths = 12
	}
	auditRepo := repo.NewAuditRepo(db)

	ez := httpez.New(admin)

	// --- GET /admin/v1/members  会员列表 ---
	type listQ struct {
		Offset      int    `form:"offset,default=0"`
		Limit       int    `form:"limit,default=20"`
		Q           string `form:"q"`      // 按 email/姓名/CNIC 模糊搜
		Status      string `form:"status"` // pending/active/rejected/expired
		WithDeleted bool   `form:"with_deleted"`
	}
	type row struct {
		ID               string `json:"id"`
		Email            string `json:"email"`
		FullName         string `json:"fullName"`
		MembershipType   string `json:"membershipType"`
		MembershipStatus string `json:"membershipStatus"`
	}
	type listOut struct {
		Total int64 `json:"total"`
		Items []row `json:"items"`
	}

	httpez.RegisterAction[listQ, listOut](ez, db, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/members",
		Binder: httpez.BindQuery,
		Auth:   false, // 分组已走 AuthJWT("admin")
		Handler: func(c *gin.Context, tx *gorm.DB, in *listQ) (listOut, error) {
			if in.Limit <= 0 || in.Limit > 100 {
				in.Limit = 20
			}
			q := tx.WithContext(c).Model(&member.MemberModel{})
			if in.WithDeleted {
				q = q.Unscoped()
			}
			if s := strings.TrimSpace(in.Status); s != "" {
				q = q.Where("membership_status = ?", s)
			}
			if s := strings.TrimSpace(in.Q); s != "" {
				like := "%" + s + "%"
				q = q.Where("email LIKE ? OR full_name LIKE ? OR cnic LIKE ?", like, like, like)
			}

			var total int64
			if err := q.Count(&total).Error; err != nil {
				return listOut{}, httpez.Internal("count members failed", err)
			}

			var ms []member.MemberModel
			if err := q.Order("created_at DESC").Limit(in.Limit).Offset(in.Offset).Find(&ms).Error; err != nil {
				return listOut{}, httpez.Internal("list members failed", err)
			}

			out := listOut{Total: total, Items: make([]row, 0, len(ms))}
			for _, m := range ms {
				out.Items = append(out.Items, row{
					ID: m.ID, Email: m.Email, FullName: m.FullName,
					MembershipType: m.MembershipType, MembershipStatus: m.MembershipStatus,
				})
			}
			return out, nil
		},
	})

	// --- POST /admin/v1/members/:id/approve | /reject  审核流转 ---
	decide := func(action, nextStatus string) func(c *gin.Context, tx *gorm.DB, _ *struct{}) (gin.H, error) {
		return func(c *gin.Context, tx *gorm.DB, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if id == "" {
				return nil, httpez.BadRequest("missing id")
			}
			var m member.MemberModel
			if err := tx.WithContext(c).First(&m, "id = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, httpez.NotFound("member not found")
				}
				return nil, httpez.Internal("db error", err)
			}
			// 只有待审状态可以流转
			if m.MembershipStatus != domain.StatusPending {
				return nil, httpez.BadRequest("member is not pending")
			}
			m.MembershipStatus = nextStatus
			if nextStatus == domain.StatusActive {
				now := time.Now()
				to := now.AddDate(0, subscriptionMonths, 0)
				m.SubscriptionFrom, m.SubscriptionTo = &now, &to
			}
			if err := tx.WithContext(c).Save(&m).Error; err != nil {
				return nil, httpez.Internal("update member failed", err)
			}
			// 审计行走同一事务：写不进去就整单回滚，不留无痕迹的状态流转
			if err := repo.NewAuditRepo(tx).Record(c, c.GetString("userId"), action, m.ID, "status -> "+nextStatus); err != nil {
				return nil, httpez.Internal("audit write failed", err)
			}
			return gin.H{"id": m.ID, "membershipStatus": m.MembershipStatus}, nil
		}
	}
	httpez.RegisterAction[struct{}, gin.H](ez, db, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost, Path: "/members/:id/approve", Binder: httpez.BindNone,
		UseTx: true, Handler: decide(audit.ActionApprove, domain.StatusActive),
	})
	httpez.RegisterAction[struct{}, gin.H](ez, db, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost, Path: "/members/:id/reject", Binder: httpez.BindNone,
		UseTx: true, Handler: decide(audit.ActionReject, domain.StatusRejected),
	})

	// --- POST /admin/v1/members/:id/ban  封禁（软删） ---
	httpez.RegisterAction[struct{}, gin.H](ez, db, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/members/:id/ban",
		Binder: httpez.BindNone,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if id == "" {
				return nil, httpez.BadRequest("missing id")
			}
			res := tx.WithContext(c).Where("id = ?", id).Delete(&member.MemberModel{})
			if res.Error != nil {
				return nil, httpez.Internal("ban member failed", res.Error)
			}
			if res.RowsAffected == 0 {
				return nil, httpez.NotFound("member not found")
			}
			if err := repo.NewAuditRepo(tx).Record(c, c.GetString("userId"), audit.ActionBan, id, ""); err != nil {
				return nil, httpez.Internal("audit write failed", err)
			}
			return gin.H{"id": id, "banned": true}, nil
		},
	})

	// --- POST /admin/v1/import  批量导入（xlsx 上传） ---
	// 注意：不能挂在 /members/import，会和 /members/:id 的通配段冲突
	identities := repo.NewIdentityStore(db)
	profiles := repo.NewProfileStore(db)
	httpez.POSTFILES(ez, "/import", "file", func(c *gin.Context, files []*multipart.FileHeader) (any, error) {
		fh := files[0]
		f, err := fh.Open()
		if err != nil {
			return nil, httpez.BadRequest("open upload: " + err.Error())
		}
		defer f.Close()

		rows, err := importer.ParseSheet(f)
		if err != nil {
			// 整单失败只有两种：没文件 / 空表；行级问题都折进 Result
			return nil, httpez.BadRequest(err.Error())
		}

		result, err := importer.New(identities, profiles, l).Run(c.Request.Context(), rows)
		if err != nil {
			return nil, httpez.Internal("import failed", err)
		}

		importRows.WithLabelValues("success").Add(float64(result.Success))
		importRows.WithLabelValues("failed").Add(float64(result.Failed))
		importRows.WithLabelValues("skipped").Add(float64(result.Skipped))

		// 导入本身已逐行落库，审计行写失败只告警不撤单
		if err := auditRepo.Record(c, c.GetString("userId"), audit.ActionImport, fh.Filename,
			fmt.Sprintf("success=%d failed=%d skipped=%d total=%d",
				result.Success, result.Failed, result.Skipped, result.Total)); err != nil {
			l.Warn("audit write failed", zap.String("action", audit.ActionImport), zap.Error(err))
		}

		return result, nil
	})

	// --- /admin/v1/audit-logs  操作流水（只读，按操作者隔离） ---
	httpez.Crud(httpez.CrudConfig[audit.AuditLogModel]{
		DB:         db,
		Group:      admin,
		Path:       "/audit-logs",
		AllowList:  true,
		AllowGet:   true,
		OwnerField: "ActorID",
		OrderBy:    "created_at DESC",
		Hooks: httpez.CrudHooks[audit.AuditLogModel]{
			ScopeList: func(c *gin.Context, q *gorm.DB) *gorm.DB {
				if a := strings.TrimSpace(c.Query("action")); a != "" {
					q = q.Where("action = ?", a)
				}
				return q
			},
		},
	})
}
