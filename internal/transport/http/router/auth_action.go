package router

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"membership-hub/internal/core/auth"
	"membership-hub/internal/domain"
	"membership-hub/internal/feature/identity"
	"membership-hub/internal/feature/member"
	httpez "membership-hub/internal/transport/http/ez"
	"membership-hub/pkg/utils"
)

// ---------- 动作注册：/auth/login + /me + /applications ----------

func mountAuthActions(api, authUser *gin.RouterGroup, db *gorm.DB, jwter *auth.JWTer) {
	// 公共分组（无需登录）
	ezPublic := httpez.New(api)

	// /auth/login：查不到就自动注册 + 发 JWT
	type loginIn struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required"`
		FullName string `json:"fullName" binding:"omitempty,max=128"` // 首次注册可用
	}
	type loginOut struct {
		Token string      `json:"token"`
		IsNew bool        `json:"isNew"`
		User  interface{} `json:"user"`
	}
	httpez.RegisterAction[loginIn, loginOut](ezPublic, db, httpez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Auth:   false,
		Handler: func(c *gin.Context, tx *gorm.DB, in *loginIn) (loginOut, error) {
			email := strings.ToLower(strings.TrimSpace(in.Email))
			name := strings.TrimSpace(in.FullName)

			var ident identity.IdentityModel
			err := tx.Where("email = ?", email).First(&ident).Error

			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				// 自动注册
				if name == "" {
					if at := strings.IndexByte(email, '@'); at > 0 {
						name = email[:at]
					} else {
						name = "member"
					}
				}
				ident = identity.IdentityModel{
					ID:           utils.NewID(),
					Email:        email,
					FullName:     name,
					PasswordHash: utils.HashPassword(in.Password),
					Role:         "member",
				}
				if e := tx.Create(&ident).Error; e != nil {
					// 并发兜底：唯一冲突 → 再查一次
					if isDupKeyErr(e) {
						if e2 := tx.Where("email = ?", email).First(&ident).Error; e2 != nil {
							return loginOut{}, httpez.Internal("login failed", e2)
						}
					} else {
						return loginOut{}, httpez.BadRequest(e.Error())
					}
				}
				tok, e := jwter.Issue(ident.ID, ident.Role)
				if e != nil || tok == "" {
					return loginOut{}, httpez.Internal("issue token failed", e)
				}
				return loginOut{
					Token: tok, IsNew: true,
					User: gin.H{"id": ident.ID, "email": ident.Email, "fullName": ident.FullName, "role": ident.Role},
				}, nil

			case err != nil:
				return loginOut{}, httpez.Internal("db error", err)

			default:
				// 已存在 → 校验密码
				if !utils.CheckPassword(in.Password, ident.PasswordHash) {
					return loginOut{}, httpez.Unauthorized("invalid credentials")
				}
				tok, e := jwter.Issue(ident.ID, ident.Role)
				if e != nil || tok == "" {
					return loginOut{}, httpez.Internal("issue token failed", e)
				}
				return loginOut{
					Token: tok, IsNew: false,
					User: gin.H{"id": ident.ID, "email": ident.Email, "fullName": ident.FullName, "role": ident.Role},
				}, nil
			}
		},
	})

	// 鉴权分组（需要登录）
	ezAuth := httpez.New(authUser)

	type meOut struct {
		ID       string      `json:"id"`
		Email    string      `json:"email"`
		FullName string      `json:"fullName"`
		Role     string      `json:"role"`
		Profile  interface{} `json:"profile"` // 没有档案时为 null
	}
	httpez.RegisterAction[struct{}, meOut](ezAuth, db, httpez.Action[struct{}, meOut]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (meOut, error) {
			uid := c.GetString("userId")
			if uid == "" {
				return meOut{}, httpez.Unauthorized("unauthorized")
			}
			var ident identity.IdentityModel
			if err := tx.Where("id = ?", uid).First(&ident).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return meOut{}, httpez.NotFound("identity not found")
				}
				return meOut{}, httpez.Internal("db error", err)
			}
			out := meOut{ID: ident.ID, Email: ident.Email, FullName: ident.FullName, Role: ident.Role}
			var m member.MemberModel
			if err := tx.Where("identity_id = ?", uid).First(&m).Error; err == nil {
				out.Profile = m
			}
			return out, nil
		},
	})

	// /applications：提交入会申请，建 pending 档案等审核
	type applyIn struct {
		CNIC           string `json:"cnic"    binding:"omitempty,max=32"`
		Gender         string `json:"gender"  binding:"omitempty,max=16"`
		Phone          string `json:"phone"   binding:"omitempty,max=32"`
		Address        string `json:"address" binding:"omitempty,max=255"`
		City           string `json:"city"    binding:"omitempty,max=64"`
		MembershipType string `json:"membershipType" binding:"omitempty,max=32"`
	}
	type applyOut struct {
		MemberID string `json:"memberId"`
		Status   string `json:"status"`
	}
	httpez.RegisterAction[applyIn, applyOut](ezAuth, db, httpez.Action[applyIn, applyOut]{
		Method: http.MethodPost,
		Path:   "/applications",
		Binder: httpez.BindJSON,
		Auth:   true,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *applyIn) (applyOut, error) {
			uid := c.GetString("userId")
			var ident identity.IdentityModel
			if err := tx.Where("id = ?", uid).First(&ident).Error; err != nil {
				return applyOut{}, httpez.Unauthorized("unauthorized")
			}

			var existing member.MemberModel
			if err := tx.Where("identity_id = ?", uid).First(&existing).Error; err == nil {
				return applyOut{}, httpez.BadRequest("application already submitted")
			}

			m := member.MemberModel{
				ID:               utils.NewID(),
				IdentityID:       ident.ID,
				Email:            ident.Email,
				FullName:         ident.FullName,
				CNIC:             in.CNIC,
				Gender:           in.Gender,
				Phone:            in.Phone,
				Address:          in.Address,
				City:             in.City,
				Role:             "member",
				MembershipType:   defaultMembershipType(in.MembershipType),
				MembershipStatus: domain.StatusPending,
			}
			if err := tx.Create(&m).Error; err != nil {
				return applyOut{}, httpez.Internal("create application failed", err)
			}
			return applyOut{MemberID: m.ID, Status: m.MembershipStatus}, nil
		},
	})
}

func defaultMembershipType(t string) string {
	if strings.TrimSpace(t) == "" {
		return domain.TypeFull
	}
	return t
}

func isDupKeyErr(err error) bool {
	// 不依赖 gorm.ErrDuplicatedKey，避免版本差异导致"undefined"
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
