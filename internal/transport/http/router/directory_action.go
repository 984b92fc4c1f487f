package router

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"membership-hub/internal/core/cache"
	"membership-hub/internal/domain"
	"membership-hub/internal/feature/member"
	httpez "membership-hub/internal/transport/http/ez"
)

// 公开名录卡片：只露非敏感字段
type memberCard struct {
	ID             string `json:"id"`
	FullName       string `json:"fullName"`
	City           string `json:"city"`
	MembershipType string `json:"membershipType"`
	MemberSince    string `json:"memberSince"`
}

func mountDirectoryActions(api *gin.RouterGroup, db *gorm.DB, cc *cache.Cache) {
	ez := httpez.New(api)

	ez.GET("/members/:id", func(c *gin.Context) (any, error) {
		id := c.Param("id")
		if id == "" {
			return nil, httpez.BadRequest("missing id")
		}

		load := func(ctx context.Context) (*memberCard, error) {
			var m member.MemberModel
			err := db.WithContext(ctx).
				First(&m, "id = ? AND membership_status = ?", id, domain.StatusActive).Error
			if err != nil {
				return nil, err
			}
			return &memberCard{
				ID: m.ID, FullName: m.FullName, City: m.City,
				MembershipType: m.MembershipType,
				MemberSince:    m.CreatedAt.Format("2006-01-02"),
			}, nil
		}

		var card *memberCard
		var err error
		if cc != nil {
			card, err = cache.GetOrLoadJSON[memberCard](cc, c, "member:card:"+id, 5*time.Minute, load)
		} else {
			card, err = load(c)
		}
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, httpez.NotFound("member not found")
			}
			return nil, httpez.Internal("load member failed", err)
		}
		return card, nil
	})
}
