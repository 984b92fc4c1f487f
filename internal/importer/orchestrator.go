package importer

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrAlreadyRegistered 身份提供方的结构化"邮箱已注册"错误。
// 适配层负责把底层驱动的唯一键冲突翻译成它，编排器只认这个哨兵。
var ErrAlreadyRegistered = errors.New("email already registered")

// IdentityProvider 认证主体的创建/回滚删除
type IdentityProvider interface {
	CreateIdentity(ctx context.Context, email, credential, fullName string) (id string, err error)
	DeleteIdentity(ctx context.Context, id string) error
}

// Profile 由一行表格推导出来的会员档案
type Profile struct {
	IdentityID       string
	Email            string
	FullName         string
	CNIC             string
	Gender           string
	Phone            string
	Address          string
	City             string
	Role             string
	MembershipType   string
	MembershipStatus string
	CreatedAt        time.Time
	SubscriptionFrom time.Time
	SubscriptionTo   time.Time
}

// ProfileStore 档案持久化 + 去重索引的整批灌入来源
type ProfileStore interface {
	SaveProfile(ctx context.Context, p Profile) error
	ListEmails(ctx context.Context) ([]string, error)
}

// Result 一次导入的汇总；行级问题全部折进计数和 Errors，不向上抛
type Result struct {
	Success  int      `json:"success"`
	Failed   int      `json:"failed"`
	Skipped  int      `json:"skipped"`
	Total    int      `json:"total"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings,omitempty"`
}

// 各逻辑字段的表头别名（按优先级）
var (
	emailAliases      = []string{"Email Address", "Email", "e-mail"}
	nameAliases       = []string{"Full Name", "Name of Member", "Name"}
	cnicAliases       = []string{"CNIC", "CNIC No", "National ID"}
	genderAliases     = []string{"Gender", "Sex"}
	phoneAliases      = []string{"Phone", "Mobile", "Contact No"}
	addressAliases    = []string{"Residential Address", "Address"}
	cityAliases       = []string{"City"}
	membershipAliases = []string{"Membership Type", "Type of Membership", "Category"}
	timestampAliases  = []string{"Timestamp", "Registration Date", "Date"}
)

type Importer struct {
	identities IdentityProvider
	profiles   ProfileStore
	log        *zap.Logger

	now        func() time.Time
	credential func() string
}

func New(identities IdentityProvider, profiles ProfileStore, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{
		identities: identities,
		profiles:   profiles,
		log:        log,
		now:        time.Now,
		credential: TempCredential,
	}
}

// TempCredential 导入会员的临时口令：固定前缀 + 4 位随机数字
func TempCredential() string {
	return fmt.Sprintf("Member@%04d", rand.Intn(10000))
}

// Run 顺序处理所有行并汇总结果。单行失败只记录不中断；
// 只有空表或去重索引灌入失败会让整次运行失败。
func (im *Importer) Run(ctx context.Context, rows []*Row) (Result, error) {
	if len(rows) == 0 {
		return Result{}, ErrNoDataRows
	}

	known, err := im.profiles.ListEmails(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("seed dedup index: %w", err)
	}
	index := NewIndex()
	index.Seed(known)

	im.log.Info("member import started",
		zap.Int("rows", len(rows)), zap.Int("known_emails", index.Len()))

	var res Result
	for i, row := range rows {
		// 表头占第 1 行，数据行从 2 起
		n := i + 2
		res.Total++

		email := row.Field(emailAliases...).Text()
		name := row.Field(nameAliases...).Text()
		if email == "" || name == "" {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: Missing Name or Email.", n))
			continue
		}

		normalized := NormalizeEmail(email)
		if index.Has(normalized) {
			// 续传场景下重复是常态，不记错误
			res.Skipped++
			continue
		}

		id, err := im.identities.CreateIdentity(ctx, normalized, im.credential(), name)
		if errors.Is(err, ErrAlreadyRegistered) {
			res.Skipped++
			index.Add(normalized)
			continue
		}
		if err != nil {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d (%s): %s", n, email, err.Error()))
			continue
		}

		profile := im.buildProfile(id, normalized, name, row)
		if err := im.profiles.SaveProfile(ctx, profile); err != nil {
			// 补偿：删掉刚建的身份，避免有号无档的孤儿
			if delErr := im.identities.DeleteIdentity(ctx, id); delErr != nil {
				res.Warnings = append(res.Warnings,
					fmt.Sprintf("Row %d (%s): identity %s orphaned, rollback delete failed: %s", n, email, id, delErr.Error()))
			}
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d (%s): Profile creation failed: %s", n, email, err.Error()))
			continue
		}

		res.Success++
		index.Add(normalized)
	}

	im.log.Info("member import finished",
		zap.Int("success", res.Success), zap.Int("failed", res.Failed),
		zap.Int("skipped", res.Skipped), zap.Int("total", res.Total))
	return res, nil
}

func (im *Importer) buildProfile(identityID, email, fullName string, row *Row) Profile {
	now := im.now()

	createdAt, ok := CoerceTime(row.Field(timestampAliases...))
	if !ok {
		createdAt = now
	}

	role, membershipType := InferMembership(row.Field(membershipAliases...).Text())

	return Profile{
		IdentityID:       identityID,
		Email:            email,
		FullName:         fullName,
		CNIC:             row.Field(cnicAliases...).Text(),
		Gender:           NormalizeGender(row.Field(genderAliases...).Text()),
		Phone:            row.Field(phoneAliases...).Text(),
		Address:          row.Field(addressAliases...).Text(),
		City:             row.Field(cityAliases...).Text(),
		Role:             role,
		MembershipType:   membershipType,
		MembershipStatus: "active", // 导入的会员直接激活，不走待审流程
		CreatedAt:        createdAt,
		SubscriptionFrom: now,
		SubscriptionTo:   now.AddDate(1, 0, 0),
	}
}

// NormalizeGender m开头→Male，f开头→Female，其余原样放行
func NormalizeGender(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(lower, "m"):
		return "Male"
	case strings.HasPrefix(lower, "f"):
		return "Female"
	}
	return s
}

// InferMembership 从自由文本推断角色和会员类别。
// student 优先且同时定角色；associate/life 只改类别不动角色。
func InferMembership(s string) (role, membershipType string) {
	role, membershipType = "member", "Full Member"
	lower := strings.ToLower(s)
	if strings.Contains(lower, "student") {
		role, membershipType = "student", "Student Member"
	} else if strings.Contains(lower, "associate") {
		membershipType = "Associate Member"
	}
	if strings.Contains(lower, "life") {
		membershipType = "Life Member"
	}
	return role, membershipType
}
