package ez

import (
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	resp "membership-hub/internal/transport/http/response"
	"membership-hub/pkg/utils"
)

// CrudHooks 注入点：建/改前校验，列表自定义筛选，出参加工
type CrudHooks[T any] struct {
	BeforeCreate func(c *gin.Context, m *T) error
	BeforeUpdate func(c *gin.Context, m *T) error
	ScopeList    func(c *gin.Context, q *gorm.DB) *gorm.DB
	AfterGet     func(c *gin.Context, m *T)
}

// CrudConfig 按模型一行挂出 owner 隔离的增删改查。
// 模型只要有 string 主键和 owner 字段（ActorID/OwnerID/UserID/UID 任一）即可，
// 不必实现任何接口。
type CrudConfig[T any] struct {
	DB    *gorm.DB
	Group *gin.RouterGroup // 已鉴权分组（能拿 userId）
	Path  string
	New   func() *T // 缺省 new(T)

	Hooks CrudHooks[T]

	// 全 false 视为全放开
	AllowCreate bool
	AllowList   bool
	AllowGet    bool
	AllowUpdate bool
	AllowDelete bool

	IDField    string // 默认 "ID"
	OwnerField string // 默认依次找 ActorID/OwnerID/UserID/UID

	DisableAutoID bool          // 建档时不自动补 ID
	IDGen         func() string // 默认 utils.NewID

	// 列表排序，为空则按主键倒序
	OrderBy string // 例如 "created_at DESC"
}

func (c *CrudConfig[T]) idFields() []string {
	if c.IDField != "" {
		return []string{c.IDField, "ID", "Id"}
	}
	return []string{"ID", "Id"}
}

func (c *CrudConfig[T]) ownerFields() []string {
	if c.OwnerField != "" {
		return []string{c.OwnerField, "ActorID", "OwnerID", "UserID", "UID"}
	}
	return []string{"ActorID", "OwnerID", "UserID", "UID"}
}

// 反射找第一个命中的可写 string 字段
func stringFieldPtr(obj any, candidates []string) (*string, bool) {
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Ptr {
		return nil, false
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return nil, false
	}
	t := v.Type()
	for _, cand := range candidates {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.PkgPath != "" || f.Name != cand {
				continue
			}
			fv := v.Field(i)
			if fv.Kind() == reflect.String && fv.CanSet() {
				return fv.Addr().Interface().(*string), true
			}
		}
	}
	return nil, false
}

func readField(obj any, candidates []string) (string, bool) {
	if p, ok := stringFieldPtr(obj, candidates); ok {
		return *p, true
	}
	return "", false
}

func writeField(obj any, candidates []string, val string) bool {
	if p, ok := stringFieldPtr(obj, candidates); ok {
		*p = val
		return true
	}
	return false
}

func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func crudOK(c *gin.Context, data any) { c.JSON(http.StatusOK, resp.OK(data)) }

func crudFail(c *gin.Context, code int, m string) { c.JSON(http.StatusOK, resp.Error(code, m)) }

// ownerID 取当前登录主体；分组未挂 AuthJWT 时拿不到
func ownerID(c *gin.Context) (string, bool) {
	uid := c.GetString("userId")
	return uid, uid != ""
}

// Crud 注册（无需模型实现任何接口）
func Crud[T any](cfg CrudConfig[T]) {
	if !cfg.AllowCreate && !cfg.AllowGet && !cfg.AllowList && !cfg.AllowUpdate && !cfg.AllowDelete {
		cfg.AllowCreate, cfg.AllowList, cfg.AllowGet, cfg.AllowUpdate, cfg.AllowDelete = true, true, true, true, true
	}
	if cfg.New == nil {
		cfg.New = func() *T { return new(T) }
	}
	if cfg.IDGen == nil {
		cfg.IDGen = utils.NewID
	}
	_ = cfg.DB.AutoMigrate(cfg.New())

	idNames := cfg.idFields()
	ownerNames := cfg.ownerFields()

	// 组合 id+owner 过滤条件，双重保证只碰自己的数据
	scoped := func(id, uid string) *T {
		filter := cfg.New()
		_ = writeField(filter, idNames, id)
		_ = writeField(filter, ownerNames, uid)
		return filter
	}

	if cfg.AllowCreate {
		cfg.Group.POST(cfg.Path, func(c *gin.Context) {
			uid, ok := ownerID(c)
			if !ok {
				crudFail(c, resp.CodeUnauthorized, "unauthorized")
				return
			}
			m := cfg.New()
			if err := c.ShouldBindJSON(m); err != nil {
				crudFail(c, resp.CodeBadRequest, err.Error())
				return
			}
			if !cfg.DisableAutoID {
				if id, ok := readField(m, idNames); !ok {
					crudFail(c, resp.CodeBadRequest, "id field not found")
					return
				} else if strings.TrimSpace(id) == "" {
					_ = writeField(m, idNames, cfg.IDGen())
				}
			}
			if !writeField(m, ownerNames, uid) {
				crudFail(c, resp.CodeBadRequest, "owner field not found")
				return
			}
			if cfg.Hooks.BeforeCreate != nil {
				if err := cfg.Hooks.BeforeCreate(c, m); err != nil {
					crudFail(c, resp.CodeBadRequest, err.Error())
					return
				}
			}
			if err := cfg.DB.WithContext(c).Create(m).Error; err != nil {
				crudFail(c, resp.CodeBadRequest, err.Error())
				return
			}
			if cfg.Hooks.AfterGet != nil {
				cfg.Hooks.AfterGet(c, m)
			}
			crudOK(c, m)
		})
	}

	if cfg.AllowList {
		cfg.Group.GET(cfg.Path, func(c *gin.Context) {
			uid, ok := ownerID(c)
			if !ok {
				crudFail(c, resp.CodeUnauthorized, "unauthorized")
				return
			}
			page := atoiDefault(c.Query("page"), 1)
			size := atoiDefault(c.Query("size"), 20)
			if size > 100 {
				size = 20
			}

			// 结构体 Where 自动映射列名，不手写 owner 列
			ownerFilter := cfg.New()
			if !writeField(ownerFilter, ownerNames, uid) {
				crudFail(c, resp.CodeBadRequest, "owner field not found")
				return
			}
			q := cfg.DB.WithContext(c).Model(cfg.New()).Where(ownerFilter)
			if cfg.Hooks.ScopeList != nil {
				q = cfg.Hooks.ScopeList(c, q)
			}

			var total int64
			if err := q.Count(&total).Error; err != nil {
				crudFail(c, resp.CodeServerError, err.Error())
				return
			}

			if cfg.OrderBy != "" {
				q = q.Order(cfg.OrderBy)
			} else {
				q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: toSnake(idNames[0])}, Desc: true})
			}
			var items []T
			if err := q.Limit(size).Offset((page - 1) * size).Find(&items).Error; err != nil {
				crudFail(c, resp.CodeServerError, err.Error())
				return
			}
			if cfg.Hooks.AfterGet != nil {
				for i := range items {
					cfg.Hooks.AfterGet(c, &items[i])
				}
			}
			crudOK(c, gin.H{"list": items, "total": total, "page": page, "size": size})
		})
	}

	if cfg.AllowGet {
		cfg.Group.GET(cfg.Path+"/:id", func(c *gin.Context) {
			uid, ok := ownerID(c)
			if !ok {
				crudFail(c, resp.CodeUnauthorized, "unauthorized")
				return
			}
			m := cfg.New()
			if err := cfg.DB.WithContext(c).Where(scoped(c.Param("id"), uid)).First(m).Error; err != nil {
				crudFail(c, resp.CodeNotFound, "not found")
				return
			}
			if cfg.Hooks.AfterGet != nil {
				cfg.Hooks.AfterGet(c, m)
			}
			crudOK(c, m)
		})
	}

	if cfg.AllowUpdate {
		cfg.Group.PUT(cfg.Path+"/:id", func(c *gin.Context) {
			uid, ok := ownerID(c)
			if !ok {
				crudFail(c, resp.CodeUnauthorized, "unauthorized")
				return
			}
			id := c.Param("id")

			// 先确认归属
			check := scoped(id, uid)
			if err := cfg.DB.WithContext(c).Where(check).First(check).Error; err != nil {
				crudFail(c, resp.CodeNotFound, "not found")
				return
			}

			in := cfg.New()
			if err := c.ShouldBindJSON(in); err != nil {
				crudFail(c, resp.CodeBadRequest, err.Error())
				return
			}
			// 入参不许改 ID/Owner
			_ = writeField(in, idNames, id)
			_ = writeField(in, ownerNames, uid)

			if cfg.Hooks.BeforeUpdate != nil {
				if err := cfg.Hooks.BeforeUpdate(c, in); err != nil {
					crudFail(c, resp.CodeBadRequest, err.Error())
					return
				}
			}
			if err := cfg.DB.WithContext(c).Model(cfg.New()).Where(check).Updates(in).Error; err != nil {
				crudFail(c, resp.CodeBadRequest, err.Error())
				return
			}
			if cfg.Hooks.AfterGet != nil {
				cfg.Hooks.AfterGet(c, in)
			}
			crudOK(c, gin.H{"id": id})
		})
	}

	if cfg.AllowDelete {
		cfg.Group.DELETE(cfg.Path+"/:id", func(c *gin.Context) {
			uid, ok := ownerID(c)
			if !ok {
				crudFail(c, resp.CodeUnauthorized, "unauthorized")
				return
			}
			id := c.Param("id")
			res := cfg.DB.WithContext(c).Where(scoped(id, uid)).Delete(cfg.New())
			if res.Error != nil {
				crudFail(c, resp.CodeServerError, res.Error.Error())
				return
			}
			if res.RowsAffected == 0 {
				crudFail(c, resp.CodeNotFound, "not found")
				return
			}
			crudOK(c, gin.H{"id": id})
		})
	}
}
