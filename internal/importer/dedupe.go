package importer

import "strings"

// NormalizeEmail 去空白 + 小写，索引与比对统一用这个形式
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Index 一次导入内的已注册邮箱集合。
// 运行开始时从持久层整批灌入（只读一次，不做逐行查询），
// 运行期间只增不减；单线程顺序处理，无需加锁。
type Index struct {
	emails map[string]struct{}
}

func NewIndex() *Index {
	return &Index{emails: make(map[string]struct{})}
}

func (i *Index) Seed(emails []string) {
	for _, e := range emails {
		i.Add(e)
	}
}

func (i *Index) Has(email string) bool {
	_, ok := i.emails[NormalizeEmail(email)]
	return ok
}

func (i *Index) Add(email string) {
	e := NormalizeEmail(email)
	if e == "" {
		return
	}
	i.emails[e] = struct{}{}
}

func (i *Index) Len() int { return len(i.emails) }
