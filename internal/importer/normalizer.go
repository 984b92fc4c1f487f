package importer

import "strings"

// 泛化别名：过短过泛，子串匹配阶段跳过，防止 "Email Address" 命中 "Address"
func isGenericAlias(a string) bool { return a == "Address" || a == "Name" }

// Field 按别名优先级解析一个逻辑字段，未命中返回 Undefined。
// 解析顺序（逐级兜底，命中即返回）：
//  1. 表头精确匹配（区分大小写）
//  2. 忽略大小写的精确匹配
//  3. 忽略大小写的子串匹配（表头包含别名；泛化别名跳过）
//  4. "Residential Address" 特例：表头同时含 residential 和 address 即命中
func (r *Row) Field(aliases ...string) CellValue {
	for _, a := range aliases {
		if v, ok := r.cells[a]; ok {
			return v
		}
	}
	for _, a := range aliases {
		for _, h := range r.headers {
			if strings.EqualFold(h, a) {
				return r.cells[h]
			}
		}
	}
	for _, a := range aliases {
		if isGenericAlias(a) {
			continue
		}
		needle := strings.ToLower(a)
		for _, h := range r.headers {
			if strings.Contains(strings.ToLower(h), needle) {
				return r.cells[h]
			}
		}
	}
	for _, a := range aliases {
		if !strings.EqualFold(a, "Residential Address") {
			continue
		}
		for _, h := range r.headers {
			lh := strings.ToLower(h)
			if strings.Contains(lh, "residential") && strings.Contains(lh, "address") {
				return r.cells[h]
			}
		}
		break
	}
	return CellValue{}
}
