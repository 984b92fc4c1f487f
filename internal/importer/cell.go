package importer

import (
	"strconv"
	"strings"
	"time"
)

// Kind 单元格取值类型
type Kind uint8

const (
	KindUndefined Kind = iota // 该列不存在（与空白单元格区分）
	KindEmpty
	KindString
	KindNumber
	KindDate
)

// CellValue 带类型标签的单元格值；零值即 Undefined
type CellValue struct {
	Kind Kind
	Str  string
	Num  float64
	Date time.Time
}

func String(s string) CellValue  { return CellValue{Kind: KindString, Str: s} }
func Number(f float64) CellValue { return CellValue{Kind: KindNumber, Num: f} }
func Date(t time.Time) CellValue { return CellValue{Kind: KindDate, Date: t} }
func Empty() CellValue           { return CellValue{Kind: KindEmpty} }

func (v CellValue) Defined() bool { return v.Kind != KindUndefined }

// Text 文本视图：数字去掉多余的小数零，日期用 RFC3339
func (v CellValue) Text() string {
	switch v.Kind {
	case KindString:
		return strings.TrimSpace(v.Str)
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindDate:
		return v.Date.UTC().Format(time.RFC3339)
	}
	return ""
}

// Row 一行数据：保留表头出现顺序的 header -> cell 映射
type Row struct {
	headers []string
	cells   map[string]CellValue
}

func NewRow() *Row {
	return &Row{cells: make(map[string]CellValue)}
}

func (r *Row) Set(header string, v CellValue) {
	if _, ok := r.cells[header]; !ok {
		r.headers = append(r.headers, header)
	}
	r.cells[header] = v
}

func (r *Row) Headers() []string { return r.headers }
