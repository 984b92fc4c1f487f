package importer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrNoSheet    = errors.New("workbook has no sheets")
	ErrNoDataRows = errors.New("sheet has no data rows")
)

// ParseSheet 读 xlsx（只取第一个 sheet），第一行当表头，其余行转成带类型标签的 Row。
func ParseSheet(r io.Reader) ([]*Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrNoSheet
	}

	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(raw) <= 1 {
		return nil, ErrNoDataRows
	}

	headers := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		headers[i] = strings.TrimSpace(h)
	}

	out := make([]*Row, 0, len(raw)-1)
	for ri, cells := range raw[1:] {
		row := NewRow()
		for ci, h := range headers {
			if h == "" {
				continue
			}
			var cell string
			if ci < len(cells) {
				cell = cells[ci]
			}
			row.Set(h, tagCell(f, sheet, ci, ri+1, cell))
		}
		out = append(out, row)
	}
	return out, nil
}

// tagCell 给原始值打类型标签；数字单元格若套了日期数字格式则按序列日期转时间
func tagCell(f *excelize.File, sheet string, col, row int, raw string) CellValue {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Empty()
	}
	if num, err := strconv.ParseFloat(raw, 64); err == nil {
		axis, cerr := excelize.CoordinatesToCellName(col+1, row+1)
		if cerr == nil && hasDateFormat(f, sheet, axis) {
			if t, derr := excelize.ExcelDateToTime(num, false); derr == nil {
				return Date(t.UTC())
			}
		}
		return Number(num)
	}
	return String(raw)
}

func hasDateFormat(f *excelize.File, sheet, axis string) bool {
	styleID, err := f.GetCellStyle(sheet, axis)
	if err != nil {
		return false
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	// 内建日期/时间数字格式
	switch style.NumFmt {
	case 14, 15, 16, 17, 18, 19, 20, 21, 22, 45, 46, 47:
		return true
	}
	return false
}
