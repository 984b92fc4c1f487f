package importer

import (
	"strings"
	"time"
)

// excel 序列日期：25569 对应 1970-01-01 UTC
const serialUnixEpoch = 25569

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// CoerceTime 把任意单元格值转成时间戳；不可解释时 ok=false，绝不报错。
// 优先级：已是日期 > 数字序列日期 > 可解析字符串。
func CoerceTime(v CellValue) (time.Time, bool) {
	switch v.Kind {
	case KindDate:
		return v.Date.UTC(), true
	case KindNumber:
		return timeFromSerial(v.Num), true
	case KindString:
		s := strings.TrimSpace(v.Str)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

func timeFromSerial(serial float64) time.Time {
	secs := (serial - serialUnixEpoch) * 86400
	return time.Unix(0, int64(secs*float64(time.Second))).UTC()
}
