package statement

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(v)
	}
}

// parseDate accepts time.Time cells directly and strings in DD/MM/YY or
// DD/MM/YYYY. Anything else is not a date.
func parseDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, true
	case string:
		s := strings.TrimSpace(d)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// parseAmount accepts numeric cells directly and strings with thousands
// separators. Unparseable values yield nil rather than an error.
func parseAmount(v any) *decimal.Decimal {
	switch n := v.(type) {
	case float64:
		d := decimal.NewFromFloat(n)
		return &d
	case int:
		d := decimal.NewFromInt(int64(n))
		return &d
	case int64:
		d := decimal.NewFromInt(n)
		return &d
	case decimal.Decimal:
		return &n
	case string:
		cleaned := strings.TrimSpace(strings.ReplaceAll(n, ",", ""))
		if cleaned == "" {
			return nil
		}
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			return nil
		}
		return &d
	}
	return nil
}
