package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDayRange turns optional YYYY-MM-DD bounds into an inclusive range
// from the start of the first day to the last second of the second.
func ParseDayRange(start, end string, loc *time.Location) (from, to *time.Time, err error) {
	if start = strings.TrimSpace(start); start != "" {
		d, err := time.ParseInLocation(dateLayout, start, loc)
		if err != nil {
			return nil, nil, fmt.Errorf("start_date: %w", err)
		}
		from = &d
	}
	if end = strings.TrimSpace(end); end != "" {
		d, err := time.ParseInLocation(dateLayout, end, loc)
		if err != nil {
			return nil, nil, fmt.Errorf("end_date: %w", err)
		}
		d = d.Add(24*time.Hour - time.Second)
		to = &d
	}
	return from, to, nil
}

// FormatMoney renders v with two decimals and no grouping.
func FormatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatMoneyGrouped renders v with two decimals and comma thousands
// separators, e.g. 1,234.50.
func FormatMoneyGrouped(v float64) string {
	s := FormatMoney(v)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return sign + b.String() + "." + frac
}

// FormatTime renders t in the response timestamp layout, or "" for nil.
func FormatTime(t *time.Time, layout string) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(layout)
}
