package service

import (
	"fmt"
	"strings"
	"time"
)

// JST is the fixed civil time zone every timestamp in a report lives in.
var JST = time.FixedZone("JST", 9*60*60)

// weekdaysJA is Monday-first, matching the template's weekday cell.
var weekdaysJA = []string{"月", "火", "水", "木", "金", "土", "日"}

var datetimeLayouts = []string{
	"2006/1/2 15:4:5",
	"2006/1/2 15:4",
	"2006/1/2",
}

// nowJST is swappable in tests.
var nowJST = func() time.Time { return time.Now().In(JST) }

// ParseDateTime parses a loosely formatted Japanese datetime string
// ("2024年5月1日 10:00", "2024-05-01 10:00:00", "2024/5/1" ...).
// Unparseable or empty input reports ok=false, never an error: an absent
// timestamp is a missing field, not a failure.
func ParseDateTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	cand := strings.TrimSpace(s)
	cand = strings.ReplaceAll(cand, "年", "/")
	cand = strings.ReplaceAll(cand, "月", "/")
	cand = strings.ReplaceAll(cand, "日", "")
	cand = strings.ReplaceAll(cand, "-", "/")
	cand = strings.ReplaceAll(cand, "　", " ")
	for _, layout := range datetimeLayouts {
		if t, err := time.ParseInLocation(layout, cand, JST); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateTimeParts are the split components of a parsed datetime; Weekday is the
// one-character Japanese abbreviation.
type DateTimeParts struct {
	Year    int
	Month   int
	Day     int
	Weekday string
	Hour    int
	Minute  int
}

// SplitComponents breaks a parsed datetime into template-ready parts.
func SplitComponents(t time.Time, ok bool) (DateTimeParts, bool) {
	if !ok {
		return DateTimeParts{}, false
	}
	t = t.In(JST)
	return DateTimeParts{
		Year:    t.Year(),
		Month:   int(t.Month()),
		Day:     t.Day(),
		Weekday: weekdaysJA[(int(t.Weekday())+6)%7],
		Hour:    t.Hour(),
		Minute:  t.Minute(),
	}, true
}

// MinutesBetween returns the whole minutes from a to b. The result may be
// negative; it is absent (ok=false) when either endpoint does not parse.
func MinutesBetween(a, b string) (int, bool) {
	s, okS := ParseDateTime(a)
	e, okE := ParseDateTime(b)
	if !okS || !okE {
		return 0, false
	}
	secs := int(e.Sub(s) / time.Second)
	// Floor division so partial minutes round toward minus infinity.
	m := secs / 60
	if secs%60 != 0 && secs < 0 {
		m--
	}
	return m, true
}

// FirstDateYYYYMMDD returns the compact date of the first candidate that
// parses, falling back to today in JST.
func FirstDateYYYYMMDD(candidates ...string) string {
	for _, c := range candidates {
		if t, ok := ParseDateTime(c); ok {
			return t.Format("20060102")
		}
	}
	return nowJST().Format("20060102")
}

// FormatMinutes renders a minute count for display: absent or negative
// durations show as a dash, an hour or more as X時間YY分.
func FormatMinutes(v int, ok bool) string {
	if !ok || v < 0 {
		return "—"
	}
	if v >= 60 {
		return fmt.Sprintf("%d時間%02d分", v/60, v%60)
	}
	return fmt.Sprintf("%d分", v)
}
