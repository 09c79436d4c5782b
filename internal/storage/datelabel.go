package storage

import (
	"strings"
	"time"
)

// Day labels are the store's bucket keys: "2025년 08월 28일 목요일".
// Older documents may carry the label without the weekday, so date
// comparison always goes through NormalizeDateKey.

var weekdayKorean = map[time.Weekday]string{
	time.Monday:    "월요일",
	time.Tuesday:   "화요일",
	time.Wednesday: "수요일",
	time.Thursday:  "목요일",
	time.Friday:    "금요일",
	time.Saturday:  "토요일",
	time.Sunday:    "일요일",
}

const dayLabelLayout = "2006년 01월 02일"

// DayLabel formats t as the full bucket label including the weekday.
func DayLabel(t time.Time) string {
	return t.Format(dayLabelLayout) + " " + weekdayKorean[t.Weekday()]
}

// NormalizeDateKey strips any trailing weekday so labels recorded with
// and without one compare equal. Only the year/month/day tokens count.
func NormalizeDateKey(label string) string {
	fields := strings.Fields(strings.TrimSpace(label))
	if len(fields) < 3 {
		return strings.TrimSpace(label)
	}
	return strings.Join(fields[:3], " ")
}

// ParseDayLabel parses a (possibly weekday-suffixed) label back into a
// date, midnight local time. Used for chronological bucket sorting.
func ParseDayLabel(label string) (time.Time, error) {
	return time.ParseInLocation(dayLabelLayout, NormalizeDateKey(label), time.Local)
}
