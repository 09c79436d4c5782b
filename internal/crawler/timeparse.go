package crawler

import (
	"fmt"
	"strings"
	"time"
)

// TimeParseError reports a raw timestamp no layout in the chain could
// parse. Callers must skip the record; substituting the current time
// would corrupt the staleness-window stop decision.
type TimeParseError struct {
	Raw string
}

func (e *TimeParseError) Error() string {
	return fmt.Sprintf("unparseable timestamp %q", e.Raw)
}

// NormalizeTime tries each layout in declaration order and returns the
// first successful parse. Layouts without a year component are completed
// with now's year; layouts carrying only a time of day get now's date.
// Missing time-of-day parses to midnight by Go's zero fill.
func NormalizeTime(raw string, layouts []string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, &TimeParseError{Raw: raw}
	}

	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, raw, now.Location())
		if err != nil {
			continue
		}

		hasYear := strings.Contains(layout, "2006")
		hasDate := strings.Contains(layout, "01") || strings.Contains(layout, "02") || strings.Contains(layout, "Jan")

		switch {
		case !hasDate:
			// time-of-day only, e.g. "15:04" on a "today" listing
			t = time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), t.Second(), 0, now.Location())
		case !hasYear:
			t = time.Date(now.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, now.Location())
		}
		return t, nil
	}

	return time.Time{}, &TimeParseError{Raw: raw}
}
