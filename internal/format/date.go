package format

import (
	"strconv"
	"time"
)

// displayLayout is the day-first rendering used across all tables.
const displayLayout = "02.01.2006"

// brokerLayout is Interactive Brokers' report timestamp, e.g.
// "20210603;202600".
const brokerLayout = "20060102;150405"

var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses the date strings the import sources produce: ISO dates,
// the broker semicolon format, and millisecond epochs.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(brokerLayout, s); err == nil {
		return t, nil
	}
	// bank timestamps come through as epoch milliseconds
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil && ms > 1e11 {
		return time.UnixMilli(ms).UTC(), nil
	}
	var zero time.Time
	return zero, &time.ParseError{Layout: displayLayout, Value: s, Message: ": unrecognized date"}
}

// Date renders a source date string for display, passing the raw value
// through when it cannot be parsed.
func Date(s string) string {
	t, err := ParseDate(s)
	if err != nil {
		return s
	}
	return t.Format(displayLayout)
}
