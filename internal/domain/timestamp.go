package domain

import (
	"strings"
	"time"
)

// Layout used for naive timestamps, which are read as UTC.
const naiveLayout = "2006-01-02T15:04:05.999999999"

// ParseTimestamp reads an ISO-8601 timestamp. A trailing "Z" or an explicit
// offset is honored; a timestamp without any offset is taken as UTC.
func ParseTimestamp(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, InvalidInput(field, "must not be empty")
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}

	if t, err := time.ParseInLocation(naiveLayout, s, time.UTC); err == nil {
		return t, nil
	}

	return time.Time{}, InvalidInput(field, "unparsable timestamp %q", s)
}

// FormatTimestamp renders t as RFC 3339 keeping its offset.
func FormatTimestamp(t time.Time) string { return t.Format(time.RFC3339Nano) }
