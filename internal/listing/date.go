// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package listing

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// minYear is the earliest publication year considered plausible.
const minYear = 1900

// dateLayouts are tried in order when parsing backend date columns.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05Z07",
}

// ParseDate parses a backend date string. It returns the zero time when
// s is empty or matches no known layout.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// validDate reports whether t can be used for sorting and grouping. A
// zero time is invalid. A year outside [1900, now+1] stays valid but is
// logged, since archives legitimately hold odd dates.
func validDate(t time.Time, now time.Time, log *zap.Logger, id string) bool {
	if t.IsZero() {
		return false
	}
	if y := t.Year(); y < minYear || y > now.Year()+1 {
		log.Warn("record year outside expected range",
			zap.String("id", id),
			zap.Int("year", y),
			zap.Int("min", minYear),
			zap.Int("max", now.Year()+1))
	}
	return true
}
