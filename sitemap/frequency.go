package sitemap

import (
	"strings"
	"time"
)

// ChangeFrequency is the crawler hint describing how often a URL changes.
type ChangeFrequency string

// Change frequencies accepted by the sitemap protocol.
const (
	Always  ChangeFrequency = "always"
	Hourly  ChangeFrequency = "hourly"
	Daily   ChangeFrequency = "daily"
	Weekly  ChangeFrequency = "weekly"
	Monthly ChangeFrequency = "monthly"
	Yearly  ChangeFrequency = "yearly"
	Never   ChangeFrequency = "never"
)

// DefaultChangeFrequency is used when a registration does not name one.
const DefaultChangeFrequency = Monthly

const (
	day  = 24 * time.Hour
	year = 365 * day
)

// ParseChangeFrequency returns the frequency named by s, ignoring case and
// surrounding whitespace.
func ParseChangeFrequency(s string) (ChangeFrequency, bool) {
	switch f := ChangeFrequency(strings.ToLower(strings.TrimSpace(s))); f {
	case Always, Hourly, Daily, Weekly, Monthly, Yearly, Never:
		return f, true
	}
	return "", false
}

// FrequencyForPeriod maps the average time between edits onto a frequency.
// Comparisons are strict, so a period sitting exactly on a boundary falls
// into the coarser bucket.
func FrequencyForPeriod(period time.Duration) ChangeFrequency {
	switch {
	case period > year:
		return Yearly
	case period > 30*day:
		return Monthly
	case period > 7*day:
		return Weekly
	case period > day:
		return Daily
	case period > time.Hour:
		return Hourly
	default:
		return Always
	}
}

// EstimateFrequency guesses a change frequency from an item's age and the
// number of versions it went through. A zero created time counts as now and
// versions below one count as one.
func EstimateFrequency(created time.Time, versions int, now time.Time) ChangeFrequency {
	if created.IsZero() {
		created = now
	}
	if versions < 1 {
		versions = 1
	}
	age := now.Sub(created)
	return FrequencyForPeriod(age / time.Duration(versions+1))
}
