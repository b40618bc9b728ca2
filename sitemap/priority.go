package sitemap

import (
	"math"
	"strconv"
	"strings"
)

// Priority is the crawler hint for a URL's relative importance, in [0, 1].
// The Excluded sentinel removes an item from the sitemap altogether.
type Priority float64

const (
	// Excluded marks an item that must not appear in any sitemap.
	Excluded Priority = -1

	// FallbackPriority is used for unregistered types and for manual
	// priorities that cannot be parsed.
	FallbackPriority Priority = 0.5

	// DefaultPriority is the priority given to registrations that do not
	// name one.
	DefaultPriority Priority = 0.6

	minDepthPriority Priority = 0.1
)

// IsExcluded reports whether p is the exclusion sentinel.
func (p Priority) IsExcluded() bool {
	return p == Excluded
}

// String formats p with a '.' decimal point and at least one fractional
// digit, independent of any locale.
func (p Priority) String() string {
	s := strconv.FormatFloat(float64(p), 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// ParsePriority interprets a manually entered priority. The second return
// value is false when raw is blank, meaning no manual priority was set.
// "-1" yields Excluded, numbers in [0, 1] are taken as is and anything
// else falls back to 0.5.
func ParsePriority(raw string) (Priority, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) {
		return FallbackPriority, true
	}
	if v == float64(Excluded) {
		return Excluded, true
	}
	if v < 0 || v > 1 {
		return FallbackPriority, true
	}
	return Priority(v), true
}

// DepthPriority derives a page's priority from the number of ancestors it
// has: 1.0 at the root, 0.1 less per level, never below 0.1.
func DepthPriority(depth int) Priority {
	if depth < 0 {
		depth = 0
	}
	if depth >= 9 {
		return minDepthPriority
	}
	return Priority(float64(10-depth) / 10)
}

// PriorityOption is one choice offered to editors for a page's manual
// priority.
type PriorityOption struct {
	Value string
	Label string
}

// PriorityOptions lists the manual priorities an editor may pick from. The
// blank value leaves the priority to be derived from the page depth.
func PriorityOptions() []PriorityOption {
	return []PriorityOption{
		{Value: "", Label: "Auto-set based on page depth"},
		{Value: "-1", Label: "Not indexed"},
		{Value: "1.0", Label: "1 - Most important"},
		{Value: "0.9", Label: "2"},
		{Value: "0.8", Label: "3"},
		{Value: "0.7", Label: "4"},
		{Value: "0.6", Label: "5"},
		{Value: "0.5", Label: "6"},
		{Value: "0.4", Label: "7"},
		{Value: "0.3", Label: "8"},
		{Value: "0.2", Label: "9"},
		{Value: "0.1", Label: "10 - Least important"},
	}
}

// IsPriorityOption reports whether v is one of PriorityOptions.
func IsPriorityOption(v string) bool {
	for _, o := range PriorityOptions() {
		if o.Value == v {
			return true
		}
	}
	return false
}
