package sitemap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		raw  string
		want Priority
		set  bool
	}{
		{"", 0, false},
		{"  ", 0, false},
		{"-1", Excluded, true},
		{"-1.0", Excluded, true},
		{"0", 0, true},
		{"0.0", 0, true},
		{"0.4", 0.4, true},
		{"1", 1, true},
		{"1.0", 1, true},
		{"0,7", 0.7, true},
		{"foo", FallbackPriority, true},
		{"1.1", FallbackPriority, true},
		{"-0.5", FallbackPriority, true},
		{"NaN", FallbackPriority, true},
	}
	for _, tt := range tests {
		got, set := ParsePriority(tt.raw)
		assert.Equal(t, tt.set, set, "ParsePriority(%q) set", tt.raw)
		assert.Equal(t, tt.want, got, "ParsePriority(%q)", tt.raw)
	}
}

func TestPriorityString(t *testing.T) {
	assert.Equal(t, "1.0", Priority(1).String())
	assert.Equal(t, "0.7", DepthPriority(3).String())
	assert.Equal(t, "0.25", Priority(0.25).String())
	assert.Equal(t, "0.0", Priority(0).String())
}

func TestDepthPriorityDecays(t *testing.T) {
	assert.Equal(t, Priority(1), DepthPriority(0))
	assert.Equal(t, Priority(0.9), DepthPriority(1))
	assert.Equal(t, Priority(0.1), DepthPriority(9))
	assert.Equal(t, Priority(0.1), DepthPriority(25))

	prev := DepthPriority(0)
	for d := 1; d < 20; d++ {
		p := DepthPriority(d)
		assert.LessOrEqual(t, float64(p), float64(prev), "depth %d", d)
		assert.GreaterOrEqual(t, float64(p), 0.1)
		prev = p
	}
}

func TestPriorityOptions(t *testing.T) {
	assert.True(t, IsPriorityOption(""))
	assert.True(t, IsPriorityOption("-1"))
	assert.True(t, IsPriorityOption("0.3"))
	assert.False(t, IsPriorityOption("0.35"))
	assert.Len(t, PriorityOptions(), 12)
}

func TestFrequencyForPeriodBoundaries(t *testing.T) {
	tests := []struct {
		period time.Duration
		want   ChangeFrequency
	}{
		{0, Always},
		{time.Hour, Always},
		{time.Hour + time.Second, Hourly},
		{day, Hourly},
		{day + time.Second, Daily},
		{7 * day, Daily},
		{7*day + time.Second, Weekly},
		{30 * day, Weekly},
		{30*day + time.Second, Monthly},
		{year, Monthly},
		{year + time.Second, Yearly},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FrequencyForPeriod(tt.period), "period %s", tt.period)
	}
}

func TestFrequencyForPeriodIsMonotonic(t *testing.T) {
	rank := map[ChangeFrequency]int{Always: 0, Hourly: 1, Daily: 2, Weekly: 3, Monthly: 4, Yearly: 5}
	prev := rank[FrequencyForPeriod(0)]
	for p := time.Duration(0); p < 2*year; p += 37 * time.Minute {
		r := rank[FrequencyForPeriod(p)]
		if r < prev {
			t.Fatalf("frequency rank dropped at %s: %d < %d", p, r, prev)
		}
		prev = r
	}
}

func TestEstimateFrequency(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	// 400 days old, one version: period 200 days.
	assert.Equal(t, Monthly, EstimateFrequency(now.Add(-400*day), 1, now))
	// 800 days old, one version: period 400 days.
	assert.Equal(t, Yearly, EstimateFrequency(now.Add(-800*day), 1, now))
	// 10 days old, 99 versions: period 2.4 hours.
	assert.Equal(t, Hourly, EstimateFrequency(now.Add(-10*day), 99, now))
	// Missing creation time counts as now.
	assert.Equal(t, Always, EstimateFrequency(time.Time{}, 3, now))
	// Missing version count counts as one.
	assert.Equal(t, EstimateFrequency(now.Add(-30*day), 1, now), EstimateFrequency(now.Add(-30*day), 0, now))
}

func TestParseChangeFrequency(t *testing.T) {
	f, ok := ParseChangeFrequency(" Weekly ")
	assert.True(t, ok)
	assert.Equal(t, Weekly, f)

	f, ok = ParseChangeFrequency("never")
	assert.True(t, ok)
	assert.Equal(t, Never, f)

	_, ok = ParseChangeFrequency("fortnightly")
	assert.False(t, ok)
}
