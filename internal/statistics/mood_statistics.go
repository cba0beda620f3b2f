// Package statistics aggregates mood records into counts, percentages and daily summaries.
package statistics

import (
	"math"
	"sort"
	"time"

	"github.com/at-ishikawa/moodlog/internal/mood"
)

// DefaultPeriod is the period label used when a request does not name one.
const DefaultPeriod = "week"

// Filter selects the records that take part in an aggregation.
// Bounds are inclusive YYYY-MM-DD dates. An empty or malformed bound is not applied,
// except that an EndDate that was never supplied means "today".
type Filter struct {
	Period    string
	StartDate string
	EndDate   string
	// HasEndDate marks EndDate as supplied even when it is empty.
	// A non-empty EndDate is always treated as supplied.
	HasEndDate bool
}

func (f Filter) endDateSupplied() bool {
	return f.HasEndDate || f.EndDate != ""
}

// DailySummary is the dominant mood of one calendar day.
type DailySummary struct {
	Date  string    `json:"date" yaml:"date"`
	Mood  mood.Mood `json:"mood" yaml:"mood"`
	Count int       `json:"count" yaml:"count"`
}

// Result holds the aggregate statistics of the selected records.
type Result struct {
	Counts      map[mood.Mood]int     `json:"counts" yaml:"counts"`
	Percentages map[mood.Mood]float64 `json:"percentages" yaml:"percentages"`
	Total       int                   `json:"total" yaml:"total"`
	DailyData   []DailySummary        `json:"daily_data" yaml:"daily_data"`
	Period      string                `json:"period" yaml:"period"`
}

type moodCounts map[mood.Mood]int

func newMoodCounts() moodCounts {
	counts := make(moodCounts, len(mood.All))
	for _, m := range mood.All {
		counts[m] = 0
	}
	return counts
}

// dominant returns the mood with the highest count, preferring earlier moods of mood.PriorityOrder on ties.
func (c moodCounts) dominant() mood.Mood {
	best := mood.PriorityOrder[0]
	for _, m := range mood.PriorityOrder[1:] {
		if c[m] > c[best] {
			best = m
		}
	}
	return best
}

// Aggregate computes statistics over records within filter's date range.
// today is the date used when no end date was supplied.
// Records whose stamp has no parseable date or whose mood is unknown are skipped.
func Aggregate(records []mood.Record, filter Filter, today time.Time) Result {
	start, hasStart := parseBound(filter.StartDate)
	end, hasEnd := parseBound(filter.EndDate)
	if !filter.endDateSupplied() {
		end, hasEnd = truncateToDate(today), true
	}

	counts := newMoodCounts()
	daily := make(map[string]moodCounts)
	total := 0

	for _, record := range records {
		date, ok := record.Date()
		if !ok || !record.Mood.Valid() {
			continue
		}
		if hasStart && date.Before(start) {
			continue
		}
		if hasEnd && date.After(end) {
			continue
		}

		counts[record.Mood]++
		total++

		key := date.Format(mood.DateLayout)
		if _, ok := daily[key]; !ok {
			daily[key] = newMoodCounts()
		}
		daily[key][record.Mood]++
	}

	return Result{
		Counts:      counts,
		Percentages: percentages(counts, total),
		Total:       total,
		DailyData:   summarize(daily),
		Period:      filter.Period,
	}
}

func parseBound(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	return mood.ParseDate(s)
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func percentages(counts moodCounts, total int) map[mood.Mood]float64 {
	result := make(map[mood.Mood]float64, len(counts))
	for m, count := range counts {
		if total == 0 {
			result[m] = 0
			continue
		}
		result[m] = roundTo2(float64(count) / float64(total) * 100)
	}
	return result
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

func summarize(daily map[string]moodCounts) []DailySummary {
	summaries := make([]DailySummary, 0, len(daily))
	for date, counts := range daily {
		dominant := counts.dominant()
		summaries = append(summaries, DailySummary{
			Date:  date,
			Mood:  dominant,
			Count: sumCounts(counts),
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Date < summaries[j].Date
	})
	return summaries
}

func sumCounts(counts moodCounts) int {
	total := 0
	for _, count := range counts {
		total += count
	}
	return total
}
