package journal

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/at-ishikawa/moodlog/internal/assets"
	"github.com/at-ishikawa/moodlog/internal/mood"
	"github.com/at-ishikawa/moodlog/internal/statistics"
)

// RenderMarkdown writes entries as a Markdown journal grouped by date.
// Each day is labelled with its dominant mood from records, if any was logged that day.
func RenderMarkdown(w io.Writer, templatePath, title string, entries []Entry, records []mood.Record) error {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	SortByDate(sorted)

	dominant := make(map[string]mood.Mood)
	if len(sorted) > 0 {
		result := statistics.Aggregate(records, statistics.Filter{
			StartDate: sorted[0].Date,
			EndDate:   sorted[len(sorted)-1].Date,
		}, time.Time{})
		for _, day := range result.DailyData {
			dominant[day.Date] = day.Mood
		}
	}

	var days []assets.JournalDay
	for _, e := range sorted {
		if len(days) == 0 || days[len(days)-1].Date != e.Date {
			days = append(days, assets.JournalDay{Date: e.Date, Mood: string(dominant[e.Date])})
		}
		last := &days[len(days)-1]
		last.Entries = append(last.Entries, assets.JournalEntry{Timestamp: e.Timestamp, Text: e.Text})
	}

	if err := assets.WriteJournal(w, templatePath, assets.JournalTemplate{
		Title:   title,
		Entries: len(sorted),
		Days:    days,
	}); err != nil {
		return fmt.Errorf("assets.WriteJournal() > %w", err)
	}
	return nil
}

var boldPattern = regexp.MustCompile(`\*\*([^*]+)\*\*`)

// PlainQuotes drops **bold** markers from the blockquote lines of a rendered journal.
// The PDF renderer sets quoted timestamps in italic and cannot mix bold runs into them.
func PlainQuotes(markdown []byte) []byte {
	lines := strings.Split(string(markdown), "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "> ") {
			lines[i] = boldPattern.ReplaceAllString(line, "$1")
		}
	}
	return []byte(strings.Join(lines, "\n"))
}
