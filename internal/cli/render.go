// Package cli renders mood statistics, journal entries and settings for the terminal.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/at-ishikawa/moodlog/internal/journal"
	"github.com/at-ishikawa/moodlog/internal/mood"
	"github.com/at-ishikawa/moodlog/internal/notification"
	"github.com/at-ishikawa/moodlog/internal/statistics"
)

var moodColors = map[mood.Mood]*color.Color{
	mood.Happy: color.New(color.FgYellow),
	mood.Calm:  color.New(color.FgCyan),
	mood.Sad:   color.New(color.FgBlue),
	mood.Angry: color.New(color.FgRed),
}

func moodColor(m mood.Mood) *color.Color {
	if c, ok := moodColors[m]; ok {
		return c
	}
	return color.New(color.Reset)
}

// RenderStatistics writes the per-mood table, the total and the dominant mood of each day.
func RenderStatistics(w io.Writer, result statistics.Result) {
	bold := color.New(color.Bold)
	heading := fmt.Sprintf("Mood statistics (%s)", result.Period)
	bold.Fprintln(w, heading)
	fmt.Fprintln(w, strings.Repeat("=", len(heading)))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-8s  %5s  %8s\n", "Mood", "Count", "Percent")
	for _, m := range mood.PriorityOrder {
		moodColor(m).Fprintf(w, "%-8s", m)
		fmt.Fprintf(w, "  %5d  %7.2f%%\n", result.Counts[m], result.Percentages[m])
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total: %d\n", result.Total)

	if len(result.DailyData) == 0 {
		return
	}
	fmt.Fprintln(w)
	bold.Fprintln(w, "Daily")
	for _, day := range result.DailyData {
		fmt.Fprintf(w, "%s  ", day.Date)
		moodColor(day.Mood).Fprintf(w, "%-8s", day.Mood)
		fmt.Fprintf(w, "  (%d)\n", day.Count)
	}
}

// RenderJournal writes entries grouped by date, oldest first.
func RenderJournal(w io.Writer, entries []journal.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No journal entries yet.")
		return
	}

	sorted := make([]journal.Entry, len(entries))
	copy(sorted, entries)
	journal.SortByDate(sorted)

	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	var current string
	for _, e := range sorted {
		if e.Date != current {
			if current != "" {
				fmt.Fprintln(w)
			}
			bold.Fprintln(w, e.Date)
			current = e.Date
		}
		faint.Fprintf(w, "  [%s]", e.Timestamp)
		fmt.Fprintf(w, " %s\n", strings.ReplaceAll(e.Text, "\n", "\n    "))
	}
}

// RenderSettings writes the notification settings.
func RenderSettings(w io.Writer, settings notification.Settings) {
	state := color.New(color.FgRed).Sprint("disabled")
	if settings.Enabled {
		state = color.New(color.FgGreen).Sprint("enabled")
	}
	fmt.Fprintf(w, "Reminders: %s\n", state)
	fmt.Fprintf(w, "Times:     %s\n", strings.Join(settings.Times, ", "))
	fmt.Fprintf(w, "Active:    %s\n", strings.Join(settings.ActiveTimes(), ", "))
	fmt.Fprintf(w, "Frequency: %d\n", settings.Frequency)
	fmt.Fprintf(w, "Theme:     %s\n", settings.Theme)
	if settings.SavedAt != "" {
		fmt.Fprintf(w, "Saved at:  %s\n", settings.SavedAt)
	}
}
