package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/moodlog/internal/cli"
	"github.com/at-ishikawa/moodlog/internal/journal"
	"github.com/at-ishikawa/moodlog/internal/mood"
	"github.com/at-ishikawa/moodlog/internal/statistics"
)

func newJournalCommand() *cobra.Command {
	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "Write and read journal entries",
	}
	journalCmd.AddCommand(newJournalAddCommand(), newJournalListCommand())
	return journalCmd
}

func newJournalAddCommand() *cobra.Command {
	var date, text string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a journal entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if date == "" {
				date = now.Format(mood.DateLayout)
			}
			entry, err := journal.NewEntry(date, text, now)
			if err != nil {
				return err
			}

			_, repos, closeStorage, err := openStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStorage()

			if err := repos.Journal.Create(cmd.Context(), &entry); err != nil {
				return fmt.Errorf("repos.Journal.Create() > %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Entry saved for %s.\n", entry.Date)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date of the entry (YYYY-MM-DD), defaults to today")
	cmd.Flags().StringVar(&text, "text", "", "text of the entry")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newJournalListCommand() *cobra.Command {
	var moodFilter MoodFlag
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, repos, closeStorage, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage()

			entries, err := repos.Journal.FindAll(ctx)
			if err != nil {
				return fmt.Errorf("repos.Journal.FindAll() > %w", err)
			}

			if moodFilter != "" {
				records, err := repos.Moods.FindAll(ctx)
				if err != nil {
					return fmt.Errorf("repos.Moods.FindAll() > %w", err)
				}
				entries = entriesOnMoodDays(entries, records, mood.Mood(moodFilter))
			}

			cli.RenderJournal(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	cmd.Flags().Var(&moodFilter, "mood", "only show days whose dominant mood is this one")
	return cmd
}

func entriesOnMoodDays(entries []journal.Entry, records []mood.Record, m mood.Mood) []journal.Entry {
	result := statistics.Aggregate(records, statistics.Filter{HasEndDate: true}, time.Time{})
	days := make(map[string]bool, len(result.DailyData))
	for _, day := range result.DailyData {
		if day.Mood == m {
			days[day.Date] = true
		}
	}

	var filtered []journal.Entry
	for _, e := range entries {
		if days[e.Date] {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
