// Package datasync copies mood records and journal entries between storage backends and exports them.
package datasync

import (
	"context"
	"fmt"
	"io"

	"github.com/at-ishikawa/moodlog/internal/journal"
	"github.com/at-ishikawa/moodlog/internal/mood"
	"github.com/at-ishikawa/moodlog/internal/notification"
)

// ImportResult tracks counts for each import operation.
type ImportResult struct {
	MoodsNew       int
	MoodsSkipped   int
	MoodsInvalid   int
	JournalNew     int
	JournalSkipped int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun bool
}

// Importer writes records read from one backend into another.
type Importer struct {
	moodRepo    mood.Repository
	journalRepo journal.Repository
	writer      io.Writer
}

// NewImporter creates a new Importer that writes into moodRepo and journalRepo.
func NewImporter(moodRepo mood.Repository, journalRepo journal.Repository, writer io.Writer) *Importer {
	return &Importer{
		moodRepo:    moodRepo,
		journalRepo: journalRepo,
		writer:      writer,
	}
}

func moodKey(r mood.Record) string {
	return r.Stamp + "\x00" + string(r.Mood)
}

// ImportMoodRecords adds the records that the destination does not have yet.
// A record is identified by its stamp and mood.
func (imp *Importer) ImportMoodRecords(ctx context.Context, records []mood.Record, opts ImportOptions) (*ImportResult, error) {
	existing, err := imp.moodRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("moodRepo.FindAll() > %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, r := range existing {
		seen[moodKey(r)] = true
	}

	var result ImportResult
	var newRecords []mood.Record
	for _, r := range records {
		if !r.Mood.Valid() {
			fmt.Fprintf(imp.writer, "  [INVALID]  %s %q\n", r.Stamp, r.Mood)
			result.MoodsInvalid++
			continue
		}
		key := moodKey(r)
		if seen[key] {
			fmt.Fprintf(imp.writer, "  [SKIP]  %s %s\n", r.Stamp, r.Mood)
			result.MoodsSkipped++
			continue
		}
		seen[key] = true
		fmt.Fprintf(imp.writer, "  [NEW]  %s %s\n", r.Stamp, r.Mood)
		newRecords = append(newRecords, mood.Record{Stamp: r.Stamp, Mood: r.Mood})
		result.MoodsNew++
	}

	if !opts.DryRun && len(newRecords) > 0 {
		if err := imp.moodRepo.BatchCreate(ctx, newRecords); err != nil {
			return nil, fmt.Errorf("moodRepo.BatchCreate() > %w", err)
		}
	}
	return &result, nil
}

func journalKey(e journal.Entry) string {
	return e.Date + "\x00" + e.Timestamp + "\x00" + e.Text
}

// ImportJournalEntries adds the entries that the destination does not have yet.
// An entry is identified by its date, timestamp and text.
func (imp *Importer) ImportJournalEntries(ctx context.Context, entries []journal.Entry, opts ImportOptions) (*ImportResult, error) {
	existing, err := imp.journalRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("journalRepo.FindAll() > %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[journalKey(e)] = true
	}

	var result ImportResult
	var newEntries []journal.Entry
	for _, e := range entries {
		key := journalKey(e)
		if seen[key] {
			fmt.Fprintf(imp.writer, "  [SKIP]  %s %s\n", e.Date, e.Timestamp)
			result.JournalSkipped++
			continue
		}
		seen[key] = true
		fmt.Fprintf(imp.writer, "  [NEW]  %s %s\n", e.Date, e.Timestamp)
		newEntries = append(newEntries, journal.Entry{Date: e.Date, Text: e.Text, Timestamp: e.Timestamp})
		result.JournalNew++
	}

	if !opts.DryRun && len(newEntries) > 0 {
		if err := imp.journalRepo.BatchCreate(ctx, newEntries); err != nil {
			return nil, fmt.Errorf("journalRepo.BatchCreate() > %w", err)
		}
	}
	return &result, nil
}

// ExportData holds everything read from a backend.
type ExportData struct {
	Moods         []mood.Record
	Journal       []journal.Entry
	Notifications notification.Settings
}

// Exporter reads all data from a backend.
type Exporter struct {
	moodRepo         mood.Repository
	journalRepo      journal.Repository
	notificationRepo notification.Repository
}

// NewExporter creates a new Exporter.
func NewExporter(moodRepo mood.Repository, journalRepo journal.Repository, notificationRepo notification.Repository) *Exporter {
	return &Exporter{
		moodRepo:         moodRepo,
		journalRepo:      journalRepo,
		notificationRepo: notificationRepo,
	}
}

// Export reads all records, entries and the notification settings.
func (e *Exporter) Export(ctx context.Context) (*ExportData, error) {
	moods, err := e.moodRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("moodRepo.FindAll() > %w", err)
	}

	entries, err := e.journalRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("journalRepo.FindAll() > %w", err)
	}
	journal.SortByDate(entries)

	settings, err := e.notificationRepo.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("notificationRepo.Read() > %w", err)
	}

	return &ExportData{
		Moods:         moods,
		Journal:       entries,
		Notifications: settings,
	}, nil
}
