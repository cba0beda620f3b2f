package datasync

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/moodlog/internal/journal"
	"github.com/at-ishikawa/moodlog/internal/mood"
)

// YAML file names written by YAMLSink.
const (
	MoodRecordsFile          = "mood_records.yml"
	JournalEntriesFile       = "journal_entries.yml"
	NotificationSettingsFile = "notification_settings.yml"
)

// YAMLSink writes exported data to YAML backup files.
type YAMLSink struct {
	outputDir string
}

// NewYAMLSink creates a new YAMLSink.
func NewYAMLSink(outputDir string) *YAMLSink {
	return &YAMLSink{outputDir: outputDir}
}

// WriteAll writes one file per kind of data and returns the written paths.
func (s *YAMLSink) WriteAll(data *ExportData) ([]string, error) {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	moods := data.Moods
	if moods == nil {
		moods = []mood.Record{}
	}
	entries := data.Journal
	if entries == nil {
		entries = []journal.Entry{}
	}

	files := []struct {
		name string
		data any
	}{
		{name: MoodRecordsFile, data: moods},
		{name: JournalEntriesFile, data: entries},
		{name: NotificationSettingsFile, data: data.Notifications},
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(s.outputDir, f.name)
		if err := writeYAML(path, f.data); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeYAML(path string, data any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	enc := yaml.NewEncoder(f)
	defer func() { _ = enc.Close() }()
	return enc.Encode(data)
}
