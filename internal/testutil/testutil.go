// Package testutil provides shared test helpers for creating config files and data fixtures.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/moodlog/internal/journal"
	"github.com/at-ishikawa/moodlog/internal/jsonfile"
	"github.com/at-ishikawa/moodlog/internal/mood"
)

type testConfig struct {
	driver    string
	serverURL string
}

// ConfigOption configures optional settings of the generated config file.
type ConfigOption func(*testConfig)

// WithSQLite stores the data in a SQLite database inside the temporary directory.
func WithSQLite() ConfigOption {
	return func(c *testConfig) {
		c.driver = "sqlite"
	}
}

// WithServerURL points the API client at serverURL.
func WithServerURL(serverURL string) ConfigOption {
	return func(c *testConfig) {
		c.serverURL = serverURL
	}
}

// SetupTestConfig creates a config file and the data directory for testing.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string, opts ...ConfigOption) string {
	t.Helper()

	c := testConfig{
		driver:    "json",
		serverURL: "http://127.0.0.1:1",
	}
	for _, opt := range opts {
		opt(&c)
	}

	require.NoError(t, os.MkdirAll(DataDirectory(tmpDir), 0755))

	configContent := fmt.Sprintf(`storage:
  driver: %s
  data_directory: %s
database:
  sqlite_path: %s
client:
  base_url: %s
  timeout_seconds: 5
  retry_attempts: 0
reminder:
  poll_interval_seconds: 1
outputs:
  export_directory: %s
`,
		c.driver,
		DataDirectory(tmpDir),
		filepath.Join(tmpDir, "moodlog.db"),
		strings.TrimSuffix(c.serverURL, "/"),
		ExportDirectory(tmpDir),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// DataDirectory returns the JSON data directory used by SetupTestConfig.
func DataDirectory(tmpDir string) string {
	return filepath.Join(tmpDir, "data")
}

// ExportDirectory returns the export directory used by SetupTestConfig.
func ExportDirectory(tmpDir string) string {
	return filepath.Join(tmpDir, "export")
}

// WriteMoodRecords writes records to the mood data file of dataDir.
func WriteMoodRecords(t *testing.T, dataDir string, records ...mood.Record) {
	t.Helper()
	if records == nil {
		records = []mood.Record{}
	}
	require.NoError(t, jsonfile.Write(filepath.Join(dataDir, "mood_data.json"), records))
}

// WriteJournalEntries writes entries to the journal data file of dataDir.
func WriteJournalEntries(t *testing.T, dataDir string, entries ...journal.Entry) {
	t.Helper()
	if entries == nil {
		entries = []journal.Entry{}
	}
	require.NoError(t, jsonfile.Write(filepath.Join(dataDir, "journal_data.json"), entries))
}
