package main

import (
	"bytes"
	"context"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/moodlog/internal/config"
	"github.com/at-ishikawa/moodlog/internal/datasync"
	"github.com/at-ishikawa/moodlog/internal/journal"
	"github.com/at-ishikawa/moodlog/internal/mood"
	"github.com/at-ishikawa/moodlog/internal/server"
	"github.com/at-ishikawa/moodlog/internal/storage"
	"github.com/at-ishikawa/moodlog/internal/testutil"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func runCommand(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { configFile = "" })

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

// startServer serves the web handler over JSON files in dataDir.
func startServer(t *testing.T, dataDir string) *httptest.Server {
	t.Helper()
	repos, err := storage.OpenJSON(config.StorageConfig{
		Driver:            config.DriverJSON,
		DataDirectory:     dataDir,
		MoodFile:          "mood_data.json",
		JournalFile:       "journal_data.json",
		NotificationsFile: "notifications_settings.json",
	}, time.Now)
	require.NoError(t, err)

	handler, err := server.NewHandler(repos.Moods, repos.Journal, repos.Notifications, time.Now)
	require.NoError(t, err)
	ts := httptest.NewServer(handler.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func fixtureRecords() []mood.Record {
	return []mood.Record{
		{Stamp: "2024-05-01 09:00", Mood: mood.Happy},
		{Stamp: "2024-05-01 10:00", Mood: mood.Happy},
		{Stamp: "2024-05-02 08:00", Mood: mood.Sad},
	}
}

func fixtureEntries() []journal.Entry {
	return []journal.Entry{
		{Date: "2024-05-02", Text: "rainy day", Timestamp: "2024-05-02 21:00:00"},
		{Date: "2024-05-01", Text: "good walk", Timestamp: "2024-05-01 20:00:00"},
	}
}

func TestSetupLogger(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	tests := []struct {
		name      string
		debugMode bool
		wantDebug bool
	}{
		{name: "info level", debugMode: false, wantDebug: false},
		{name: "debug level", debugMode: true, wantDebug: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupLogger(tt.debugMode)
			ctx := context.Background()
			assert.Equal(t, tt.wantDebug, slog.Default().Enabled(ctx, slog.LevelDebug))
			assert.True(t, slog.Default().Enabled(ctx, slog.LevelInfo))
		})
	}
}

func TestMoodFlag_Set(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    MoodFlag
		wantErr bool
	}{
		{name: "happy", value: "happy", want: MoodFlag(mood.Happy)},
		{name: "calm", value: "calm", want: MoodFlag(mood.Calm)},
		{name: "unknown mood", value: "bored", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m MoodFlag
			err := m.Set(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m)
			assert.Equal(t, tt.value, m.String())
		})
	}
}

func TestMoodFlag_Type(t *testing.T) {
	var m MoodFlag
	assert.Equal(t, "MoodFlag", m.Type())
	assert.Equal(t, "", (*MoodFlag)(nil).String())
}

func TestNewRootCommand(t *testing.T) {
	cmd := newRootCommand()
	assert.Equal(t, "moodlog", cmd.Use)
	for _, name := range []string{"mood", "journal", "stats", "notifications", "remind", "migrate", "export"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("debug"))
}

func TestMoodCommand(t *testing.T) {
	tmpDir := t.TempDir()
	dataDir := filepath.Join(tmpDir, "server")
	ts := startServer(t, dataDir)
	cfgPath := testutil.SetupTestConfig(t, tmpDir, testutil.WithServerURL(ts.URL))

	t.Run("saves a mood", func(t *testing.T) {
		out, err := runCommand(t, cfgPath, "mood", "happy")
		require.NoError(t, err)
		assert.Equal(t, "Saved happy.\n"+mood.Happy.Message()+"\n", out)

		repos, err := storage.OpenJSON(config.StorageConfig{
			DataDirectory:     dataDir,
			MoodFile:          "mood_data.json",
			JournalFile:       "journal_data.json",
			NotificationsFile: "notifications_settings.json",
		}, time.Now)
		require.NoError(t, err)
		records, err := repos.Moods.FindAll(context.Background())
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, mood.Happy, records[0].Mood)
	})

	t.Run("rejects an unknown mood", func(t *testing.T) {
		_, err := runCommand(t, cfgPath, "mood", "bored")
		assert.Error(t, err)
	})

	t.Run("requires one argument", func(t *testing.T) {
		_, err := runCommand(t, cfgPath, "mood")
		assert.Error(t, err)
	})
}

func TestMoodCommand_ServerUnavailable(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := testutil.SetupTestConfig(t, tmpDir)

	_, err := runCommand(t, cfgPath, "mood", "sad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apiClient.SaveMood()")
}

func TestJournalCommands(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := testutil.SetupTestConfig(t, tmpDir)
	dataDir := testutil.DataDirectory(tmpDir)
	testutil.WriteMoodRecords(t, dataDir, fixtureRecords()...)
	testutil.WriteJournalEntries(t, dataDir, fixtureEntries()...)

	t.Run("add", func(t *testing.T) {
		out, err := runCommand(t, cfgPath, "journal", "add", "--date", "2024-05-03", "--text", "new entry")
		require.NoError(t, err)
		assert.Equal(t, "Entry saved for 2024-05-03.\n", out)
	})

	t.Run("add rejects a malformed date", func(t *testing.T) {
		_, err := runCommand(t, cfgPath, "journal", "add", "--date", "05/03/2024", "--text", "x")
		assert.Error(t, err)
	})

	t.Run("add requires text", func(t *testing.T) {
		_, err := runCommand(t, cfgPath, "journal", "add", "--date", "2024-05-03")
		assert.Error(t, err)
	})

	t.Run("list sorts by date", func(t *testing.T) {
		out, err := runCommand(t, cfgPath, "journal", "list")
		require.NoError(t, err)
		first := strings.Index(out, "good walk")
		second := strings.Index(out, "rainy day")
		third := strings.Index(out, "new entry")
		require.True(t, first >= 0 && second >= 0 && third >= 0, out)
		assert.Less(t, first, second)
		assert.Less(t, second, third)
	})

	t.Run("list filters by dominant mood", func(t *testing.T) {
		out, err := runCommand(t, cfgPath, "journal", "list", "--mood", "happy")
		require.NoError(t, err)
		assert.Equal(t, "2024-05-01\n  [2024-05-01 20:00:00] good walk\n", out)
	})

	t.Run("list without matching days", func(t *testing.T) {
		out, err := runCommand(t, cfgPath, "journal", "list", "--mood", "angry")
		require.NoError(t, err)
		assert.Equal(t, "No journal entries yet.\n", out)
	})
}

func TestEntriesOnMoodDays(t *testing.T) {
	records := append(fixtureRecords(), mood.Record{Stamp: "2024-05-02 09:00", Mood: mood.Calm})
	got := entriesOnMoodDays(fixtureEntries(), records, mood.Calm)
	// calm ties with sad on 2024-05-02 and wins by priority.
	assert.Equal(t, []journal.Entry{fixtureEntries()[0]}, got)
}

func TestStatsCommand(t *testing.T) {
	tmpDir := t.TempDir()
	dataDir := testutil.DataDirectory(tmpDir)

	t.Run("local", func(t *testing.T) {
		cfgPath := testutil.SetupTestConfig(t, tmpDir)
		testutil.WriteMoodRecords(t, dataDir, fixtureRecords()...)

		out, err := runCommand(t, cfgPath, "stats", "--local", "--period", "custom", "--start", "2024-05-01", "--end", "2024-05-02")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "Mood statistics (custom)\n"), out)
		assert.Contains(t, out, "66.67%")
		assert.Contains(t, out, "33.33%")
		assert.Contains(t, out, "Total: 3\n")
		assert.Contains(t, out, "2024-05-01  happy     (2)\n")
		assert.Contains(t, out, "2024-05-02  sad       (1)\n")
	})

	t.Run("empty end removes the upper bound", func(t *testing.T) {
		cfgPath := testutil.SetupTestConfig(t, tmpDir)
		testutil.WriteMoodRecords(t, dataDir, append(fixtureRecords(), mood.Record{Stamp: "2999-01-01 09:00", Mood: mood.Calm})...)

		out, err := runCommand(t, cfgPath, "stats", "--local", "--end", "")
		require.NoError(t, err)
		assert.Contains(t, out, "Total: 4\n")
		assert.Contains(t, out, "2999-01-01  calm      (1)\n")

		out, err = runCommand(t, cfgPath, "stats", "--local")
		require.NoError(t, err)
		assert.Contains(t, out, "Total: 3\n")
	})

	t.Run("through the server", func(t *testing.T) {
		serverDir := filepath.Join(tmpDir, "server")
		ts := startServer(t, serverDir)
		testutil.WriteMoodRecords(t, serverDir, fixtureRecords()...)
		cfgPath := testutil.SetupTestConfig(t, tmpDir, testutil.WithServerURL(ts.URL))

		out, err := runCommand(t, cfgPath, "stats", "--period", "month", "--start", "2024-05-02", "--end", "2024-05-31")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "Mood statistics (month)\n"), out)
		assert.Contains(t, out, "Total: 1\n")
		assert.Contains(t, out, "100.00%")
	})
}

func TestNotificationsCommands_Local(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := testutil.SetupTestConfig(t, tmpDir)

	out, err := runCommand(t, cfgPath, "notifications", "show", "--local")
	require.NoError(t, err)
	assert.Contains(t, out, "Reminders: enabled\n")
	assert.Contains(t, out, "Times:     09:00, 12:00, 18:00\n")

	out, err = runCommand(t, cfgPath, "notifications", "set", "--local", "--time", "07:00,21:00", "--frequency", "1", "--theme", "calm")
	require.NoError(t, err)
	assert.Equal(t, "Notification settings saved!\n", out)

	out, err = runCommand(t, cfgPath, "notifications", "show", "--local")
	require.NoError(t, err)
	assert.Contains(t, out, "Reminders: enabled\n")
	assert.Contains(t, out, "Times:     07:00, 21:00\n")
	assert.Contains(t, out, "Active:    07:00\n")
	assert.Contains(t, out, "Frequency: 1\n")
	assert.Contains(t, out, "Theme:     calm\n")

	t.Run("invalid time is rejected", func(t *testing.T) {
		_, err := runCommand(t, cfgPath, "notifications", "set", "--local", "--time", "25:00")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid notification settings")

		out, err := runCommand(t, cfgPath, "notifications", "show", "--local")
		require.NoError(t, err)
		assert.Contains(t, out, "Times:     07:00, 21:00\n")
	})
}

func TestNotificationsCommands_Server(t *testing.T) {
	tmpDir := t.TempDir()
	ts := startServer(t, filepath.Join(tmpDir, "server"))
	cfgPath := testutil.SetupTestConfig(t, tmpDir, testutil.WithServerURL(ts.URL))

	_, err := runCommand(t, cfgPath, "notifications", "set", "--enabled=false")
	require.NoError(t, err)

	out, err := runCommand(t, cfgPath, "notifications", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Reminders: disabled\n")
	assert.Contains(t, out, "Theme:     positive\n")
	assert.Contains(t, out, "Saved at:  ")
}

func TestReloadEvery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	reloaded := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		reloadEvery(ctx, time.Millisecond, func() {
			select {
			case reloaded <- struct{}{}:
			default:
			}
		})
		close(done)
	}()

	select {
	case <-reloaded:
	case <-time.After(time.Second):
		t.Fatal("reload was not called")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reloadEvery did not return after cancel")
	}
}

func TestMigrateImportDB(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := testutil.SetupTestConfig(t, tmpDir, testutil.WithSQLite())
	dataDir := testutil.DataDirectory(tmpDir)
	testutil.WriteMoodRecords(t, dataDir, append(fixtureRecords(), mood.Record{Stamp: "2024-05-03 08:00", Mood: "bored"})...)
	testutil.WriteJournalEntries(t, dataDir, fixtureEntries()...)

	t.Run("dry run writes nothing", func(t *testing.T) {
		out, err := runCommand(t, cfgPath, "migrate", "import-db", "--dry-run")
		require.NoError(t, err)
		assert.Contains(t, out, "Import Summary (dry run):\n")
		assert.Contains(t, out, "  Mood records:    3 new, 0 skipped, 1 invalid\n")
	})

	t.Run("imports", func(t *testing.T) {
		out, err := runCommand(t, cfgPath, "migrate", "import-db")
		require.NoError(t, err)
		assert.Contains(t, out, "  [NEW]  2024-05-01 09:00 happy\n")
		assert.Contains(t, out, "  [INVALID]  2024-05-03 08:00 \"bored\"\n")
		assert.Contains(t, out, "Import Summary:\n")
		assert.Contains(t, out, "  Mood records:    3 new, 0 skipped, 1 invalid\n")
		assert.Contains(t, out, "  Journal entries: 2 new, 0 skipped\n")
	})

	t.Run("re-running skips imported data", func(t *testing.T) {
		out, err := runCommand(t, cfgPath, "migrate", "import-db")
		require.NoError(t, err)
		assert.Contains(t, out, "  Mood records:    0 new, 3 skipped, 1 invalid\n")
		assert.Contains(t, out, "  Journal entries: 0 new, 2 skipped\n")
	})

	t.Run("stats read the database", func(t *testing.T) {
		out, err := runCommand(t, cfgPath, "stats", "--local", "--start", "2024-05-01", "--end", "2024-05-31")
		require.NoError(t, err)
		assert.Contains(t, out, "Total: 3\n")
	})
}

func TestMigrateImportDB_RequiresDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := testutil.SetupTestConfig(t, tmpDir)

	_, err := runCommand(t, cfgPath, "migrate", "import-db")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.driver must be mysql or sqlite")
}

func TestExportYAML(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := testutil.SetupTestConfig(t, tmpDir)
	dataDir := testutil.DataDirectory(tmpDir)
	testutil.WriteMoodRecords(t, dataDir, fixtureRecords()...)
	testutil.WriteJournalEntries(t, dataDir, fixtureEntries()...)

	out, err := runCommand(t, cfgPath, "export", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 3 mood records and 2 journal entries:\n")

	exportDir := testutil.ExportDirectory(tmpDir)
	for _, name := range []string{datasync.MoodRecordsFile, datasync.JournalEntriesFile, datasync.NotificationSettingsFile} {
		assert.FileExists(t, filepath.Join(exportDir, name))
		assert.Contains(t, out, filepath.Join(exportDir, name))
	}

	t.Run("custom output directory", func(t *testing.T) {
		outputDir := filepath.Join(tmpDir, "custom")
		_, err := runCommand(t, cfgPath, "export", "yaml", "--output", outputDir)
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(outputDir, datasync.MoodRecordsFile))
	})
}

func TestExportJournalPDF_MarkdownOnly(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := testutil.SetupTestConfig(t, tmpDir)
	dataDir := testutil.DataDirectory(tmpDir)
	testutil.WriteMoodRecords(t, dataDir, fixtureRecords()...)
	testutil.WriteJournalEntries(t, dataDir, fixtureEntries()...)

	out, err := runCommand(t, cfgPath, "export", "journal-pdf", "--markdown-only", "--title", "May")
	require.NoError(t, err)

	markdownPath := filepath.Join(testutil.ExportDirectory(tmpDir), "journal.md")
	assert.Equal(t, "Markdown written to "+markdownPath+"\n", out)
	content, err := os.ReadFile(markdownPath)
	require.NoError(t, err)
	assert.Equal(t, "# May\n"+
		"\n## 2024-05-01 (happy)\n\n> 2024-05-01 20:00:00\n\ngood walk\n"+
		"\n## 2024-05-02 (sad)\n\n> 2024-05-02 21:00:00\n\nrainy day\n"+
		"\n", string(content))
	assert.NoFileExists(t, filepath.Join(testutil.ExportDirectory(tmpDir), "journal.pdf"))
}

func TestExportJournalPDF(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := testutil.SetupTestConfig(t, tmpDir)
	dataDir := testutil.DataDirectory(tmpDir)
	testutil.WriteMoodRecords(t, dataDir, fixtureRecords()...)
	testutil.WriteJournalEntries(t, dataDir, journal.Entry{Date: "2024-05-01", Text: "> **quoted** note", Timestamp: "2024-05-01 20:00:00"})

	out, err := runCommand(t, cfgPath, "export", "journal-pdf")
	require.NoError(t, err)

	exportDir := testutil.ExportDirectory(tmpDir)
	pdfPath := filepath.Join(exportDir, "journal.pdf")
	assert.Contains(t, out, "PDF written to "+pdfPath+"\n")
	assert.FileExists(t, pdfPath)

	content, err := os.ReadFile(filepath.Join(exportDir, "journal.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "> **quoted** note")
}
