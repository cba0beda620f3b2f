package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/moodlog/internal/config"
	"github.com/at-ishikawa/moodlog/internal/datasync"
	"github.com/at-ishikawa/moodlog/internal/storage"
)

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Move data between storage backends",
	}
	migrateCmd.AddCommand(newMigrateImportDBCommand())
	return migrateCmd
}

func newMigrateImportDBCommand() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import-db",
		Short: "Import the JSON data files into the configured database",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Storage.Driver != config.DriverMySQL && cfg.Storage.Driver != config.DriverSQLite {
				return fmt.Errorf("storage.driver must be %s or %s to import into a database, got %q",
					config.DriverMySQL, config.DriverSQLite, cfg.Storage.Driver)
			}

			source, err := storage.OpenJSON(cfg.Storage, time.Now)
			if err != nil {
				return fmt.Errorf("storage.OpenJSON() > %w", err)
			}
			destination, closeDestination, err := storage.Open(ctx, *cfg, time.Now)
			if err != nil {
				return fmt.Errorf("storage.Open() > %w", err)
			}
			defer func() {
				_ = closeDestination()
			}()

			records, err := source.Moods.FindAll(ctx)
			if err != nil {
				return fmt.Errorf("source.Moods.FindAll() > %w", err)
			}
			entries, err := source.Journal.FindAll(ctx)
			if err != nil {
				return fmt.Errorf("source.Journal.FindAll() > %w", err)
			}

			out := cmd.OutOrStdout()
			opts := datasync.ImportOptions{DryRun: dryRun}
			importer := datasync.NewImporter(destination.Moods, destination.Journal, out)
			moodResult, err := importer.ImportMoodRecords(ctx, records, opts)
			if err != nil {
				return fmt.Errorf("importer.ImportMoodRecords() > %w", err)
			}
			journalResult, err := importer.ImportJournalEntries(ctx, entries, opts)
			if err != nil {
				return fmt.Errorf("importer.ImportJournalEntries() > %w", err)
			}

			if !dryRun {
				settings, err := source.Notifications.Read(ctx)
				if err != nil {
					return fmt.Errorf("source.Notifications.Read() > %w", err)
				}
				if err := destination.Notifications.Write(ctx, settings); err != nil {
					return fmt.Errorf("destination.Notifications.Write() > %w", err)
				}
			}

			fmt.Fprintln(out)
			if dryRun {
				fmt.Fprintln(out, "Import Summary (dry run):")
			} else {
				fmt.Fprintln(out, "Import Summary:")
			}
			fmt.Fprintf(out, "  Mood records:    %d new, %d skipped, %d invalid\n",
				moodResult.MoodsNew, moodResult.MoodsSkipped, moodResult.MoodsInvalid)
			fmt.Fprintf(out, "  Journal entries: %d new, %d skipped\n",
				journalResult.JournalNew, journalResult.JournalSkipped)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be imported without writing")
	return cmd
}
