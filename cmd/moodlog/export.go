package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/moodlog/internal/datasync"
	"github.com/at-ishikawa/moodlog/internal/journal"
	"github.com/at-ishikawa/moodlog/internal/pdf"
)

func newExportCommand() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the stored data",
	}
	exportCmd.AddCommand(newExportYAMLCommand(), newExportJournalPDFCommand())
	return exportCmd
}

func newExportYAMLCommand() *cobra.Command {
	var outputDir string
	cmd := &cobra.Command{
		Use:   "yaml",
		Short: "Export moods, journal entries and notification settings as YAML files",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, repos, closeStorage, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage()

			if outputDir == "" {
				outputDir = cfg.Outputs.ExportDirectory
			}
			data, err := datasync.NewExporter(repos.Moods, repos.Journal, repos.Notifications).Export(ctx)
			if err != nil {
				return fmt.Errorf("exporter.Export() > %w", err)
			}
			paths, err := datasync.NewYAMLSink(outputDir).WriteAll(data)
			if err != nil {
				return fmt.Errorf("sink.WriteAll() > %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Exported %d mood records and %d journal entries:\n", len(data.Moods), len(data.Journal))
			for _, path := range paths {
				fmt.Fprintf(out, "  %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory, defaults to outputs.export_directory")
	return cmd
}

func newExportJournalPDFCommand() *cobra.Command {
	var outputDir, templatePath, title string
	var markdownOnly bool
	cmd := &cobra.Command{
		Use:   "journal-pdf",
		Short: "Export the journal as a Markdown and PDF document",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, repos, closeStorage, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage()

			if outputDir == "" {
				outputDir = cfg.Outputs.ExportDirectory
			}
			entries, err := repos.Journal.FindAll(ctx)
			if err != nil {
				return fmt.Errorf("repos.Journal.FindAll() > %w", err)
			}
			records, err := repos.Moods.FindAll(ctx)
			if err != nil {
				return fmt.Errorf("repos.Moods.FindAll() > %w", err)
			}

			var markdown bytes.Buffer
			if err := journal.RenderMarkdown(&markdown, templatePath, title, entries, records); err != nil {
				return fmt.Errorf("journal.RenderMarkdown() > %w", err)
			}
			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				return fmt.Errorf("os.MkdirAll(%s) > %w", outputDir, err)
			}
			markdownPath := filepath.Join(outputDir, "journal.md")
			if err := os.WriteFile(markdownPath, markdown.Bytes(), 0o644); err != nil {
				return fmt.Errorf("os.WriteFile(%s) > %w", markdownPath, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Markdown written to %s\n", markdownPath)
			if markdownOnly {
				return nil
			}

			pdfPath, err := pdf.Write(journal.PlainQuotes(markdown.Bytes()), filepath.Join(outputDir, "journal.pdf"))
			if err != nil {
				return fmt.Errorf("pdf.Write() > %w", err)
			}
			fmt.Fprintf(out, "PDF written to %s\n", pdfPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory, defaults to outputs.export_directory")
	cmd.Flags().StringVar(&templatePath, "template", "", "Markdown template file; the built-in template is used when empty")
	cmd.Flags().StringVar(&title, "title", "Journal", "document title")
	cmd.Flags().BoolVar(&markdownOnly, "markdown-only", false, "skip the PDF conversion")
	return cmd
}
