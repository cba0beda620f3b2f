package assets

import (
	_ "embed"
	"fmt"
	"io"
)

const journalTemplateName = "journal.md.go.tmpl"

//go:embed templates/journal.md.go.tmpl
var fallbackJournalTemplate string

// JournalTemplate is the data of the journal export template.
type JournalTemplate struct {
	Title   string
	Entries int
	Days    []JournalDay
}

// JournalDay groups the entries written for one date.
// Mood is the dominant mood of the day, if any was logged.
type JournalDay struct {
	Date    string
	Mood    string
	Entries []JournalEntry
}

type JournalEntry struct {
	Timestamp string
	Text      string
}

// WriteJournal renders the journal as Markdown.
// templatePath overrides the embedded template when it names a readable file.
func WriteJournal(output io.Writer, templatePath string, templateData JournalTemplate) error {
	tmpl, err := parseTemplateWithFallback(templatePath, journalTemplateName, fallbackJournalTemplate)
	if err != nil {
		return fmt.Errorf("parseTemplateWithFallback() > %w", err)
	}
	if err := tmpl.Execute(output, templateData); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
