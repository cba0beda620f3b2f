package assets

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
)

//go:embed templates/pages/*.html
var pageFiles embed.FS

// Page names of the HTML pages.
const (
	PageIndex         = "index"
	PageCalendar      = "calendar"
	PageJournal       = "journal"
	PageNotifications = "notifications"
	PageStatistics    = "statistics"
)

var pageNames = []string{PageIndex, PageCalendar, PageJournal, PageNotifications, PageStatistics}

// Pages renders the HTML pages, each wrapped in the shared layout.
type Pages struct {
	templates map[string]*template.Template
}

// ParsePages parses every embedded page.
func ParsePages() (*Pages, error) {
	funcMap := template.FuncMap{
		"join": strings.Join,
	}

	templates := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New(name).
			Funcs(funcMap).
			ParseFS(pageFiles, "templates/pages/layout.html", "templates/pages/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("template.ParseFS(%s) > %w", name, err)
		}
		templates[name] = tmpl
	}
	return &Pages{templates: templates}, nil
}

// Render writes the page called name with data.
func (p *Pages) Render(w io.Writer, name string, data any) error {
	tmpl, ok := p.templates[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		return fmt.Errorf("tmpl.ExecuteTemplate(%s) > %w", name, err)
	}
	return nil
}
