// Package pdf renders Markdown documents as PDF.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mandolyte/mdtopdf"
)

// Write renders markdown into a PDF at pdfPath, creating its directory when missing.
// It returns the absolute path of the written file.
func Write(markdown []byte, pdfPath string) (string, error) {
	if filepath.Ext(pdfPath) != ".pdf" {
		return "", fmt.Errorf("output file must have .pdf extension: %s", pdfPath)
	}
	if len(markdown) == 0 {
		return "", fmt.Errorf("no markdown to render for %s", pdfPath)
	}
	if err := os.MkdirAll(filepath.Dir(pdfPath), 0o755); err != nil {
		return "", fmt.Errorf("os.MkdirAll(%s) > %w", filepath.Dir(pdfPath), err)
	}

	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	renderer.UpdateBlockquoteStyler()
	if err := renderer.Process(markdown); err != nil {
		return "", fmt.Errorf("renderer.Process() > %w", err)
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}
	return absPath, nil
}
