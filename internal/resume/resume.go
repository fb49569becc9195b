// Package resume loads candidate resume text from disk. Plain text, PDF and
// DOCX files are supported.
package resume

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Load reads the resume at path and returns its plain-text content. The
// format is chosen by file extension.
func Load(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("resume path is required")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", "":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read resume: %w", err)
		}
		return string(data), nil

	case ".pdf":
		return extractPDFText(path)

	case ".docx":
		return extractDocxText(path)

	default:
		return "", fmt.Errorf("unsupported resume format: %s", filepath.Ext(path))
	}
}

func extractPDFText(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("read pdf resume: %w", err)
	}
	defer file.Close()

	var builder strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, _ := page.GetPlainText(nil)
		builder.WriteString(text)
	}

	return builder.String(), nil
}

func extractDocxText(path string) (string, error) {
	doc, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", fmt.Errorf("parse docx resume: %w", err)
	}
	defer doc.Close()

	return doc.Editable().GetContent(), nil
}
