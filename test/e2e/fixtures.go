// Package e2e provides end-to-end tests; this file writes corpus files in every supported format.
package e2e

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/hyperjump/qanoon/internal/corpus"
)

// SupportedCorpusExtensions is the list of corpus file extensions used in E2E tests.
var SupportedCorpusExtensions = []string{".yaml", ".json", ".xlsx"}

var (
	documentColumns = []string{"id", "title", "description", "content", "category", "keywords", "legal_reference", "last_updated"}
	categoryColumns = []string{"id", "title", "description"}
)

// EncodeCorpus returns data encoded in the format named by ext.
func EncodeCorpus(ext string, data *corpus.Data) ([]byte, error) {
	switch ext {
	case ".yaml", ".yml":
		return yaml.Marshal(data)
	case ".json":
		return json.MarshalIndent(data, "", "  ")
	case ".xlsx":
		return encodeWorkbook(data)
	default:
		return nil, fmt.Errorf("unsupported corpus format %q", ext)
	}
}

// CorpusFileName returns the file name for a corpus in format ext.
func CorpusFileName(ext string) string {
	return "corpus" + ext
}

func encodeWorkbook(data *corpus.Data) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "documents"); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet("categories"); err != nil {
		return nil, err
	}

	if err := writeRow(f, "documents", 1, documentColumns); err != nil {
		return nil, err
	}
	for i, d := range data.Documents {
		row := []string{d.ID, d.Title, d.Description, d.Content, d.Category,
			strings.Join(d.Keywords, "; "), d.LegalReference, d.LastUpdated}
		if err := writeRow(f, "documents", i+2, row); err != nil {
			return nil, err
		}
	}

	if err := writeRow(f, "categories", 1, categoryColumns); err != nil {
		return nil, err
	}
	for i, c := range data.Categories {
		if err := writeRow(f, "categories", i+2, []string{c.ID, c.Title, c.Description}); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(sheet, cell, &cells)
}
