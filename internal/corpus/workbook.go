package corpus

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/qanoon/internal/models"
)

const (
	documentsSheet  = "documents"
	categoriesSheet = "categories"
)

// parseWorkbook reads a spreadsheet with a "documents" sheet and an optional
// "categories" sheet. The first row of each sheet names the columns; list
// columns (keywords, cross_references) are separated by ";".
func parseWorkbook(content []byte) (*Data, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	docRows, err := sheetRecords(f, documentsSheet)
	if err != nil {
		return nil, err
	}
	if docRows == nil {
		return nil, fmt.Errorf("workbook has no %q sheet", documentsSheet)
	}
	catRows, err := sheetRecords(f, categoriesSheet)
	if err != nil {
		return nil, err
	}

	data := &Data{}
	for _, r := range catRows {
		data.Categories = append(data.Categories, models.Category{
			ID:          r["id"],
			Title:       r["title"],
			Description: r["description"],
		})
	}
	for _, r := range docRows {
		data.Documents = append(data.Documents, &models.Document{
			ID:              r["id"],
			Title:           r["title"],
			Description:     r["description"],
			Content:         r["content"],
			Category:        r["category"],
			Keywords:        splitList(r["keywords"]),
			LegalReference:  r["legal_reference"],
			Emirate:         r["emirate"],
			LastUpdated:     r["last_updated"],
			Summary:         r["summary"],
			CrossReferences: splitList(r["cross_references"]),
		})
	}
	return data, nil
}

// sheetRecords returns the rows of a sheet keyed by lower-cased header. A
// missing sheet yields nil without error.
func sheetRecords(f *excelize.File, sheet string) ([]map[string]string, error) {
	name := ""
	for _, s := range f.GetSheetList() {
		if strings.EqualFold(s, sheet) {
			name = s
			break
		}
	}
	if name == "" {
		return nil, nil
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("get rows for sheet %q: %w", name, err)
	}
	if len(rows) == 0 {
		return []map[string]string{}, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]string, len(header))
		empty := true
		for i, cell := range row {
			if i >= len(header) || header[i] == "" {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell != "" {
				empty = false
			}
			rec[header[i]] = cell
		}
		if !empty {
			records = append(records, rec)
		}
	}
	return records, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
