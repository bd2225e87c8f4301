// Package dataset turns the raw source dataset directory into indexable
// documents and structured catalog rows.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/sushrutsadana/movieagent2/internal/domain"
)

// ReadDocuments walks dir and converts every supported file into documents.
// CSV files yield one document per data row (header-labelled), XLSX files one
// document per sheet, and .txt/.md files one document per file. Unsupported
// extensions are skipped.
func ReadDocuments(dir string) ([]domain.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read dataset dir %s: %v", domain.ErrData, dir, err)
	}

	var docs []domain.Document
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())

		var fileDocs []domain.Document
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".csv":
			fileDocs, err = csvDocuments(path)
		case ".xlsx":
			fileDocs, err = xlsxDocuments(path)
		case ".txt", ".md":
			fileDocs, err = textDocument(path)
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, fileDocs...)
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no indexable documents found in %s", domain.ErrData, dir)
	}
	return docs, nil
}

// csvDocuments renders each CSV row as "header: value" pairs so the embedded
// text stays self-describing.
func csvDocuments(path string) ([]domain.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrData, path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrData, path, err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	header := records[0]
	source := filepath.Base(path)

	docs := make([]domain.Document, 0, len(records)-1)
	for _, row := range records[1:] {
		var sb strings.Builder
		for i, val := range row {
			if i >= len(header) || strings.TrimSpace(val) == "" {
				continue
			}
			if sb.Len() > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(header[i])
			sb.WriteString(": ")
			sb.WriteString(val)
		}
		doc := domain.Document{
			ID:     uuid.NewString(),
			Title:  rowTitle(header, row),
			Text:   sb.String(),
			Source: source,
		}
		if !doc.IsEmpty() {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func xlsxDocuments(path string) ([]domain.Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrData, path, err)
	}
	defer f.Close()

	source := filepath.Base(path)
	var docs []domain.Document
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("%w: read sheet %s of %s: %v", domain.ErrData, sheet, path, err)
		}
		var sb strings.Builder
		for _, row := range rows {
			sb.WriteString(strings.Join(row, " "))
			sb.WriteString("\n")
		}
		doc := domain.Document{
			ID:     uuid.NewString(),
			Title:  source + "/" + sheet,
			Text:   sb.String(),
			Source: source,
		}
		if !doc.IsEmpty() {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func textDocument(path string) ([]domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrData, path, err)
	}
	doc := domain.Document{
		ID:     uuid.NewString(),
		Title:  filepath.Base(path),
		Text:   string(data),
		Source: filepath.Base(path),
	}
	if doc.IsEmpty() {
		return nil, nil
	}
	return []domain.Document{doc}, nil
}

// rowTitle prefers a movie/film name column for the document title,
// falling back to the first non-empty cell.
func rowTitle(header, row []string) string {
	preferred := []string{"movie_name", "film_name", "title", "name"}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, p := range preferred {
		if i, ok := idx[p]; ok && i < len(row) && row[i] != "" {
			return row[i]
		}
	}
	for _, val := range row {
		if val != "" {
			return val
		}
	}
	return ""
}
