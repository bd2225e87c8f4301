package domain

import "strings"

// Document is a unit of indexable text extracted from the source dataset.
type Document struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Text   string `json:"text"`
	Source string `json:"source"` // dataset file the text came from
}

// IsEmpty reports whether the document carries no indexable text.
func (d Document) IsEmpty() bool {
	return strings.TrimSpace(d.Text) == ""
}
