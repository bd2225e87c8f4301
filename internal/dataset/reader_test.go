package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sushrutsadana/movieagent2/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const sampleShowtimesCSV = `theater_location,city,address,language,movie_name,genre,version_type,date,time,available_seats
PVR Forum Mall,Bangalore,"Hosur Road, Koramangala",English,Moana 2,Animation,3D,2024-12-07,18:30,42
INOX Garuda,Bangalore,Magrath Road,Hindi,Animal,Action,2D,2024-12-07,19:00,12
`

func TestReadDocuments_CSVRows(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "showtimes.csv", sampleShowtimesCSV)

	docs, err := ReadDocuments(dir)
	if err != nil {
		t.Fatalf("ReadDocuments: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}

	if docs[0].Title != "Moana 2" {
		t.Errorf("expected title from movie_name column, got %q", docs[0].Title)
	}
	if !strings.Contains(docs[0].Text, "theater_location: PVR Forum Mall") {
		t.Errorf("row text missing labelled field: %q", docs[0].Text)
	}
	if docs[0].Source != "showtimes.csv" {
		t.Errorf("expected source showtimes.csv, got %q", docs[0].Source)
	}
	if docs[0].ID == "" || docs[0].ID == docs[1].ID {
		t.Error("expected unique non-empty document IDs")
	}
}

func TestReadDocuments_TextFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "about.txt", "PVR Forum Mall is a multiplex in Koramangala.")
	writeFile(t, dir, "notes.md", "# Reviews\nAnimal is a violent action drama.")
	writeFile(t, dir, "ignore.bin", "\x00\x01")

	docs, err := ReadDocuments(dir)
	if err != nil {
		t.Fatalf("ReadDocuments: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents (bin skipped), got %d", len(docs))
	}
}

func TestReadDocuments_MissingDir(t *testing.T) {
	_, err := ReadDocuments(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, domain.ErrData) {
		t.Fatalf("expected ErrData, got %v", err)
	}
}

func TestReadDocuments_EmptyDir(t *testing.T) {
	_, err := ReadDocuments(t.TempDir())
	if !errors.Is(err, domain.ErrData) {
		t.Fatalf("expected ErrData for empty dataset, got %v", err)
	}
}

func TestParseShowtimes(t *testing.T) {
	rows, err := ParseShowtimes(strings.NewReader(sampleShowtimesCSV))
	if err != nil {
		t.Fatalf("ParseShowtimes: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	want := ShowtimeRow{
		Theater:        "PVR Forum Mall",
		City:           "Bangalore",
		Address:        "Hosur Road, Koramangala",
		Language:       "English",
		MovieName:      "Moana 2",
		Genre:          "Animation",
		Version:        "3D",
		Date:           "2024-12-07",
		Time:           "18:30",
		AvailableSeats: 42,
	}
	if rows[0] != want {
		t.Errorf("unexpected first row:\ngot:  %+v\nwant: %+v", rows[0], want)
	}
}

func TestParseShowtimes_NotAShowtimeFile(t *testing.T) {
	rows, err := ParseShowtimes(strings.NewReader("id,name\n1,foo\n"))
	if err != nil {
		t.Fatalf("ParseShowtimes: %v", err)
	}
	if rows != nil {
		t.Errorf("expected nil for non-showtime CSV, got %+v", rows)
	}
}

func TestParseShowtimes_BadSeats(t *testing.T) {
	data := "theater_location,movie_name,available_seats\nPVR,Moana 2,lots\n"
	_, err := ParseShowtimes(strings.NewReader(data))
	if err == nil {
		t.Fatal("expected error for non-numeric available_seats")
	}
}

func TestReadShowtimes_ScansDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "showtimes.csv", sampleShowtimesCSV)
	writeFile(t, dir, "other.csv", "id,name\n1,foo\n")
	writeFile(t, dir, "about.txt", "not a csv")

	rows, err := ReadShowtimes(dir)
	if err != nil {
		t.Fatalf("ReadShowtimes: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows from the showtime file only, got %d", len(rows))
	}
}
