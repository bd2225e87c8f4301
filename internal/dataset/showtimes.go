package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sushrutsadana/movieagent2/internal/domain"
)

// ShowtimeRow is one structured screening record from the showtimes CSV.
type ShowtimeRow struct {
	Theater        string
	City           string
	Address        string
	Language       string
	MovieName      string
	Genre          string
	Version        string
	Date           string
	Time           string
	AvailableSeats int
}

// ReadShowtimes scans dir for CSV files carrying showtime columns
// (movie_name + theater_location headers) and parses their rows.
// Returns nil without error when no such file exists: a dataset of plain
// text documents is still a valid index source.
func ReadShowtimes(dir string) ([]ShowtimeRow, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read dataset dir %s: %v", domain.ErrData, dir, err)
	}

	var rows []ShowtimeRow
	for _, e := range entries {
		if e.IsDir() || strings.ToLower(filepath.Ext(e.Name())) != ".csv" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %v", domain.ErrData, path, err)
		}
		fileRows, err := ParseShowtimes(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrData, path, err)
		}
		rows = append(rows, fileRows...)
	}
	return rows, nil
}

// ParseShowtimes parses showtime rows from CSV data. Returns nil when the
// header lacks the showtime columns (the file is some other dataset CSV).
func ParseShowtimes(r io.Reader) ([]ShowtimeRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := idx["movie_name"]; !ok {
		return nil, nil
	}
	if _, ok := idx["theater_location"]; !ok {
		return nil, nil
	}

	cell := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var rows []ShowtimeRow
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		seats := 0
		if s := cell(row, "available_seats"); s != "" {
			seats, err = strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad available_seats %q", line, s)
			}
		}

		sr := ShowtimeRow{
			Theater:        cell(row, "theater_location"),
			City:           cell(row, "city"),
			Address:        cell(row, "address"),
			Language:       cell(row, "language"),
			MovieName:      cell(row, "movie_name"),
			Genre:          cell(row, "genre"),
			Version:        cell(row, "version_type"),
			Date:           cell(row, "date"),
			Time:           cell(row, "time"),
			AvailableSeats: seats,
		}
		if sr.MovieName == "" {
			continue
		}
		rows = append(rows, sr)
	}
	return rows, nil
}
