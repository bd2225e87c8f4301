// Package catalog stores the structured movie/cinema/showtime data in SQLite.
// The builder rebuilds it from the dataset's showtime rows; the agent's
// structured intent handlers read it.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sushrutsadana/movieagent2/internal/dataset"
	"github.com/sushrutsadana/movieagent2/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS movies (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    film_name TEXT NOT NULL UNIQUE,
    imdb_id TEXT,
    version_type TEXT,
    age_rating TEXT
);
CREATE TABLE IF NOT EXISTS cinemas (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    cinema_name TEXT NOT NULL,
    address TEXT,
    city TEXT,
    state TEXT,
    postcode TEXT,
    UNIQUE(cinema_name, city)
);
CREATE TABLE IF NOT EXISTS showtimes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    film_id INTEGER NOT NULL REFERENCES movies(id),
    cinema_id INTEGER NOT NULL REFERENCES cinemas(id),
    date TEXT,
    start_time TEXT,
    available_seats INTEGER NOT NULL DEFAULT 0
);`

// Store wraps the SQLite catalog database.
type Store struct {
	db *sql.DB
}

// Exists reports whether a catalog database file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Open opens (or creates) the catalog database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create catalog schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Ping checks database availability.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Rebuild replaces the entire catalog with the given showtime rows.
// Movies and cinemas are deduplicated by name; the previous content is
// dropped wholesale, matching the builder's last-write-wins contract.
func (s *Store) Rebuild(ctx context.Context, rows []dataset.ShowtimeRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rebuild: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"showtimes", "cinemas", "movies"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	movieIDs := make(map[string]int64)
	cinemaIDs := make(map[string]int64)

	for _, r := range rows {
		movieID, ok := movieIDs[r.MovieName]
		if !ok {
			res, err := tx.ExecContext(ctx,
				`INSERT INTO movies (film_name, version_type) VALUES (?, ?)`,
				r.MovieName, r.Version)
			if err != nil {
				return fmt.Errorf("insert movie %q: %w", r.MovieName, err)
			}
			movieID, _ = res.LastInsertId()
			movieIDs[r.MovieName] = movieID
		}

		cinemaKey := r.Theater + "|" + r.City
		cinemaID, ok := cinemaIDs[cinemaKey]
		if !ok {
			res, err := tx.ExecContext(ctx,
				`INSERT INTO cinemas (cinema_name, address, city) VALUES (?, ?, ?)`,
				r.Theater, r.Address, r.City)
			if err != nil {
				return fmt.Errorf("insert cinema %q: %w", r.Theater, err)
			}
			cinemaID, _ = res.LastInsertId()
			cinemaIDs[cinemaKey] = cinemaID
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO showtimes (film_id, cinema_id, date, start_time, available_seats)
			 VALUES (?, ?, ?, ?, ?)`,
			movieID, cinemaID, r.Date, r.Time, r.AvailableSeats); err != nil {
			return fmt.Errorf("insert showtime for %q: %w", r.MovieName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rebuild: %w", err)
	}
	return nil
}

// BookSeats atomically decrements available_seats for a showtime.
// Returns ErrNoSeats when the showtime exists but lacks capacity and
// ErrNotFound when it doesn't exist.
func (s *Store) BookSeats(ctx context.Context, showtimeID int64, seats int) error {
	if seats <= 0 {
		return fmt.Errorf("seat count must be positive, got %d", seats)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE showtimes SET available_seats = available_seats - ?
		 WHERE id = ? AND available_seats >= ?`,
		seats, showtimeID, seats)
	if err != nil {
		return fmt.Errorf("book seats: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("book seats result: %w", err)
	}
	if n > 0 {
		return nil
	}

	var available int
	err = s.db.QueryRowContext(ctx,
		`SELECT available_seats FROM showtimes WHERE id = ?`, showtimeID).Scan(&available)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: showtime %d", domain.ErrNotFound, showtimeID)
	}
	if err != nil {
		return fmt.Errorf("check showtime: %w", err)
	}
	return fmt.Errorf("%w: only %d seats left", domain.ErrNoSeats, available)
}
