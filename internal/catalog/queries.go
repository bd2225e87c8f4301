package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/sushrutsadana/movieagent2/internal/domain"
)

// Showing is one screening joined with its movie and cinema.
type Showing struct {
	ShowtimeID     int64
	MovieName      string
	Version        string
	CinemaName     string
	Address        string
	City           string
	Date           string
	StartTime      string
	AvailableSeats int
}

const showingSelect = `
	SELECT s.id, m.film_name, COALESCE(m.version_type, ''),
	       c.cinema_name, COALESCE(c.address, ''), COALESCE(c.city, ''),
	       COALESCE(s.date, ''), COALESCE(s.start_time, ''), s.available_seats
	FROM showtimes s
	JOIN movies m ON m.id = s.film_id
	JOIN cinemas c ON c.id = s.cinema_id`

// MoviesByName finds movies whose name contains the given substring,
// case-insensitively.
func (s *Store) MoviesByName(ctx context.Context, name string) ([]domain.Movie, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, film_name, COALESCE(imdb_id, ''), COALESCE(version_type, ''), COALESCE(age_rating, '')
		 FROM movies WHERE film_name LIKE ? COLLATE NOCASE ORDER BY film_name`,
		"%"+name+"%")
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	defer rows.Close()

	var movies []domain.Movie
	for rows.Next() {
		var m domain.Movie
		if err := rows.Scan(&m.ID, &m.Name, &m.IMDBID, &m.Version, &m.AgeRating); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// Cinemas lists cinemas filtered by city and/or locality. Locality matches
// as a substring of the cinema name or address, mirroring how users refer
// to neighborhoods.
func (s *Store) Cinemas(ctx context.Context, city, locality string) ([]domain.Cinema, error) {
	query := `SELECT id, cinema_name, COALESCE(address, ''), COALESCE(city, ''),
	                 COALESCE(state, ''), COALESCE(postcode, '')
	          FROM cinemas`
	var conds []string
	var args []any
	if city != "" {
		conds = append(conds, "city LIKE ? COLLATE NOCASE")
		args = append(args, "%"+city+"%")
	}
	if locality != "" {
		conds = append(conds, "(cinema_name LIKE ? COLLATE NOCASE OR address LIKE ? COLLATE NOCASE)")
		args = append(args, "%"+locality+"%", "%"+locality+"%")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY cinema_name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query cinemas: %w", err)
	}
	defer rows.Close()

	var cinemas []domain.Cinema
	for rows.Next() {
		var c domain.Cinema
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.City, &c.State, &c.Postcode); err != nil {
			return nil, fmt.Errorf("scan cinema: %w", err)
		}
		cinemas = append(cinemas, c)
	}
	return cinemas, rows.Err()
}

// ShowtimesForMovie lists screenings of movies matching the name,
// optionally narrowed to a locality.
func (s *Store) ShowtimesForMovie(ctx context.Context, movieName, locality string) ([]Showing, error) {
	query := showingSelect + ` WHERE m.film_name LIKE ? COLLATE NOCASE`
	args := []any{"%" + movieName + "%"}
	if locality != "" {
		query += ` AND (c.cinema_name LIKE ? COLLATE NOCASE OR c.address LIKE ? COLLATE NOCASE)`
		args = append(args, "%"+locality+"%", "%"+locality+"%")
	}
	query += ` ORDER BY s.date, s.start_time`
	return s.queryShowings(ctx, query, args...)
}

// CurrentShowings lists all screenings filtered by city and/or locality,
// used for "what's playing" queries.
func (s *Store) CurrentShowings(ctx context.Context, city, locality string) ([]Showing, error) {
	query := showingSelect
	var conds []string
	var args []any
	if city != "" {
		conds = append(conds, "c.city LIKE ? COLLATE NOCASE")
		args = append(args, "%"+city+"%")
	}
	if locality != "" {
		conds = append(conds, "(c.cinema_name LIKE ? COLLATE NOCASE OR c.address LIKE ? COLLATE NOCASE)")
		args = append(args, "%"+locality+"%", "%"+locality+"%")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY m.film_name, s.date, s.start_time`
	return s.queryShowings(ctx, query, args...)
}

// PopularMovies returns movie names ordered by screening count, most first.
// Mirrors the "most shows today" heuristic used by genre search.
func (s *Store) PopularMovies(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT m.film_name
		 FROM movies m JOIN showtimes s ON s.film_id = m.id
		 GROUP BY m.id ORDER BY COUNT(s.id) DESC, m.film_name LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query popular movies: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan movie name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// SampleMovies returns up to n movie names in random order, used to build
// the welcome message's example queries.
func (s *Store) SampleMovies(ctx context.Context, n int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT film_name FROM movies ORDER BY RANDOM() LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query sample movies: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan movie name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *Store) queryShowings(ctx context.Context, query string, args ...any) ([]Showing, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query showings: %w", err)
	}
	defer rows.Close()

	var showings []Showing
	for rows.Next() {
		var sh Showing
		if err := rows.Scan(&sh.ShowtimeID, &sh.MovieName, &sh.Version, &sh.CinemaName,
			&sh.Address, &sh.City, &sh.Date, &sh.StartTime, &sh.AvailableSeats); err != nil {
			return nil, fmt.Errorf("scan showing: %w", err)
		}
		showings = append(showings, sh)
	}
	return showings, rows.Err()
}
