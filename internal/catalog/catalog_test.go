package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/sushrutsadana/movieagent2/internal/dataset"
	"github.com/sushrutsadana/movieagent2/internal/domain"
)

func testRows() []dataset.ShowtimeRow {
	return []dataset.ShowtimeRow{
		{Theater: "PVR Forum Mall", City: "Bangalore", Address: "Hosur Road, Koramangala",
			MovieName: "Moana 2", Version: "3D", Date: "2024-12-07", Time: "18:30", AvailableSeats: 42},
		{Theater: "PVR Forum Mall", City: "Bangalore", Address: "Hosur Road, Koramangala",
			MovieName: "Moana 2", Version: "3D", Date: "2024-12-07", Time: "21:15", AvailableSeats: 55},
		{Theater: "INOX Garuda", City: "Bangalore", Address: "Magrath Road",
			MovieName: "Animal", Version: "2D", Date: "2024-12-07", Time: "19:00", AvailableSeats: 2},
		{Theater: "PVR Phoenix", City: "Mumbai", Address: "Lower Parel",
			MovieName: "Moana 2", Version: "2D", Date: "2024-12-07", Time: "17:30", AvailableSeats: 64},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Rebuild(context.Background(), testRows()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	return store
}

func TestRebuild_DeduplicatesMoviesAndCinemas(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	movies, err := store.MoviesByName(ctx, "")
	if err != nil {
		t.Fatalf("MoviesByName: %v", err)
	}
	if len(movies) != 2 {
		t.Errorf("expected 2 distinct movies, got %d", len(movies))
	}

	cinemas, err := store.Cinemas(ctx, "", "")
	if err != nil {
		t.Fatalf("Cinemas: %v", err)
	}
	if len(cinemas) != 3 {
		t.Errorf("expected 3 distinct cinemas, got %d", len(cinemas))
	}
}

func TestRebuild_ReplacesPreviousContent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	newRows := []dataset.ShowtimeRow{
		{Theater: "Cinepolis", City: "Bangalore", MovieName: "KGF 3",
			Date: "2024-12-08", Time: "20:00", AvailableSeats: 10},
	}
	if err := store.Rebuild(ctx, newRows); err != nil {
		t.Fatalf("second Rebuild: %v", err)
	}

	movies, err := store.MoviesByName(ctx, "")
	if err != nil {
		t.Fatalf("MoviesByName: %v", err)
	}
	if len(movies) != 1 || movies[0].Name != "KGF 3" {
		t.Errorf("expected only KGF 3 after rebuild, got %+v", movies)
	}
}

func TestMoviesByName_CaseInsensitiveSubstring(t *testing.T) {
	store := newTestStore(t)

	movies, err := store.MoviesByName(context.Background(), "moana")
	if err != nil {
		t.Fatalf("MoviesByName: %v", err)
	}
	if len(movies) != 1 || movies[0].Name != "Moana 2" {
		t.Fatalf("expected Moana 2, got %+v", movies)
	}
}

func TestCinemas_FilterByCityAndLocality(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		city     string
		locality string
		want     int
	}{
		{"by city", "bangalore", "", 2},
		{"by locality in address", "", "koramangala", 1},
		{"by locality in name", "", "garuda", 1},
		{"city and locality", "mumbai", "koramangala", 0},
		{"unfiltered", "", "", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cinemas, err := store.Cinemas(ctx, tt.city, tt.locality)
			if err != nil {
				t.Fatalf("Cinemas: %v", err)
			}
			if len(cinemas) != tt.want {
				t.Errorf("expected %d cinemas, got %d", tt.want, len(cinemas))
			}
		})
	}
}

func TestShowtimesForMovie(t *testing.T) {
	store := newTestStore(t)

	showings, err := store.ShowtimesForMovie(context.Background(), "moana 2", "koramangala")
	if err != nil {
		t.Fatalf("ShowtimesForMovie: %v", err)
	}
	if len(showings) != 2 {
		t.Fatalf("expected 2 showings at the Koramangala cinema, got %d", len(showings))
	}
	if showings[0].StartTime != "18:30" {
		t.Errorf("expected showings ordered by time, got %q first", showings[0].StartTime)
	}
	if showings[0].CinemaName != "PVR Forum Mall" {
		t.Errorf("unexpected cinema %q", showings[0].CinemaName)
	}
}

func TestCurrentShowings_ByCity(t *testing.T) {
	store := newTestStore(t)

	showings, err := store.CurrentShowings(context.Background(), "mumbai", "")
	if err != nil {
		t.Fatalf("CurrentShowings: %v", err)
	}
	if len(showings) != 1 || showings[0].City != "Mumbai" {
		t.Fatalf("expected the single Mumbai showing, got %+v", showings)
	}
}

func TestPopularMovies_OrderedByShowCount(t *testing.T) {
	store := newTestStore(t)

	names, err := store.PopularMovies(context.Background(), 5)
	if err != nil {
		t.Fatalf("PopularMovies: %v", err)
	}
	if len(names) != 2 || names[0] != "Moana 2" {
		t.Fatalf("expected Moana 2 (3 shows) first, got %v", names)
	}
}

func TestSampleMovies_LimitsCount(t *testing.T) {
	store := newTestStore(t)

	names, err := store.SampleMovies(context.Background(), 1)
	if err != nil {
		t.Fatalf("SampleMovies: %v", err)
	}
	if len(names) != 1 {
		t.Fatalf("expected 1 name, got %v", names)
	}
}

func TestBookSeats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	showings, err := store.ShowtimesForMovie(ctx, "animal", "")
	if err != nil || len(showings) != 1 {
		t.Fatalf("showings for Animal: %v %+v", err, showings)
	}
	id := showings[0].ShowtimeID

	if err := store.BookSeats(ctx, id, 2); err != nil {
		t.Fatalf("BookSeats: %v", err)
	}

	// Seats are gone now.
	err = store.BookSeats(ctx, id, 1)
	if !errors.Is(err, domain.ErrNoSeats) {
		t.Fatalf("expected ErrNoSeats, got %v", err)
	}

	after, err := store.ShowtimesForMovie(ctx, "animal", "")
	if err != nil {
		t.Fatalf("ShowtimesForMovie: %v", err)
	}
	if after[0].AvailableSeats != 0 {
		t.Errorf("expected 0 seats left, got %d", after[0].AvailableSeats)
	}
}

func TestBookSeats_UnknownShowtime(t *testing.T) {
	store := newTestStore(t)

	err := store.BookSeats(context.Background(), 9999, 1)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBookSeats_RejectsNonPositive(t *testing.T) {
	store := newTestStore(t)

	if err := store.BookSeats(context.Background(), 1, 0); err == nil {
		t.Fatal("expected error for zero seats")
	}
}
