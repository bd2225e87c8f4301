package agent

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/sushrutsadana/movieagent2/internal/catalog"
	"github.com/sushrutsadana/movieagent2/internal/domain"
	logpkg "github.com/sushrutsadana/movieagent2/internal/logger"
)

// handleReview answers movie review/detail queries from OMDb.
func (s *Service) handleReview(ctx context.Context, parsed ParsedQuery) (string, error) {
	if parsed.MovieName == "" {
		return "Please specify a movie title for reviews or details (e.g., 'review Inception').", nil
	}

	details, err := s.reviews.FetchMovieDetails(ctx, parsed.MovieName)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Sprintf("Sorry, I couldn't find ratings for '%s'. "+
			"This might be because the movie is too recent or not yet released.", parsed.MovieName), nil
	}
	if err != nil {
		return "", fmt.Errorf("fetch movie details: %w", err)
	}

	parts := []string{fmt.Sprintf("Here are the details for '%s' (%s):", details.Title, details.Year)}
	if details.IMDBRating != "" && details.IMDBRating != "N/A" {
		parts = append(parts, fmt.Sprintf("IMDB Rating: %s/10", details.IMDBRating))
	}
	if rt := details.RottenTomatoes(); rt != "" {
		parts = append(parts, "Rotten Tomatoes: "+rt)
	}
	parts = append(parts,
		"Genre: "+orNA(details.Genre),
		"Director: "+orNA(details.Director),
		"Actors: "+orNA(details.Actors),
		"Plot: "+orNA(details.Plot),
	)
	return strings.Join(parts, "\n"), nil
}

// handleMovieShowtimes answers "when is X playing" queries from the catalog.
func (s *Service) handleMovieShowtimes(ctx context.Context, parsed ParsedQuery) (string, error) {
	showings, err := s.catalog.ShowtimesForMovie(ctx, parsed.MovieName, parsed.Locality)
	if err != nil {
		return "", fmt.Errorf("showtimes for movie: %w", err)
	}
	if len(showings) == 0 {
		if parsed.Locality != "" {
			return fmt.Sprintf("No cinemas found in %s showing %s.", parsed.Locality, parsed.MovieName), nil
		}
		return fmt.Sprintf("No showtimes found for '%s'.", parsed.MovieName), nil
	}

	// Group showtimes by cinema.
	byCinema := make(map[string][]string)
	var cinemaOrder []string
	for _, sh := range showings {
		if _, ok := byCinema[sh.CinemaName]; !ok {
			cinemaOrder = append(cinemaOrder, sh.CinemaName)
		}
		byCinema[sh.CinemaName] = append(byCinema[sh.CinemaName], sh.StartTime)
	}

	parts := []string{fmt.Sprintf("Showtimes for '%s':", showings[0].MovieName)}
	for _, cinema := range cinemaOrder {
		times := byCinema[cinema]
		sort.Strings(times)
		parts = append(parts, "\n"+cinema+":", "- "+strings.Join(times, ", "))
	}
	return strings.Join(parts, "\n"), nil
}

// handleCurrentMovies answers "what's playing" queries from the catalog.
func (s *Service) handleCurrentMovies(ctx context.Context, parsed ParsedQuery) (string, error) {
	showings, err := s.catalog.CurrentShowings(ctx, parsed.City, parsed.Locality)
	if err != nil {
		return "", fmt.Errorf("current showings: %w", err)
	}
	location := parsed.Locality
	if location == "" {
		location = parsed.City
	}
	if len(showings) == 0 {
		if location == "" {
			return "No movies currently playing.", nil
		}
		return fmt.Sprintf("No movies currently playing in %s.", location), nil
	}

	type movieShows struct {
		version string
		shows   map[string][]string // cinema -> times
		cinemas []string
	}
	byMovie := make(map[string]*movieShows)
	var movieOrder []string
	for _, sh := range showings {
		ms, ok := byMovie[sh.MovieName]
		if !ok {
			ms = &movieShows{version: sh.Version, shows: make(map[string][]string)}
			byMovie[sh.MovieName] = ms
			movieOrder = append(movieOrder, sh.MovieName)
		}
		if _, ok := ms.shows[sh.CinemaName]; !ok {
			ms.cinemas = append(ms.cinemas, sh.CinemaName)
		}
		ms.shows[sh.CinemaName] = append(ms.shows[sh.CinemaName], sh.StartTime)
	}

	header := "Currently playing movies:"
	if location != "" {
		header = fmt.Sprintf("Currently playing movies in %s:", location)
	}
	parts := []string{header}
	for _, name := range movieOrder {
		ms := byMovie[name]
		line := "\n" + name
		if ms.version != "" {
			line += " (" + ms.version + ")"
		}
		parts = append(parts, line)
		for _, cinema := range ms.cinemas {
			times := ms.shows[cinema]
			sort.Strings(times)
			parts = append(parts, "- "+cinema+":", "  "+strings.Join(times, ", "))
		}
	}
	return strings.Join(parts, "\n"), nil
}

// handleCinemas answers theater location queries from the catalog.
func (s *Service) handleCinemas(ctx context.Context, parsed ParsedQuery) (string, error) {
	if parsed.City == "" && parsed.Locality == "" {
		return "Please specify a city or locality.", nil
	}

	cinemas, err := s.catalog.Cinemas(ctx, parsed.City, parsed.Locality)
	if err != nil {
		return "", fmt.Errorf("list cinemas: %w", err)
	}
	if len(cinemas) == 0 {
		return "No cinemas found in " + locationLabel(parsed) + ".", nil
	}

	parts := []string{"Cinemas in " + locationLabel(parsed) + ":"}
	for _, c := range cinemas {
		parts = append(parts, "\n- "+c.Name)
		if c.Address != "" {
			parts = append(parts, "  Address: "+c.Address)
		}
	}
	return strings.Join(parts, "\n"), nil
}

// handleGenre cross-checks the most-screened movies against OMDb genres.
func (s *Service) handleGenre(ctx context.Context, parsed ParsedQuery) (string, error) {
	if parsed.Genre == "" {
		return "Please specify a genre (e.g., 'comedy movies playing now').", nil
	}

	popular, err := s.catalog.PopularMovies(ctx, 6)
	if err != nil {
		return "", fmt.Errorf("popular movies: %w", err)
	}

	var parts []string
	for _, name := range popular {
		details, err := s.reviews.FetchMovieDetails(ctx, name)
		if err != nil {
			// A single unknown title shouldn't sink the whole answer.
			logpkg.FromContext(ctx).Debug("OMDb lookup failed during genre search",
				zap.String("movie", name), zap.Error(err))
			continue
		}
		if !strings.Contains(strings.ToLower(details.Genre), strings.ToLower(parsed.Genre)) {
			continue
		}
		parts = append(parts,
			"\n"+details.Title,
			"- Genre: "+orNA(details.Genre),
			"- Director: "+orNA(details.Director),
			"- Stars: "+orNA(details.Actors),
			"- IMDB Rating: "+orNA(details.IMDBRating)+"/10",
		)
	}

	if len(parts) == 0 {
		return fmt.Sprintf("No %s movies currently playing.", parsed.Genre), nil
	}
	return strings.Join(append([]string{
		fmt.Sprintf("Currently playing %s movies:", parsed.Genre)}, parts...), "\n"), nil
}

// handleBooking books seats on the first matching showtime with capacity.
func (s *Service) handleBooking(ctx context.Context, parsed ParsedQuery) (string, error) {
	if parsed.MovieName == "" {
		return "Please tell me which movie you'd like to book tickets for.", nil
	}
	seats := parsed.NumTickets
	if seats <= 0 {
		seats = 1
	}

	showings, err := s.catalog.ShowtimesForMovie(ctx, parsed.MovieName, parsed.Locality)
	if err != nil {
		return "", fmt.Errorf("find showtimes to book: %w", err)
	}
	if len(showings) == 0 {
		return fmt.Sprintf("Could not find a showtime for '%s'.", parsed.MovieName), nil
	}

	var booked *catalog.Showing
	for i := range showings {
		if showings[i].AvailableSeats < seats {
			continue
		}
		if err := s.catalog.BookSeats(ctx, showings[i].ShowtimeID, seats); err != nil {
			if errors.Is(err, domain.ErrNoSeats) {
				continue
			}
			return "", fmt.Errorf("book seats: %w", err)
		}
		booked = &showings[i]
		break
	}
	if booked == nil {
		return fmt.Sprintf("Not enough seats available for '%s'. Try fewer tickets or another show.",
			showings[0].MovieName), nil
	}

	return fmt.Sprintf("Successfully booked %d ticket(s) for %s at %s for %s %s",
		seats, booked.MovieName, booked.CinemaName, booked.Date, booked.StartTime), nil
}

// handleGeneral answers from the index artifact: retrieve top-K snippets,
// then synthesize a grounded reply.
func (s *Service) handleGeneral(ctx context.Context, question string, history []Turn) (string, error) {
	scored, err := s.retriever.Query(ctx, question, s.topK)
	if err != nil {
		return "", fmt.Errorf("query index: %w", err)
	}

	var snippets strings.Builder
	for _, sc := range scored {
		snippets.WriteString("- ")
		snippets.WriteString(sc.Document.Text)
		snippets.WriteString("\n")
	}

	var convo strings.Builder
	for _, t := range history {
		convo.WriteString("User: " + t.User + "\n")
		convo.WriteString("Bot: " + t.Bot + "\n")
	}
	convo.WriteString("User: " + question)

	system := "You are a friendly movie assistant. Answer the user's question using only " +
		"the movie data below. If the data doesn't cover the question, say so briefly.\n\n" +
		"Movie data:\n" + snippets.String()

	answer, err := s.llm.Complete(ctx, system, convo.String())
	if err != nil {
		return "", fmt.Errorf("synthesize answer: %w", err)
	}
	return answer, nil
}

func locationLabel(parsed ParsedQuery) string {
	var parts []string
	if parsed.Locality != "" {
		parts = append(parts, titleCase(parsed.Locality))
	}
	if parsed.City != "" {
		parts = append(parts, titleCase(parsed.City))
	}
	return strings.Join(parts, ", ")
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
