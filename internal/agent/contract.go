package agent

import (
	"context"

	"github.com/sushrutsadana/movieagent2/internal/catalog"
	"github.com/sushrutsadana/movieagent2/internal/domain"
	"github.com/sushrutsadana/movieagent2/internal/index"
	"github.com/sushrutsadana/movieagent2/internal/omdb"
)

// LLM runs chat completions for intent extraction and answer synthesis.
type LLM interface {
	Complete(ctx context.Context, system, user string) (string, error)
	CompleteJSON(ctx context.Context, system, user string) (string, error)
}

// Retriever queries the loaded index artifact by plain text.
type Retriever interface {
	Query(ctx context.Context, question string, topK int) ([]index.Scored, error)
}

// Catalog reads structured movie/cinema/showtime data and books seats.
// A nil Catalog degrades all structured intents to the retrieval path.
type Catalog interface {
	Cinemas(ctx context.Context, city, locality string) ([]domain.Cinema, error)
	ShowtimesForMovie(ctx context.Context, movieName, locality string) ([]catalog.Showing, error)
	CurrentShowings(ctx context.Context, city, locality string) ([]catalog.Showing, error)
	PopularMovies(ctx context.Context, limit int) ([]string, error)
	SampleMovies(ctx context.Context, n int) ([]string, error)
	BookSeats(ctx context.Context, showtimeID int64, seats int) error
}

// Reviewer fetches movie details and ratings from OMDb.
type Reviewer interface {
	FetchMovieDetails(ctx context.Context, title string) (omdb.MovieDetails, error)
}
