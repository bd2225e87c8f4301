package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Intent values extracted from user queries.
const (
	IntentMovieInfo   = "movie_info"
	IntentShowtimes   = "showtimes"
	IntentCinemas     = "cinema_location"
	IntentMovieReview = "movie_review"
	IntentGenreSearch = "genre_search"
	IntentBookTickets = "book_tickets"
	IntentGeneral     = "general"
)

// ParsedQuery is the structured form of a user question.
type ParsedQuery struct {
	Intent      string `json:"intent"`
	MovieName   string `json:"movie_name"`
	City        string `json:"city"`
	Locality    string `json:"locality"`
	Genre       string `json:"genre"`
	TimeContext string `json:"time_context"`
	NumTickets  int    `json:"num_tickets"`
}

const preprocessSystemPrompt = `Extract structured information from movie-related queries.
Return a JSON object with these possible fields (include only if mentioned):
- intent: one of [movie_info, showtimes, cinema_location, movie_review, genre_search, book_tickets]
- movie_name: exact movie name if mentioned
- city: city name if mentioned
- locality: specific area/locality/neighborhood if mentioned (e.g., Koramangala, JP Nagar, Church Street)
- genre: movie genre if mentioned
- time_context: one of [currently_playing, evening, tomorrow, this_week]
- num_tickets: number of tickets if mentioned (integer)

Examples:
"movies playing in koramangala" ->
{"intent": "showtimes", "locality": "koramangala", "time_context": "currently_playing"}

"theatres in JP Nagar bangalore" ->
{"intent": "cinema_location", "city": "bangalore", "locality": "JP Nagar"}

"showtimes for singham again in indiranagar" ->
{"intent": "showtimes", "movie_name": "singham again", "locality": "indiranagar"}

"book 2 tickets for dune at PVR" ->
{"intent": "book_tickets", "movie_name": "dune", "num_tickets": 2}

"review inception" ->
{"intent": "movie_review", "movie_name": "inception"}`

// preprocess extracts structured information from the question via the LLM's
// JSON mode. Unknown or missing intents map to IntentGeneral.
func (s *Service) preprocess(ctx context.Context, question string) (ParsedQuery, error) {
	raw, err := s.llm.CompleteJSON(ctx, preprocessSystemPrompt, question)
	if err != nil {
		return ParsedQuery{}, fmt.Errorf("preprocess query: %w", err)
	}

	var parsed ParsedQuery
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return ParsedQuery{}, fmt.Errorf("parse preprocess response %q: %w", raw, err)
	}

	parsed.Intent = strings.ToLower(strings.TrimSpace(parsed.Intent))
	switch parsed.Intent {
	case IntentMovieInfo, IntentShowtimes, IntentCinemas, IntentMovieReview,
		IntentGenreSearch, IntentBookTickets:
	default:
		parsed.Intent = IntentGeneral
	}
	return parsed, nil
}
