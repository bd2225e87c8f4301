// Package agent implements the conversational core: intent extraction,
// routing to structured catalog handlers, and retrieval-augmented answers
// over the index artifact.
package agent

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	logpkg "github.com/sushrutsadana/movieagent2/internal/logger"
	"github.com/sushrutsadana/movieagent2/internal/metrics"
)

// Turn is one ephemeral user/bot exchange. Front-ends keep a short window of
// turns in memory; nothing is persisted.
type Turn struct {
	User string
	Bot  string
}

// Service answers user questions. It holds only read-only collaborators and
// is safe for use from a single front-end loop. Logging is turn-scoped:
// front-ends attach a logger to the context via logger.NewContext.
type Service struct {
	llm       LLM
	retriever Retriever
	catalog   Catalog // nil when no catalog.db was built
	reviews   Reviewer
	topK      int
}

// New creates the agent. catalog and reviews may be nil; the affected
// intents then fall back to the retrieval path.
func New(llm LLM, retriever Retriever, cat Catalog, reviews Reviewer, topK int) *Service {
	if topK <= 0 {
		topK = 5
	}
	return &Service{
		llm:       llm,
		retriever: retriever,
		catalog:   cat,
		reviews:   reviews,
		topK:      topK,
	}
}

// greetings that short-circuit to the welcome message, as the original bot did.
var greetings = map[string]bool{
	"hello": true, "hi": true, "hey": true, "help": true, "start": true,
}

// Chat answers one user question given the recent conversation history.
// The response is returned verbatim for the front-end to emit unchanged.
func (s *Service) Chat(ctx context.Context, question string, history []Turn) (string, error) {
	question = strings.TrimSpace(question)
	if greetings[strings.ToLower(question)] || len(strings.Fields(question)) < 2 {
		return s.Welcome(ctx), nil
	}

	start := time.Now()

	parsed, err := s.preprocess(ctx, question)
	if err != nil {
		metrics.AgentQueriesTotal.WithLabelValues("unparsed", "error").Inc()
		logpkg.FromContext(ctx).Warn("Query preprocessing failed", zap.Error(err))
		return "I'm having trouble understanding your query. Could you rephrase it?", nil
	}

	answer, err := s.route(ctx, question, parsed, history)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.AgentQueriesTotal.WithLabelValues(parsed.Intent, status).Inc()
	metrics.AgentQueryDuration.WithLabelValues(parsed.Intent).Observe(time.Since(start).Seconds())

	if err != nil {
		return "", err
	}
	return answer, nil
}

// route dispatches to the handler for the parsed intent. Structured intents
// require the catalog; without one they degrade to retrieval.
func (s *Service) route(ctx context.Context, question string, parsed ParsedQuery, history []Turn) (string, error) {
	if s.catalog == nil {
		switch parsed.Intent {
		case IntentShowtimes, IntentCinemas, IntentGenreSearch, IntentBookTickets:
			logpkg.FromContext(ctx).Debug("No catalog loaded, answering from index",
				zap.String("intent", parsed.Intent))
			return s.handleGeneral(ctx, question, history)
		}
	}
	if s.reviews == nil {
		switch parsed.Intent {
		case IntentMovieReview, IntentMovieInfo, IntentGenreSearch:
			logpkg.FromContext(ctx).Debug("No OMDb client configured, answering from index",
				zap.String("intent", parsed.Intent))
			return s.handleGeneral(ctx, question, history)
		}
	}

	switch parsed.Intent {
	case IntentMovieReview, IntentMovieInfo:
		return s.handleReview(ctx, parsed)
	case IntentShowtimes:
		if parsed.MovieName != "" {
			return s.handleMovieShowtimes(ctx, parsed)
		}
		return s.handleCurrentMovies(ctx, parsed)
	case IntentCinemas:
		return s.handleCinemas(ctx, parsed)
	case IntentGenreSearch:
		return s.handleGenre(ctx, parsed)
	case IntentBookTickets:
		return s.handleBooking(ctx, parsed)
	default:
		return s.handleGeneral(ctx, question, history)
	}
}
