package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	logpkg "github.com/sushrutsadana/movieagent2/internal/logger"
)

// fallbackExamples is used when no catalog is loaded.
var fallbackExamples = []string{"Moana 2", "Animal", "KGF 3"}

// Welcome builds the greeting shown for /start, greetings, and very short
// inputs. Example queries use real movie names from the catalog when one is
// loaded.
func (s *Service) Welcome(ctx context.Context) string {
	examples := fallbackExamples
	if s.catalog != nil {
		names, err := s.catalog.SampleMovies(ctx, 3)
		if err != nil {
			logpkg.FromContext(ctx).Debug("Failed to sample movies for welcome message", zap.Error(err))
		} else if len(names) > 0 {
			examples = names
		}
	}
	for len(examples) < 3 {
		examples = append(examples, fallbackExamples[len(examples)%len(fallbackExamples)])
	}

	return fmt.Sprintf(`🍿 Welcome to PopcornAI! 🎬

I'm your friendly movie assistant. You can:
• Find movie showtimes by date, time, or location
• Search movies by language, genre, or theater
• Get movie reviews and details
• Book tickets for your favorite shows

Some example queries:
- "Show me movies playing today"
- "What are the evening shows for %s?"
- "Tell me about theaters in Indiranagar"
- "Book 2 tickets for %s at PVR"
- "Is %s playing this weekend?"

How can I help you today?`, examples[0], examples[1], examples[2])
}
