// Package omdb is a minimal client for the OMDb movie details API.
package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sushrutsadana/movieagent2/internal/domain"
)

// MovieDetails holds the OMDb fields the agent surfaces to users.
type MovieDetails struct {
	Title      string   `json:"Title"`
	Year       string   `json:"Year"`
	Genre      string   `json:"Genre"`
	Director   string   `json:"Director"`
	Actors     string   `json:"Actors"`
	Plot       string   `json:"Plot"`
	IMDBRating string   `json:"imdbRating"`
	Ratings    []Rating `json:"Ratings"`
	Response   string   `json:"Response"`
	Error      string   `json:"Error"`
}

// Rating is one external rating source (e.g. Rotten Tomatoes).
type Rating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// RottenTomatoes returns the Rotten Tomatoes rating, or "" when absent.
func (d MovieDetails) RottenTomatoes() string {
	for _, r := range d.Ratings {
		if r.Source == "Rotten Tomatoes" {
			return r.Value
		}
	}
	return ""
}

// Client calls the OMDb API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// New creates an OMDb client. baseURL is injectable for tests.
func New(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchMovieDetails looks a movie up by title.
// Returns ErrNotFound when OMDb doesn't know the title and ErrUpstream on
// transport or service failures.
func (c *Client) FetchMovieDetails(ctx context.Context, title string) (MovieDetails, error) {
	q := url.Values{}
	q.Set("t", title)
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/?"+q.Encode(), nil)
	if err != nil {
		return MovieDetails{}, fmt.Errorf("build omdb request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return MovieDetails{}, fmt.Errorf("omdb request: %v: %w", err, domain.ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return MovieDetails{}, fmt.Errorf("omdb returned status %d: %w", resp.StatusCode, domain.ErrUpstream)
	}

	var details MovieDetails
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return MovieDetails{}, fmt.Errorf("decode omdb response: %v: %w", err, domain.ErrUpstream)
	}

	if details.Response != "True" {
		return MovieDetails{}, fmt.Errorf("%w: omdb has no entry for %q", domain.ErrNotFound, title)
	}
	return details, nil
}
