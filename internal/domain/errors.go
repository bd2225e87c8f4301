package domain

import "errors"

var (
	// ErrConfiguration signals missing or invalid credentials/settings.
	ErrConfiguration = errors.New("configuration error")
	// ErrArtifactMissing signals that a front-end started before the index was built.
	ErrArtifactMissing = errors.New("index artifact missing")
	// ErrArtifactMismatch signals that the binary artifact and its JSON mirror diverged.
	ErrArtifactMismatch = errors.New("index artifact and JSON mirror diverged")
	// ErrData signals an unreadable or malformed source dataset.
	ErrData = errors.New("dataset error")
	// ErrUpstream signals a failed embedding, LLM, or platform call.
	ErrUpstream = errors.New("upstream provider error")

	// ErrNotFound signals a missing catalog resource.
	ErrNotFound = errors.New("not found")
	// ErrNoSeats signals a booking against a showtime without enough seats.
	ErrNoSeats = errors.New("not enough seats available")
)
