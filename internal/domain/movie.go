package domain

// Movie is a film known to the catalog.
type Movie struct {
	ID        int64
	Name      string
	IMDBID    string
	Version   string // e.g. "3D", "IMAX"
	AgeRating string
}

// Cinema is a theater location in the catalog.
// Screenings live in catalog.Showing, which joins them with their movie.
type Cinema struct {
	ID       int64
	Name     string
	Address  string
	City     string
	State    string
	Postcode string
}
