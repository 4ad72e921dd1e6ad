package data

// Artist holds everything we learned about one artist during a single
// aggregation run. Scalar fields are taken from the first row that mentioned
// the artist; later rows only contribute works.
type Artist struct {
	// like "Q762"
	ID string

	Name string

	// like "1452-1519", or "born 1860" when no death date is known. Artists
	// are ordered by this label as a string, which only approximates
	// chronological order.
	Dates string

	Role string

	// like "http://www.wikidata.org/entity/Q762"
	URL string

	// External authority identifiers. Empty means absent.
	ULAN, RKD, WGA, VIAF string

	// Wikimedia Commons category, like "Leonardo da Vinci". Empty means
	// absent.
	CommonsCategory string

	Works []Work
}

// Work is an artwork that resolved to a displayable image.
type Work struct {
	// like "Q12418"
	ID    string
	Title string

	// A four-digit year, or "n.d.". Empty for commons fallback images.
	Date string

	// A URL or a local path.
	Image  string
	Origin Origin
}

// Origin says where the image for a work or display item came from.
type Origin string

const (
	OriginLocal      Origin = "local"
	OriginWeb        Origin = "web"
	OriginCommons    Origin = "commons"
	OriginArtistOnly Origin = "artist_only"
)
