package data

import "html/template"

// DisplayItem is one tile of the gallery. Aggregation produces a flat list of
// these, grouped by artist and ordered by the artists' dates labels.
type DisplayItem struct {
	ArtistID    string `json:"artist_id"`
	ArtistName  string `json:"artist_name"`
	ArtistDates string `json:"artist_dates"`
	ArtistRole  string `json:"artist_role"`

	// An HTML fragment of badge links to the artist's profile and
	// authority records.
	Links template.HTML `json:"links"`

	WorkID    string `json:"work_id,omitempty"`
	WorkTitle string `json:"work_title"`
	WorkDate  string `json:"work_date,omitempty"`

	Image  string `json:"image"`
	Origin Origin `json:"type"`

	// Non-empty only for images found through the commons fallback.
	SourceLabel string `json:"source_label"`
}

// ShowsWork reports whether the tile describes a specific, linked artwork.
func (item DisplayItem) ShowsWork() bool {
	return item.Origin == OriginLocal || item.Origin == OriginWeb
}

// CountArtists returns the number of distinct artist names among items.
func CountArtists(items []DisplayItem) int {
	seen := map[string]struct{}{}
	for _, item := range items {
		seen[item.ArtistName] = struct{}{}
	}
	return len(seen)
}
