package data

import "strings"

// A Row is one result binding from the knowledge graph. Every variable is
// optional: a variable missing from the map means "no value", not an error.
type Row map[string]string

// Variable names selected by the graph query.
const (
	VarArtist      = "artist"
	VarArtistLabel = "artistLabel"
	VarBirthDate   = "birthDate"
	VarDeathDate   = "deathDate"
	VarWork        = "work"
	VarWorkLabel   = "workLabel"
	VarImage       = "image"
	VarWorkDate    = "workDate"
	VarRoleLabel   = "roleLabel"
	VarULAN        = "ulanId"
	VarRKD         = "rkdId"
	VarWGA         = "wgaId"
	VarVIAF        = "viafId"
	VarCommonsCat  = "commonsCat"
)

// Vars lists the selected variables in query order.
var Vars = []string{
	VarArtist, VarArtistLabel, VarBirthDate, VarDeathDate,
	VarWork, VarWorkLabel, VarImage, VarWorkDate,
	VarRoleLabel, VarULAN, VarRKD, VarWGA, VarVIAF, VarCommonsCat,
}

// Get returns the value bound to name, and whether it was bound at all.
func (r Row) Get(name string) (string, bool) {
	v, ok := r[name]
	return v, ok
}

// Or returns the value bound to name, or def if it is unbound.
func (r Row) Or(name, def string) string {
	if v, ok := r[name]; ok {
		return v
	}
	return def
}

// EntityID returns the last path segment of an entity URL, like "Q762" for
// "http://www.wikidata.org/entity/Q762".
func EntityID(url string) string {
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}

// Year truncates a date literal like "1452-04-15T00:00:00Z" to its first four
// characters.
func Year(date string) string {
	if len(date) > 4 {
		return date[:4]
	}
	return date
}
