package aggregate

import (
	"sort"
	"strconv"
	"strings"

	"github.com/amonks/artists/data"
)

// Defaults for rows that lack a value.
const (
	defaultName  = "Anonymous"
	defaultRole  = "Artist"
	defaultTitle = "Untitled"
	undated      = "n.d."
)

// thumbWidth is the width requested for images served through
// Special:FilePath.
const thumbWidth = 400

// group merges rows into one Artist per artist id, in order of first
// appearance. Scalar fields come from the first row for an artist; every row
// with a work whose image resolves adds a Work.
func group(rows []data.Row, overrides map[string]string) []*data.Artist {
	byID := map[string]*data.Artist{}
	var artists []*data.Artist

	for _, row := range rows {
		artistURL, ok := row.Get(data.VarArtist)
		if !ok {
			continue
		}
		id := data.EntityID(artistURL)

		artist, seen := byID[id]
		if !seen {
			artist = newArtist(id, artistURL, row)
			byID[id] = artist
			artists = append(artists, artist)
		}

		if work, ok := resolveWork(row, overrides); ok {
			artist.Works = append(artist.Works, work)
		}
	}

	return artists
}

func newArtist(id, url string, row data.Row) *data.Artist {
	return &data.Artist{
		ID:              id,
		Name:            row.Or(data.VarArtistLabel, defaultName),
		Dates:           datesLabel(row),
		Role:            row.Or(data.VarRoleLabel, defaultRole),
		URL:             url,
		ULAN:            row.Or(data.VarULAN, ""),
		RKD:             row.Or(data.VarRKD, ""),
		WGA:             row.Or(data.VarWGA, ""),
		VIAF:            row.Or(data.VarVIAF, ""),
		CommonsCategory: row.Or(data.VarCommonsCat, ""),
	}
}

// datesLabel is like "1452-1519", or "born 1860" without a death date.
func datesLabel(row data.Row) string {
	birth := data.Year(row.Or(data.VarBirthDate, ""))
	death := data.Year(row.Or(data.VarDeathDate, ""))
	switch {
	case death != "":
		return birth + "-" + death
	case birth != "":
		return "born " + birth
	default:
		return ""
	}
}

// resolveWork builds the Work for a row, if the row names a work and an image
// for it can be found: first in the overrides, then in the row itself.
func resolveWork(row data.Row, overrides map[string]string) (data.Work, bool) {
	workURL, ok := row.Get(data.VarWork)
	if !ok {
		return data.Work{}, false
	}
	id := data.EntityID(workURL)

	var image string
	var origin data.Origin
	if local, ok := overrides[id]; ok {
		image, origin = local, data.OriginLocal
	} else if raw, ok := row.Get(data.VarImage); ok && raw != "" {
		image, origin = normalizeImage(raw), data.OriginWeb
	} else {
		return data.Work{}, false
	}

	date := undated
	if d, ok := row.Get(data.VarWorkDate); ok {
		date = data.Year(d)
	}

	return data.Work{
		ID:     id,
		Title:  row.Or(data.VarWorkLabel, defaultTitle),
		Date:   date,
		Image:  image,
		Origin: origin,
	}, true
}

// normalizeImage forces https, and asks Special:FilePath URLs for a
// thumbnail instead of the full-size file.
func normalizeImage(raw string) string {
	img := raw
	if strings.HasPrefix(img, "http://") {
		img = "https://" + strings.TrimPrefix(img, "http://")
	}
	if strings.Contains(img, "Special:FilePath") {
		sep := "?"
		if strings.Contains(img, "?") {
			sep = "&"
		}
		img += sep + "width=" + strconv.Itoa(thumbWidth)
	}
	return img
}

// sortByDates orders artists by their dates label compared as strings. This
// only approximates chronological order ("born 1490" sorts after every
// "1xxx-1yyy"), and callers rely on exactly this order.
func sortByDates(artists []*data.Artist) {
	sort.SliceStable(artists, func(i, j int) bool {
		return artists[i].Dates < artists[j].Dates
	})
}
