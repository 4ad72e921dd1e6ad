package aggregate

import (
	"html/template"

	"github.com/amonks/artists/data"
)

const (
	// Shown for artists without any image.
	placeholderImage = "https://upload.wikimedia.org/wikipedia/commons/thumb/1/16/Former_man_icon.svg/200px-Former_man_icon.svg.png"
	placeholderTitle = "No image found"

	commonsSourceLabel = "Image from Wikimedia Commons (not linked)"
)

// flatten turns one artist and its works into display items: one per work,
// at most max of them, or a single placeholder item when there are no works.
func flatten(a *data.Artist, links template.HTML, works []data.Work, max int) []data.DisplayItem {
	base := data.DisplayItem{
		ArtistID:    a.ID,
		ArtistName:  a.Name,
		ArtistDates: a.Dates,
		ArtistRole:  a.Role,
		Links:       links,
	}

	if len(works) == 0 {
		item := base
		item.WorkTitle = placeholderTitle
		item.Image = placeholderImage
		item.Origin = data.OriginArtistOnly
		return []data.DisplayItem{item}
	}

	if len(works) > max {
		works = works[:max]
	}
	items := make([]data.DisplayItem, 0, len(works))
	for _, w := range works {
		item := base
		item.WorkID = w.ID
		item.WorkTitle = w.Title
		item.WorkDate = w.Date
		item.Image = w.Image
		item.Origin = w.Origin
		if w.Origin == data.OriginCommons {
			item.SourceLabel = commonsSourceLabel
		}
		items = append(items, item)
	}
	return items
}
