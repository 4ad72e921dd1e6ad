package aggregate

import (
	"context"

	"github.com/amonks/artists/data"
)

const commonsTitle = "Via external image repository"

// fill returns the works to show for an artist: its resolved works, followed
// by Commons images when there are fewer than max of them and the artist has
// a category. The fallback works exist only for this run and are not stored
// on the artist. failed reports a failed Commons lookup.
func (e *Engine) fill(ctx context.Context, a *data.Artist, max int) (works []data.Work, failed bool) {
	works = make([]data.Work, len(a.Works))
	copy(works, a.Works)

	have := len(works)
	if have >= max || a.CommonsCategory == "" {
		return works, false
	}

	result := e.images.FetchImages(ctx, a.CommonsCategory, max-have)
	for _, img := range result.Images {
		works = append(works, data.Work{
			ID:     "commons:" + a.ID,
			Title:  commonsTitle,
			Image:  img,
			Origin: data.OriginCommons,
		})
	}
	return works, result.Degraded()
}
