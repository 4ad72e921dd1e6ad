// Package aggregate turns knowledge-graph rows into a gallery: one record per
// artist, at most a fixed number of images each, topped up from Wikimedia
// Commons when the graph links too few.
//
// A run is sequential and never fails. Upstream failures only mean less
// data; the worst case is an empty or placeholder-heavy list.
package aggregate

import (
	"context"
	"fmt"
	"time"

	"github.com/amonks/artists/commons"
	"github.com/amonks/artists/data"
	"github.com/amonks/artists/metrics"
	"github.com/amonks/artists/wikidata"
	"github.com/rs/zerolog/log"
)

// Graph runs artist queries against the knowledge graph.
type Graph interface {
	Query(ctx context.Context, q wikidata.Query) wikidata.Result
}

// Images finds fallback images for an artist's Commons category.
type Images interface {
	FetchImages(ctx context.Context, category string, limit int) commons.Result
}

// Overrides supplies user-provided images by work id.
type Overrides interface {
	Load() map[string]string
}

// Params are the inputs of one aggregation run.
type Params struct {
	YearStart, YearEnd int

	// Optional; matched against place labels.
	City string

	// The most images shown per artist.
	MaxPerArtist int

	// The most rows requested from the graph.
	Limit int

	// Occupation keys (see wikidata.Roles) and label languages. Empty means
	// the graph client's defaults.
	Roles     []string
	Languages []string
}

// Validate checks the bounds that callers are expected to enforce before
// running an aggregation.
func (p Params) Validate() error {
	if p.YearStart > p.YearEnd {
		return fmt.Errorf("year range %d-%d is reversed", p.YearStart, p.YearEnd)
	}
	if p.MaxPerArtist < 1 {
		return fmt.Errorf("max images per artist must be positive, got %d", p.MaxPerArtist)
	}
	if p.Limit < 1 {
		return fmt.Errorf("row limit must be positive, got %d", p.Limit)
	}
	for _, role := range p.Roles {
		if _, ok := wikidata.Roles[role]; !ok {
			return fmt.Errorf("unknown role '%s'", role)
		}
	}
	return nil
}

func (p Params) query() wikidata.Query {
	return wikidata.Query{
		YearStart: p.YearStart,
		YearEnd:   p.YearEnd,
		City:      p.City,
		Limit:     p.Limit,
		Roles:     p.Roles,
		Languages: p.Languages,
	}
}

// Engine is the aggregation pipeline.
type Engine struct {
	graph     Graph
	images    Images
	overrides Overrides
}

func New(graph Graph, images Images, overrides Overrides) *Engine {
	return &Engine{
		graph:     graph,
		images:    images,
		overrides: overrides,
	}
}

// Report describes one run: the display items, and which upstream data was
// missing because a source failed.
type Report struct {
	Items   []data.DisplayItem
	Artists int

	// GraphErr is set when the graph query failed; Items is then empty.
	GraphErr error

	// ImageFailures counts the Commons lookups that failed.
	ImageFailures int
}

// Aggregate runs the pipeline and returns the flat, ordered display items.
func (e *Engine) Aggregate(ctx context.Context, p Params) []data.DisplayItem {
	return e.Run(ctx, p).Items
}

// Run is Aggregate with a report of degraded sources.
func (e *Engine) Run(ctx context.Context, p Params) Report {
	start := time.Now()
	defer func() { metrics.AggregateDuration.Observe(time.Since(start).Seconds()) }()

	// Re-read on every run so that overrides recorded in the meantime show up.
	overrides := e.overrides.Load()

	var report Report
	result := e.graph.Query(ctx, p.query())
	if result.Degraded() {
		report.GraphErr = result.Err
	}

	artists := group(result.Rows, overrides)
	sortByDates(artists)
	report.Artists = len(artists)

	items := []data.DisplayItem{}
	for _, artist := range artists {
		works, failed := e.fill(ctx, artist, p.MaxPerArtist)
		if failed {
			report.ImageFailures++
		}
		items = append(items, flatten(artist, Links(artist), works, p.MaxPerArtist)...)
	}
	report.Items = items

	for _, item := range items {
		metrics.DisplayItems.WithLabelValues(string(item.Origin)).Inc()
	}
	log.Info().
		Int("rows", len(result.Rows)).
		Int("artists", report.Artists).
		Int("items", len(items)).
		Bool("graph_failed", report.GraphErr != nil).
		Int("image_failures", report.ImageFailures).
		Dur("took", time.Since(start)).
		Msg("aggregated")

	return report
}
