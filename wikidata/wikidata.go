// Package wikidata queries the Wikidata SPARQL endpoint for artists, their
// works and their external identifiers.
package wikidata

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/amonks/artists/data"
	"github.com/amonks/artists/metrics"
	"github.com/amonks/artists/readthrough"
	"github.com/amonks/artists/request"
	"github.com/rs/zerolog/log"
	gobreaker "github.com/sony/gobreaker/v2"
)

const DefaultEndpoint = "https://query.wikidata.org/sparql"

// Result is the outcome of a query. A failed query has no rows and a non-nil
// Err; an empty successful query has neither.
type Result struct {
	Rows []data.Row
	Err  error
}

// Degraded reports whether the rows are missing because the upstream failed.
func (r Result) Degraded() bool { return r.Err != nil }

// New creates a client for the SPARQL endpoint at endpoint. Successful
// results are memoized in cache, which may be nil.
func New(endpoint string, http *request.Client, cache *readthrough.Cache) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		http:     http,
		cache:    cache,
		cb:       request.NewBreaker[[]data.Row]("wikidata"),
	}
}

type Client struct {
	endpoint string
	http     *request.Client
	cache    *readthrough.Cache
	cb       *gobreaker.CircuitBreaker[[]data.Row]
}

// Query runs q against the endpoint. It never returns a Go error: failures
// are logged and reported through Result.Err.
func (c *Client) Query(ctx context.Context, q Query) Result {
	key := readthrough.Key("wikidata",
		q.YearStart, q.YearEnd, q.City, q.Limit, q.Roles, q.Languages)

	rows, err := readthrough.Do(c.cache, key, func() ([]data.Row, error) {
		return c.cb.Execute(func() ([]data.Row, error) {
			return c.fetch(ctx, q)
		})
	})
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("wikidata", request.Outcome(err)).Inc()
		log.Warn().Err(err).
			Int("from", q.YearStart).Int("to", q.YearEnd).Str("city", q.City).
			Msg("sparql query failed")
		return Result{Err: err}
	}
	return Result{Rows: rows}
}

func (c *Client) fetch(ctx context.Context, q Query) ([]data.Row, error) {
	sparql, err := q.SPARQL()
	if err != nil {
		return nil, fmt.Errorf("error building query: %w", err)
	}

	query := url.Values{}
	query.Set("query", sparql)
	query.Set("format", "json")

	start := time.Now()
	var results sparqlResults
	if err := c.http.GetJSON(ctx, c.endpoint, query, &results); err != nil {
		return nil, err
	}
	metrics.UpstreamRequests.WithLabelValues("wikidata", "ok").Inc()

	rows := make([]data.Row, 0, len(results.Results.Bindings))
	for _, binding := range results.Results.Bindings {
		row := make(data.Row, len(binding))
		for name, value := range binding {
			row[name] = value.Value
		}
		rows = append(rows, row)
	}

	log.Debug().
		Int("rows", len(rows)).
		Dur("took", time.Since(start)).
		Msg("sparql query done")

	return rows, nil
}

type sparqlResults struct {
	Head struct {
		Vars []string
	}
	Results struct {
		Bindings []map[string]struct {
			Type  string
			Value string
		}
	}
}
