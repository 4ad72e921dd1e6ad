// Package commons looks up images in Wikimedia Commons categories. It is the
// fallback image source for artists whose works have no linked image.
package commons

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/amonks/artists/metrics"
	"github.com/amonks/artists/readthrough"
	"github.com/amonks/artists/request"
	"github.com/rs/zerolog/log"
	gobreaker "github.com/sony/gobreaker/v2"
)

const DefaultEndpoint = "https://commons.wikimedia.org/w/api.php"

// DefaultExtensions are the raster formats we are willing to show. Documents
// and heavy formats like .pdf or .tif are left out.
var DefaultExtensions = []string{".jpg", ".jpeg", ".png"}

// Result is the outcome of an image lookup. A failed lookup has no images and
// a non-nil Err.
type Result struct {
	Images []string
	Err    error
}

// Degraded reports whether the images are missing because the upstream
// failed.
func (r Result) Degraded() bool { return r.Err != nil }

// New creates a client for the MediaWiki API at endpoint. Only image URLs
// ending in one of extensions are kept; nil means DefaultExtensions.
// Successful results are memoized in cache, which may be nil.
func New(endpoint string, extensions []string, http *request.Client, cache *readthrough.Cache) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if extensions == nil {
		extensions = DefaultExtensions
	}
	exts := make([]string, len(extensions))
	for i, ext := range extensions {
		exts[i] = strings.ToLower(ext)
	}
	return &Client{
		endpoint:   endpoint,
		extensions: exts,
		http:       http,
		cache:      cache,
		cb:         request.NewBreaker[[]string]("commons"),
	}
}

type Client struct {
	endpoint   string
	extensions []string
	http       *request.Client
	cache      *readthrough.Cache
	cb         *gobreaker.CircuitBreaker[[]string]
}

// FetchImages returns up to limit image URLs from the files in the named
// category. A blank category short-circuits without a request. Failures are
// logged and reported through Result.Err, and are never retried.
func (c *Client) FetchImages(ctx context.Context, category string, limit int) Result {
	if strings.TrimSpace(category) == "" || limit <= 0 {
		return Result{}
	}

	key := readthrough.Key("commons", category, limit)
	images, err := readthrough.Do(c.cache, key, func() ([]string, error) {
		return c.cb.Execute(func() ([]string, error) {
			return c.fetch(ctx, category, limit)
		})
	})
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("commons", request.Outcome(err)).Inc()
		log.Warn().Err(err).Str("category", category).Msg("commons lookup failed")
		return Result{Err: err}
	}
	return Result{Images: images}
}

func (c *Client) fetch(ctx context.Context, category string, limit int) ([]string, error) {
	query := url.Values{}
	query.Set("action", "query")
	query.Set("generator", "categorymembers")
	query.Set("gcmtitle", "Category:"+category)
	query.Set("gcmtype", "file")
	query.Set("gcmlimit", strconv.Itoa(limit))
	query.Set("prop", "imageinfo")
	query.Set("iiprop", "url")
	query.Set("format", "json")

	var results categoryMembers
	if err := c.http.GetJSON(ctx, c.endpoint, query, &results); err != nil {
		return nil, fmt.Errorf("error fetching category '%s': %w", category, err)
	}
	metrics.UpstreamRequests.WithLabelValues("commons", "ok").Inc()

	pages := make([]page, 0, len(results.Query.Pages))
	for _, p := range results.Query.Pages {
		pages = append(pages, p)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].PageID < pages[j].PageID })

	images := []string{}
	for _, p := range pages {
		if len(images) == limit {
			break
		}
		if len(p.ImageInfo) == 0 {
			continue
		}
		if u := p.ImageInfo[0].URL; c.supported(u) {
			images = append(images, u)
		}
	}
	return images, nil
}

func (c *Client) supported(imageURL string) bool {
	lower := strings.ToLower(imageURL)
	for _, ext := range c.extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

type categoryMembers struct {
	Query struct {
		Pages map[string]page
	}
}

type page struct {
	PageID    int64 `json:"pageid"`
	Title     string
	ImageInfo []struct {
		URL string
	} `json:"imageinfo"`
}
