package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/amonks/artists/aggregate"
	"github.com/amonks/artists/commons"
	"github.com/amonks/artists/config"
	"github.com/amonks/artists/db"
	"github.com/amonks/artists/limiter"
	"github.com/amonks/artists/overrides"
	"github.com/amonks/artists/readthrough"
	"github.com/amonks/artists/request"
	"github.com/amonks/artists/wikidata"
	"github.com/rs/zerolog/log"
)

// closers collects the cleanup of opened resources.
type closers []func() error

func (cs closers) Close() error {
	var errs []error
	for i := len(cs) - 1; i >= 0; i-- {
		errs = append(errs, cs[i]())
	}
	return errors.Join(errs...)
}

func openStore(cfg *config.Config, cs *closers) (overrides.Store, error) {
	switch cfg.Overrides.Backend {
	case "sqlite":
		d, err := db.Open(cfg.Overrides.Path)
		if err != nil {
			return nil, err
		}
		*cs = append(*cs, d.Close)
		return d, nil
	default:
		return overrides.NewFile(cfg.Overrides.Path), nil
	}
}

func openCache(cfg *config.Config, cs *closers) (*readthrough.Cache, error) {
	switch cfg.Cache.Backend {
	case "dir":
		d, err := readthrough.NewDir(cfg.Cache.Path, "memo-")
		if err != nil {
			return nil, err
		}
		return readthrough.New(d), nil
	case "badger":
		b, err := readthrough.OpenBadger(cfg.Cache.Path)
		if err != nil {
			return nil, err
		}
		*cs = append(*cs, b.Close)
		return readthrough.New(b), nil
	default:
		return readthrough.New(readthrough.NewMemory()), nil
	}
}

func openLimiter(filename string, delay time.Duration) *limiter.Limiter {
	lim := limiter.New(filename, delay)
	if err := lim.Load(); err != nil {
		log.Warn().Err(err).Str("file", filename).Msg("ignoring unreadable backoff file")
	}
	return lim
}

// openEngine wires the upstream clients, the memo cache and the override
// store into an aggregation engine.
func openEngine(cfg *config.Config) (*aggregate.Engine, closers, error) {
	var cs closers

	store, err := openStore(cfg, &cs)
	if err != nil {
		return nil, cs, fmt.Errorf("error opening override store: %w", err)
	}
	cache, err := openCache(cfg, &cs)
	if err != nil {
		cs.Close()
		return nil, nil, fmt.Errorf("error opening cache: %w", err)
	}

	wdLim := openLimiter(cfg.Wikidata.LimiterFile, cfg.Wikidata.Delay)
	cmLim := openLimiter(cfg.Commons.LimiterFile, cfg.Commons.Delay)

	graph := wikidata.New(cfg.Wikidata.Endpoint,
		request.NewClient(cfg.Wikidata.UserAgent, cfg.Wikidata.Timeout, wdLim), cache)
	images := commons.New(cfg.Commons.Endpoint, cfg.Commons.Extensions,
		request.NewClient(cfg.Wikidata.UserAgent, cfg.Commons.Timeout, cmLim), cache)

	return aggregate.New(graph, images, store), cs, nil
}
