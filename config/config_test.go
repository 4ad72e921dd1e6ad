package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/amonks/artists/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "artists.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := config.LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, 1480, cfg.Search.YearStart)
	assert.Equal(t, 1500, cfg.Search.YearEnd)
	assert.Equal(t, "Florence", cfg.Search.City)
	assert.Equal(t, 3, cfg.Search.MaxPerArtist)
	assert.Equal(t, 3000, cfg.Search.Limit)
	assert.Equal(t, []string{"painter", "Q15953503", "Q1580177", "Q3393341", "writer"}, cfg.Search.Roles)
	assert.Equal(t, []string{"fr", "en"}, cfg.Search.Languages)
	assert.Equal(t, 60*time.Second, cfg.Wikidata.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Commons.Timeout)
	assert.Equal(t, []string{".jpg", ".jpeg", ".png"}, cfg.Commons.Extensions)
	assert.Equal(t, "file", cfg.Overrides.Backend)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, ":9999", cfg.Server.Addr)

	assert.NoError(t, config.Default().Validate())
}

func TestFile(t *testing.T) {
	path := writeFile(t, `
search:
  year_start: 1600
  year_end: 1650
  city: Amsterdam
  roles: [painter, engraver]
wikidata:
  timeout: 30s
cache:
  backend: badger
  path: /tmp/artists-cache
`)

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 1600, cfg.Search.YearStart)
	assert.Equal(t, 1650, cfg.Search.YearEnd)
	assert.Equal(t, "Amsterdam", cfg.Search.City)
	assert.Equal(t, []string{"painter", "engraver"}, cfg.Search.Roles)
	assert.Equal(t, 30*time.Second, cfg.Wikidata.Timeout)
	assert.Equal(t, "badger", cfg.Cache.Backend)
	assert.Equal(t, 3, cfg.Search.MaxPerArtist, "untouched defaults survive")
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, `
search:
  city: Amsterdam
`)
	t.Setenv("ARTISTS_SEARCH__CITY", "Siena")
	t.Setenv("ARTISTS_SEARCH__MAX_PER_ARTIST", "5")
	t.Setenv("ARTISTS_SEARCH__ROLES", "painter, sculptor")
	t.Setenv("ARTISTS_OVERRIDES__BACKEND", "sqlite")

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "Siena", cfg.Search.City)
	assert.Equal(t, 5, cfg.Search.MaxPerArtist)
	assert.Equal(t, []string{"painter", "sculptor"}, cfg.Search.Roles)
	assert.Equal(t, "sqlite", cfg.Overrides.Backend)
}

func TestLoadUsesConfigEnvVar(t *testing.T) {
	t.Setenv(config.PathEnvVar, writeFile(t, "server:\n  addr: :8080\n"))

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestMissingFile(t *testing.T) {
	_, err := config.LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	for name, mutate := range map[string]func(*config.Config){
		"reversed years":     func(c *config.Config) { c.Search.YearStart, c.Search.YearEnd = 1500, 1480 },
		"years out of range": func(c *config.Config) { c.Search.YearStart = 1200 },
		"max too large":      func(c *config.Config) { c.Search.MaxPerArtist = 7 },
		"max zero":           func(c *config.Config) { c.Search.MaxPerArtist = 0 },
		"zero limit":         func(c *config.Config) { c.Search.Limit = 0 },
		"unknown role":       func(c *config.Config) { c.Search.Roles = []string{"juggler"} },
		"override backend":   func(c *config.Config) { c.Overrides.Backend = "s3" },
		"cache backend":      func(c *config.Config) { c.Cache.Backend = "redis" },
		"cache path":         func(c *config.Config) { c.Cache.Backend, c.Cache.Path = "dir", "" },
		"endpoint":           func(c *config.Config) { c.Wikidata.Endpoint = "not a url" },
		"extension":          func(c *config.Config) { c.Commons.Extensions = []string{"jpg"} },
		"log format":         func(c *config.Config) { c.Log.Format = "xml" },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestParams(t *testing.T) {
	p := config.Default().Params()
	assert.Equal(t, 1480, p.YearStart)
	assert.Equal(t, 1500, p.YearEnd)
	assert.Equal(t, "Florence", p.City)
	assert.Equal(t, 3, p.MaxPerArtist)
	assert.Equal(t, 3000, p.Limit)
	assert.NoError(t, p.Validate())
}
