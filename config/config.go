// Package config loads the settings shared by every artists subcommand.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// ARTISTS_* environment variables. A double underscore in a variable name
// separates sections, so ARTISTS_SEARCH__CITY sets search.city.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/amonks/artists/aggregate"
	"github.com/amonks/artists/commons"
	"github.com/amonks/artists/logging"
	"github.com/amonks/artists/wikidata"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	EnvPrefix   = "ARTISTS_"
	PathEnvVar  = "ARTISTS_CONFIG"
	DefaultPath = "artists.yaml"

	UserAgent = "ArtistsGallery/1.0 (https://github.com/amonks/artists)"
)

type Config struct {
	Search    Search    `koanf:"search"`
	Wikidata  Wikidata  `koanf:"wikidata"`
	Commons   Commons   `koanf:"commons"`
	Overrides Overrides `koanf:"overrides"`
	Cache     Cache     `koanf:"cache"`
	Server    Server    `koanf:"server"`
	Log       Log       `koanf:"log"`
}

// Search holds the default aggregation parameters. Flags and query strings
// override them per run.
type Search struct {
	YearStart    int      `koanf:"year_start" validate:"min=1300,max=1900"`
	YearEnd      int      `koanf:"year_end" validate:"min=1300,max=1900"`
	City         string   `koanf:"city"`
	MaxPerArtist int      `koanf:"max_per_artist" validate:"min=1,max=6"`
	Limit        int      `koanf:"limit" validate:"min=1,max=100000"`
	Roles        []string `koanf:"roles" validate:"dive,required"`
	Languages    []string `koanf:"languages" validate:"dive,required"`
}

type Wikidata struct {
	Endpoint    string        `koanf:"endpoint" validate:"required,url"`
	UserAgent   string        `koanf:"user_agent" validate:"required"`
	Timeout     time.Duration `koanf:"timeout" validate:"gt=0"`
	Delay       time.Duration `koanf:"delay" validate:"gte=0"`
	LimiterFile string        `koanf:"limiter_file"`
}

type Commons struct {
	Endpoint    string        `koanf:"endpoint" validate:"required,url"`
	Timeout     time.Duration `koanf:"timeout" validate:"gt=0"`
	Delay       time.Duration `koanf:"delay" validate:"gte=0"`
	LimiterFile string        `koanf:"limiter_file"`
	Extensions  []string      `koanf:"extensions" validate:"min=1,dive,startswith=."`
}

type Overrides struct {
	// Backend is "file" for the JSON document or "sqlite".
	Backend   string `koanf:"backend" validate:"oneof=file sqlite"`
	Path      string `koanf:"path" validate:"required"`
	ImagesDir string `koanf:"images_dir" validate:"required"`
}

type Cache struct {
	// Backend is "memory", "dir" or "badger". Path is unused for memory.
	Backend string `koanf:"backend" validate:"oneof=memory dir badger"`
	Path    string `koanf:"path"`
}

type Server struct {
	Addr string `koanf:"addr" validate:"required"`
}

type Log struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

func Default() *Config {
	return &Config{
		Search: Search{
			YearStart:    1480,
			YearEnd:      1500,
			City:         "Florence",
			MaxPerArtist: 3,
			Limit:        3000,
			Roles:        append([]string(nil), wikidata.DefaultRoles...),
			Languages:    append([]string(nil), wikidata.DefaultLanguages...),
		},
		Wikidata: Wikidata{
			Endpoint:  wikidata.DefaultEndpoint,
			UserAgent: UserAgent,
			Timeout:   60 * time.Second,
			Delay:     time.Second,
		},
		Commons: Commons{
			Endpoint:   commons.DefaultEndpoint,
			Timeout:    5 * time.Second,
			Delay:      200 * time.Millisecond,
			Extensions: append([]string(nil), commons.DefaultExtensions...),
		},
		Overrides: Overrides{
			Backend:   "file",
			Path:      "overrides.json",
			ImagesDir: "images",
		},
		Cache: Cache{
			Backend: "memory",
			Path:    "cache",
		},
		Server: Server{
			Addr: ":9999",
		},
		Log: Log{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the configuration from defaults, the YAML file named by
// ARTISTS_CONFIG (or artists.yaml, if present) and the environment.
func Load() (*Config, error) {
	path := os.Getenv(PathEnvVar)
	if path == "" {
		if _, err := os.Stat(DefaultPath); err == nil {
			path = DefaultPath
		}
	}
	return LoadFile(path)
}

// LoadFile is Load with an explicit config file path. An empty path skips
// the file layer.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config file '%s': %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("error loading environment: %w", err)
	}
	if err := splitLists(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// envKey maps ARTISTS_SEARCH__YEAR_START to search.year_start.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

// listKeys are the slice settings. Environment variables set them as
// comma-separated strings.
var listKeys = []string{"search.roles", "search.languages", "commons.extensions"}

func splitLists(k *koanf.Koanf) error {
	for _, key := range listKeys {
		s, ok := k.Get(key).(string)
		if !ok {
			continue
		}
		var items []string
		for _, item := range strings.Split(s, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		if err := k.Set(key, items); err != nil {
			return fmt.Errorf("error setting '%s': %w", key, err)
		}
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	var errs []error
	if err := c.Params().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Cache.Backend != "memory" && c.Cache.Path == "" {
		errs = append(errs, fmt.Errorf("cache backend '%s' needs a path", c.Cache.Backend))
	}
	return errors.Join(errs...)
}

// Params returns the configured search as aggregation parameters.
func (c *Config) Params() aggregate.Params {
	return aggregate.Params{
		YearStart:    c.Search.YearStart,
		YearEnd:      c.Search.YearEnd,
		City:         c.Search.City,
		MaxPerArtist: c.Search.MaxPerArtist,
		Limit:        c.Search.Limit,
		Roles:        c.Search.Roles,
		Languages:    c.Search.Languages,
	}
}

func (c *Config) Logging() logging.Config {
	return logging.Config{Level: c.Log.Level, Format: c.Log.Format}
}
