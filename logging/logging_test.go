package logging_test

import (
	"bytes"
	"testing"

	"github.com/amonks/artists/logging"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitJSON(t *testing.T) {
	defer logging.Init(logging.Config{Level: "info"})

	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "warn", Format: "json", Output: &buf})

	log.Info().Msg("dropped")
	log.Warn().Str("source", "wikidata").Msg("upstream failed")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "wikidata", line["source"])
	assert.Equal(t, "upstream failed", line["message"])
	assert.Contains(t, line, "time")
}

func TestInitConsole(t *testing.T) {
	defer logging.Init(logging.Config{Level: "info"})

	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "debug", Format: "console", Output: &buf})

	log.Debug().Int("rows", 3).Msg("fetched")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	assert.Contains(t, buf.String(), "fetched")
	assert.Contains(t, buf.String(), "rows=")
}

func TestUnknownLevelIsInfo(t *testing.T) {
	defer logging.Init(logging.Config{Level: "info"})

	logging.Init(logging.Config{Level: "loud", Output: &bytes.Buffer{}})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
