package subcmd_test

import (
	"bytes"
	"flag"
	"testing"

	"github.com/amonks/artists/subcmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsage(t *testing.T) {
	sc := subcmd.New("override", "record a local image for a work")
	sc.SetArg("work-id image", "string", "the work and the image to show for it")
	sc.Bool("list", false, "list overrides")

	var buf bytes.Buffer
	sc.SetOutput(&buf)
	assert.ErrorIs(t, sc.Parse([]string{"-help"}), flag.ErrHelp)

	out := buf.String()
	assert.Contains(t, out, "record a local image for a work")
	assert.Contains(t, out, "artists override [flags] <work-id image>")
	assert.Contains(t, out, "-list")
}

func TestProvided(t *testing.T) {
	sc := subcmd.New("search", "search")
	sc.Int("from", 1480, "")
	sc.Int("to", 1500, "")

	require.NoError(t, sc.Parse([]string{"-from", "1480"}))
	assert.True(t, sc.Provided("from"), "set to its default value")
	assert.False(t, sc.Provided("to"))
}
