// artists finds artists born in a span of years and place in Wikidata, and
// shows a few images of each one's work, topped up from Wikimedia Commons.
//
// Settings come from artists.yaml and ARTISTS_* environment variables; see
// the config package.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/amonks/artists/config"
	"github.com/amonks/artists/logging"
	"github.com/amonks/artists/sigctx"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var usage = strings.TrimSpace(`
usage: artists $cmd
valid $cmd are 'search', 'serve', 'override'
for help: artists $cmd -help
`)

func run() error {
	ctx := sigctx.New()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(cfg.Logging())

	if len(os.Args) < 2 {
		return errors.New(usage)
	}
	cmd, args := os.Args[1], os.Args[2:]

	switch cmd {
	case "search":
		return search(ctx, cfg, args)

	case "serve":
		return serve(ctx, cfg, args)

	case "override":
		return override(cfg, args)

	default:
		return fmt.Errorf("unknown cmd: '%s'\n%s", cmd, usage)
	}
}
