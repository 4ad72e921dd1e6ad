package main

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"text/tabwriter"

	"github.com/amonks/artists/config"
	"github.com/amonks/artists/overrides"
	"github.com/amonks/artists/subcmd"
)

func override(cfg *config.Config, args []string) error {
	subcmd := subcmd.New("override", "show a local image for a work instead of the one wikidata links")
	subcmd.SetArg("work-id image", "string", "a work id like Q151047, and an image path or URL")
	var (
		list     = subcmd.Bool("list", false, "list the recorded overrides and exit")
		copyFile = subcmd.Bool("copy", false, "copy the image file into the images directory first")
	)
	if err := subcmd.Parse(args); err != nil {
		return fmt.Errorf("flag parsing err: %w", err)
	}

	var cs closers
	defer func() { cs.Close() }()
	store, err := openStore(cfg, &cs)
	if err != nil {
		return err
	}

	if *list {
		m := store.Load()
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, id := range overrides.SortedIDs(m) {
			fmt.Fprintf(tw, "%s\t%s\n", id, m[id])
		}
		return tw.Flush()
	}

	if subcmd.NArg() != 2 {
		subcmd.Usage()
		return fmt.Errorf("expected a work id and an image, got %d args", subcmd.NArg())
	}
	workID, image := subcmd.Arg(0), subcmd.Arg(1)

	if *copyFile {
		dst, err := overrides.CopyImage(cfg.Overrides.ImagesDir, workID, image)
		if err != nil {
			return err
		}
		// The gallery serves the images directory under /images/.
		image = path.Join("images", filepath.Base(dst))
	}

	if err := store.Set(workID, image); err != nil {
		return fmt.Errorf("error recording override for '%s': %w", workID, err)
	}
	fmt.Printf("%s -> %s\n", workID, image)
	return nil
}
