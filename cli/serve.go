package main

import (
	"context"
	"fmt"

	"github.com/amonks/artists/config"
	"github.com/amonks/artists/server"
	"github.com/amonks/artists/subcmd"
)

func serve(ctx context.Context, cfg *config.Config, args []string) error {
	subcmd := subcmd.New("serve", "run the gallery web server")
	var (
		addr = subcmd.String("addr", cfg.Server.Addr, "listen address")
	)
	if err := subcmd.Parse(args); err != nil {
		return fmt.Errorf("flag parsing err: %w", err)
	}

	engine, closers, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer closers.Close()

	return server.New(engine, cfg.Params(), cfg.Overrides.ImagesDir).Run(ctx, *addr)
}
