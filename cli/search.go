package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/amonks/artists/aggregate"
	"github.com/amonks/artists/config"
	"github.com/amonks/artists/data"
	"github.com/amonks/artists/setflag"
	"github.com/amonks/artists/subcmd"
	"github.com/amonks/artists/wikidata"
	"github.com/goccy/go-json"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func roleNames() []string {
	names := make([]string, 0, len(wikidata.Roles))
	for name := range wikidata.Roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func search(ctx context.Context, cfg *config.Config, args []string) error {
	subcmd := subcmd.New("search", "find artists and images of their work")
	var (
		from      = subcmd.Int("from", cfg.Search.YearStart, "earliest birth year")
		to        = subcmd.Int("to", cfg.Search.YearEnd, "latest birth year")
		city      = subcmd.String("city", cfg.Search.City, "place of birth, death or work; empty matches anywhere")
		perArtist = subcmd.Int("max", cfg.Search.MaxPerArtist, "images per artist (1-6)")
		limit     = subcmd.Int("limit", cfg.Search.Limit, "most rows requested from wikidata")
		asJSON    = subcmd.Bool("json", false, "print the display items as json")
	)
	roles := setflag.New(roleNames()...)
	subcmd.Var(roles, "roles", "comma-separated roles: "+strings.Join(roleNames(), ", "))
	if err := subcmd.Parse(args); err != nil {
		return fmt.Errorf("flag parsing err: %w", err)
	}

	p := cfg.Params()
	p.YearStart, p.YearEnd = *from, *to
	p.City = strings.TrimSpace(*city)
	p.MaxPerArtist = *perArtist
	p.Limit = *limit
	if subcmd.Provided("roles") {
		p.Roles = roles.List()
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if p.MaxPerArtist > 6 {
		return fmt.Errorf("max images per artist is at most 6, got %d", p.MaxPerArtist)
	}

	engine, closers, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer closers.Close()

	report := engine.Run(ctx, p)
	if err := ctx.Err(); err != nil {
		return err
	}

	if *asJSON {
		return printJSON(os.Stdout, report.Items)
	}
	printTable(os.Stdout, report.Items)
	printSummary(os.Stderr, report)
	return nil
}

func printJSON(w io.Writer, items []data.DisplayItem) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(items)
}

func printTable(w io.Writer, items []data.DisplayItem) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join([]string{"artist", "dates", "role", "type", "work", "date", "image"}, "\t"))
	for _, item := range items {
		title, date := "", ""
		if item.ShowsWork() {
			title, date = item.WorkTitle, item.WorkDate
		}
		fmt.Fprintln(tw, strings.Join([]string{
			item.ArtistName, item.ArtistDates, item.ArtistRole,
			string(item.Origin), title, date, item.Image,
		}, "\t"))
	}
	tw.Flush()
}

func printSummary(w io.Writer, report aggregate.Report) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "%d artists found, %d images\n", data.CountArtists(report.Items), len(report.Items))
	if report.GraphErr != nil {
		p.Fprintf(w, "wikidata did not respond: %v\n", report.GraphErr)
	}
	if report.ImageFailures > 0 {
		p.Fprintf(w, "%d commons lookups failed\n", report.ImageFailures)
	}
}
