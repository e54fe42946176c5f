package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/recipe-extractor/internal/analyze"
	"github.com/dtnitsch/recipe-extractor/internal/db"
	"github.com/dtnitsch/recipe-extractor/internal/extract"
	"github.com/dtnitsch/recipe-extractor/internal/serve"
	"github.com/dtnitsch/recipe-extractor/models"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "recipe-extractor",
		Usage:   "extract normalized recipe records from HTML pages",
		Version: models.SchemaVersion,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors"},
			&cli.BoolFlag{Name: "verbose", Usage: "log debug output"},
		},
		Commands: []*cli.Command{
			{
				Name:   "extract",
				Usage:  "fetch pages (or read one from disk) and extract recipes",
				Flags:  extract.Flags(),
				Action: extract.ExtractAction,
			},
			{
				Name:   "analyze",
				Usage:  "summarize an extracted recipe",
				Flags:  analyze.Flags(),
				Action: analyze.AnalyzeAction,
			},
			{
				Name:   "serve",
				Usage:  "run the HTTP extraction service",
				Flags:  serve.Flags(),
				Action: serve.ServeAction,
			},
			{
				Name:   "history",
				Usage:  "list stored recipes",
				Flags:  db.HistoryFlags(),
				Action: db.HistoryAction,
			},
			{
				Name:      "show",
				Usage:     "print a stored recipe",
				ArgsUsage: "<id_or_url>",
				Flags:     db.ShowFlags(),
				Action:    db.ShowAction,
			},
		},
	}
}
