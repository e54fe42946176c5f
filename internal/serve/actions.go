package serve

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/recipe-extractor/internal/common"
	"github.com/dtnitsch/recipe-extractor/pkg/db"
	"github.com/dtnitsch/recipe-extractor/pkg/fetcher"
	"github.com/dtnitsch/recipe-extractor/pkg/server"
)

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "addr", Value: ":8080", EnvVars: []string{"RECIPE_ADDR"}, Usage: "listen address"},
		&cli.BoolFlag{Name: "store", Usage: "save records and attempts in SQLite"},
		&cli.StringFlag{Name: "db", EnvVars: []string{"RECIPE_DB"}, Usage: "SQLite path (default: next to the binary)"},
		&cli.StringFlag{Name: "selectors", EnvVars: []string{"RECIPE_SELECTORS"}, Usage: "YAML selector cascade overriding the defaults"},
		&cli.DurationFlag{Name: "timeout", Value: fetcher.DefaultTimeout, Usage: "per-page fetch timeout"},
	}
}

// ServeAction runs the HTTP service until SIGINT or SIGTERM.
func ServeAction(c *cli.Context) error {
	logger := common.NewLogger(os.Stderr, c.Bool("quiet"), c.Bool("verbose"))

	p, err := common.BuildParser(c.String("selectors"))
	if err != nil {
		return fmt.Errorf("failed to load selectors: %w", err)
	}

	opts := []server.Option{
		server.WithParser(p),
		server.WithFetcher(fetcher.NewFetcher(fetcher.WithTimeout(c.Duration("timeout")))),
	}

	if c.Bool("store") {
		database, err := db.Open(c.String("db"))
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()
		opts = append(opts, server.WithStore(database))
		logger.Info("Storing records", "db", database.Path())
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(logger, opts...).ListenAndServe(ctx, c.String("addr"))
}
