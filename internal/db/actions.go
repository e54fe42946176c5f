package db

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	dbpkg "github.com/dtnitsch/recipe-extractor/pkg/db"
	"github.com/dtnitsch/recipe-extractor/pkg/storage"
)

var dbFlag = &cli.StringFlag{Name: "db", EnvVars: []string{"RECIPE_DB"}, Usage: "SQLite path (default: next to the binary)"}

func HistoryFlags() []cli.Flag {
	return []cli.Flag{
		dbFlag,
		&cli.IntFlag{Name: "limit", Value: 20, Usage: "number of recipes to list"},
	}
}

func ShowFlags() []cli.Flag {
	return []cli.Flag{
		dbFlag,
		&cli.StringFlag{Name: "format", Value: storage.FormatJSON, Usage: "json or yaml"},
	}
}

// HistoryAction lists stored recipes, most recently updated first.
func HistoryAction(c *cli.Context) error {
	database, err := dbpkg.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	summaries, err := database.ListRecipes(c.Int("limit"))
	if err != nil {
		return err
	}
	PrintHistory(c.App.Writer, summaries)
	return nil
}

// PrintHistory writes summaries as a table.
func PrintHistory(w io.Writer, summaries []dbpkg.RecipeSummary) {
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No recipes stored. Run 'recipe-extractor extract --store --urls \"...\"' first")
		return
	}

	fmt.Fprintf(w, "%-6s %-20s %-6s %-6s %-32s %s\n",
		"ID", "Extracted", "Ingr", "Steps", "Title", "Source URL")
	fmt.Fprintln(w, strings.Repeat("-", 120))
	for _, s := range summaries {
		fmt.Fprintf(w, "%-6d %-20s %-6d %-6d %-32s %s\n",
			s.RecipeID,
			s.ExtractedAt.Format("2006-01-02 15:04:05"),
			s.IngredientCount,
			s.InstructionCount,
			truncate(s.Title, 32),
			s.SourceURL,
		)
	}
	fmt.Fprintf(w, "\nTotal: %d recipes\n", len(summaries))
	fmt.Fprintln(w, "\nTip: Use 'recipe-extractor show <id>' to see a record")
}

// ShowAction prints a stored recipe by id or source URL.
func ShowAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("recipe ID or URL required\nUsage: recipe-extractor show <id_or_url>\nExample: recipe-extractor show 12 OR recipe-extractor show https://example.com/recipe")
	}

	database, err := dbpkg.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	arg := c.Args().First()
	recipe, err := ResolveRecipe(arg, database)
	if errors.Is(err, dbpkg.ErrNotFound) {
		return fmt.Errorf("no stored recipe for %s\n\nTry:\n  recipe-extractor extract --store --urls \"%s\"", arg, arg)
	}
	if err != nil {
		return err
	}

	data, err := storage.Encode(recipe, c.String("format"))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, string(data))
	return nil
}
