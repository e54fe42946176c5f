package db

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dtnitsch/recipe-extractor/models"
	dbpkg "github.com/dtnitsch/recipe-extractor/pkg/db"
)

// ResolveRecipe loads a stored recipe from a numeric recipe id or a source URL.
func ResolveRecipe(arg string, database *dbpkg.DB) (*models.Recipe, error) {
	arg = strings.TrimSpace(arg)
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return database.GetRecipe(id)
	}
	if arg == "" {
		return nil, fmt.Errorf("recipe id or URL required")
	}
	return database.GetRecipeByURL(arg)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
