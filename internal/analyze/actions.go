package analyze

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/recipe-extractor/internal/common"
	"github.com/dtnitsch/recipe-extractor/pkg/analytics"
	"github.com/dtnitsch/recipe-extractor/pkg/storage"
)

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Required: true, Usage: "extracted recipe (.json, .yaml)"},
		&cli.StringFlag{Name: "format", Value: storage.FormatJSON, Usage: "json or yaml"},
	}
}

// AnalyzeAction reads an extracted recipe, or any document with
// ingredients and instructions lists, and prints its analysis.
func AnalyzeAction(c *cli.Context) error {
	logger := common.NewLogger(os.Stderr, c.Bool("quiet"), c.Bool("verbose"))

	path := c.String("input")
	req, err := LoadRequest(path)
	if err != nil {
		logger.Error("failed to load input", "path", path, "error", err)
		return cli.Exit("", 2)
	}

	a := &analytics.Analytics{}
	analysis := a.Analyze(req)
	logger.Debug("Analyzed recipe", "path", path, "complexity", analysis.EstimatedComplexity)

	data, err := storage.Encode(analysis, c.String("format"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 2)
	}
	fmt.Fprintln(c.App.Writer, string(data))
	return nil
}

// LoadRequest decodes path by extension. Recipe records decode directly
// since they share the ingredients and instructions keys.
func LoadRequest(path string) (analytics.Request, error) {
	var req analytics.Request
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return req, fmt.Errorf("failed to read input: %w", err)
	}
	if err := storage.Decode(data, filepath.Ext(path), &req); err != nil {
		return req, err
	}
	return req, nil
}
