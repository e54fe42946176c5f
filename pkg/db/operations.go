package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dtnitsch/recipe-extractor/models"
)

// RecipeSummary is one row of the extraction history.
type RecipeSummary struct {
	RecipeID         int64
	SourceURL        string
	Title            string
	IngredientCount  int
	InstructionCount int
	ExtractedAt      time.Time
	UpdatedAt        time.Time
}

// AttemptStats counts extraction attempts for one URL.
type AttemptStats struct {
	Total     int
	Succeeded int
	Failed    int
}

// SaveRecipe stores r, replacing any earlier record for the same source URL,
// and returns its recipe_id.
func (db *DB) SaveRecipe(r *models.Recipe) (int64, error) {
	if r == nil || r.SourceURL == "" {
		return 0, fmt.Errorf("failed to save recipe: source url is required")
	}

	times, err := json.Marshal(r.Times)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal times: %w", err)
	}
	nutrition, err := json.Marshal(r.Nutrition)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal nutrition: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
		INSERT INTO recipes (source_url, domain, schema_version, title, description,
			recipe_yield, author, times, nutrition, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_url) DO UPDATE SET
			schema_version = excluded.schema_version,
			title = excluded.title,
			description = excluded.description,
			recipe_yield = excluded.recipe_yield,
			author = excluded.author,
			times = excluded.times,
			nutrition = excluded.nutrition,
			extracted_at = excluded.extracted_at,
			updated_at = CURRENT_TIMESTAMP
	`, r.SourceURL, domainOf(r.SourceURL), r.SchemaVersion, r.Title,
		NewNullString(r.Description), NewNullString(r.RecipeYield), NewNullString(r.Author),
		string(times), string(nutrition), r.ExtractedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("failed to upsert recipe: %w", err)
	}

	var recipeID int64
	if err := tx.QueryRow("SELECT recipe_id FROM recipes WHERE source_url = ?", r.SourceURL).Scan(&recipeID); err != nil {
		return 0, fmt.Errorf("failed to get recipe ID: %w", err)
	}

	for _, table := range []string{"recipe_ingredients", "recipe_instructions", "recipe_tags", "article_sections"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE recipe_id = ?", recipeID); err != nil {
			return 0, fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := insertLines(tx, "INSERT INTO recipe_ingredients (recipe_id, position, text) VALUES (?, ?, ?)", recipeID, r.Ingredients); err != nil {
		return 0, fmt.Errorf("failed to insert ingredients: %w", err)
	}
	if err := insertLines(tx, "INSERT INTO recipe_instructions (recipe_id, position, text) VALUES (?, ?, ?)", recipeID, r.Instructions); err != nil {
		return 0, fmt.Errorf("failed to insert instructions: %w", err)
	}
	if err := insertLines(tx, "INSERT INTO recipe_tags (recipe_id, position, tag) VALUES (?, ?, ?)", recipeID, r.Tags); err != nil {
		return 0, fmt.Errorf("failed to insert tags: %w", err)
	}

	for i, section := range r.ArticleSections {
		paragraphs, err := json.Marshal(section.Paragraphs)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal paragraphs: %w", err)
		}
		var heading sql.NullString
		if section.Heading != nil {
			heading = sql.NullString{String: *section.Heading, Valid: true}
		}
		if _, err := tx.Exec(`
			INSERT INTO article_sections (recipe_id, position, heading, paragraphs)
			VALUES (?, ?, ?, ?)
		`, recipeID, i, heading, string(paragraphs)); err != nil {
			return 0, fmt.Errorf("failed to insert article section: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit recipe: %w", err)
	}
	return recipeID, nil
}

func insertLines(tx *sql.Tx, query string, recipeID int64, lines []string) error {
	for i, line := range lines {
		if _, err := tx.Exec(query, recipeID, i, line); err != nil {
			return err
		}
	}
	return nil
}

// GetRecipe loads a stored recipe by id. It returns ErrNotFound when the id
// does not exist.
func (db *DB) GetRecipe(recipeID int64) (*models.Recipe, error) {
	return db.getRecipe("recipe_id = ?", recipeID)
}

// GetRecipeByURL loads the stored recipe for sourceURL.
func (db *DB) GetRecipeByURL(sourceURL string) (*models.Recipe, error) {
	return db.getRecipe("source_url = ?", sourceURL)
}

func (db *DB) getRecipe(where string, arg any) (*models.Recipe, error) {
	var (
		recipeID                      int64
		r                             models.Recipe
		description, yield, author    sql.NullString
		times, nutrition, extractedAt string
	)
	err := db.QueryRow(`
		SELECT recipe_id, source_url, schema_version, title, description, recipe_yield,
			author, times, nutrition, extracted_at
		FROM recipes WHERE `+where, arg).Scan(
		&recipeID, &r.SourceURL, &r.SchemaVersion, &r.Title, &description, &yield,
		&author, &times, &nutrition, &extractedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	r.Description = description.String
	r.RecipeYield = yield.String
	r.Author = author.String

	if r.ExtractedAt, err = time.Parse(time.RFC3339Nano, extractedAt); err != nil {
		return nil, fmt.Errorf("failed to parse extracted_at: %w", err)
	}
	if err := json.Unmarshal([]byte(times), &r.Times); err != nil {
		return nil, fmt.Errorf("failed to unmarshal times: %w", err)
	}
	if err := json.Unmarshal([]byte(nutrition), &r.Nutrition); err != nil {
		return nil, fmt.Errorf("failed to unmarshal nutrition: %w", err)
	}

	if r.Ingredients, err = db.lines("SELECT text FROM recipe_ingredients WHERE recipe_id = ? ORDER BY position", recipeID); err != nil {
		return nil, fmt.Errorf("failed to get ingredients: %w", err)
	}
	if r.Instructions, err = db.lines("SELECT text FROM recipe_instructions WHERE recipe_id = ? ORDER BY position", recipeID); err != nil {
		return nil, fmt.Errorf("failed to get instructions: %w", err)
	}
	if r.Tags, err = db.lines("SELECT tag FROM recipe_tags WHERE recipe_id = ? ORDER BY position", recipeID); err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}
	if r.ArticleSections, err = db.sections(recipeID); err != nil {
		return nil, fmt.Errorf("failed to get article sections: %w", err)
	}

	return &r, nil
}

func (db *DB) lines(query string, recipeID int64) ([]string, error) {
	rows, err := db.Query(query, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (db *DB) sections(recipeID int64) ([]models.ArticleSection, error) {
	rows, err := db.Query(`
		SELECT heading, paragraphs FROM article_sections
		WHERE recipe_id = ? ORDER BY position
	`, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ArticleSection{}
	for rows.Next() {
		var heading sql.NullString
		var paragraphs string
		if err := rows.Scan(&heading, &paragraphs); err != nil {
			return nil, err
		}
		section := models.ArticleSection{}
		if heading.Valid {
			h := heading.String
			section.Heading = &h
		}
		if err := json.Unmarshal([]byte(paragraphs), &section.Paragraphs); err != nil {
			return nil, err
		}
		out = append(out, section)
	}
	return out, rows.Err()
}

// ListRecipes returns the most recently updated recipes first.
func (db *DB) ListRecipes(limit int) ([]RecipeSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`
		SELECT r.recipe_id, r.source_url, r.title, r.extracted_at, r.updated_at,
			(SELECT COUNT(*) FROM recipe_ingredients i WHERE i.recipe_id = r.recipe_id),
			(SELECT COUNT(*) FROM recipe_instructions s WHERE s.recipe_id = r.recipe_id)
		FROM recipes r
		ORDER BY r.updated_at DESC, r.recipe_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var summaries []RecipeSummary
	for rows.Next() {
		var s RecipeSummary
		var extractedAt string
		if err := rows.Scan(&s.RecipeID, &s.SourceURL, &s.Title, &extractedAt, &s.UpdatedAt,
			&s.IngredientCount, &s.InstructionCount); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		if s.ExtractedAt, err = time.Parse(time.RFC3339Nano, extractedAt); err != nil {
			return nil, fmt.Errorf("failed to parse extracted_at: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// RecordAttempt records one extraction attempt for sourceURL. errorType and
// errMessage are empty on success.
func (db *DB) RecordAttempt(sourceURL string, success bool, errorType, errMessage string) error {
	_, err := db.Exec(`
		INSERT INTO extraction_attempts (source_url, success, error_type, error_message)
		VALUES (?, ?, ?, ?)
	`, sourceURL, success, NewNullString(errorType), NewNullString(errMessage))
	if err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}
	return nil
}

// CountAttempts summarizes the attempts recorded for sourceURL.
func (db *DB) CountAttempts(sourceURL string) (AttemptStats, error) {
	var stats AttemptStats
	err := db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN success THEN 1 ELSE 0 END), 0)
		FROM extraction_attempts WHERE source_url = ?
	`, sourceURL).Scan(&stats.Total, &stats.Succeeded)
	if err != nil {
		return stats, fmt.Errorf("failed to count attempts: %w", err)
	}
	stats.Failed = stats.Total - stats.Succeeded
	return stats, nil
}

func domainOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}

// NewNullString creates a sql.NullString from a string value.
func NewNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
