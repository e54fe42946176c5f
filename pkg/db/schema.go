package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Recipes: one row per source URL, replaced on re-extraction
CREATE TABLE IF NOT EXISTS recipes (
    recipe_id INTEGER PRIMARY KEY AUTOINCREMENT,
    source_url TEXT NOT NULL UNIQUE,
    domain TEXT NOT NULL,
    schema_version TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    description TEXT,
    recipe_yield TEXT,
    author TEXT,
    times TEXT,        -- JSON object: {"prep": {"minutes": 10, "display": "10 min"}}
    nutrition TEXT,    -- JSON object of scalars
    extracted_at TEXT NOT NULL, -- RFC 3339, UTC
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_recipes_domain ON recipes(domain);
CREATE INDEX IF NOT EXISTS idx_recipes_updated ON recipes(updated_at DESC);

CREATE TABLE IF NOT EXISTS recipe_ingredients (
    recipe_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    text TEXT NOT NULL,
    FOREIGN KEY (recipe_id) REFERENCES recipes(recipe_id) ON DELETE CASCADE,
    PRIMARY KEY (recipe_id, position)
);

CREATE TABLE IF NOT EXISTS recipe_instructions (
    recipe_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    text TEXT NOT NULL,
    FOREIGN KEY (recipe_id) REFERENCES recipes(recipe_id) ON DELETE CASCADE,
    PRIMARY KEY (recipe_id, position)
);

CREATE TABLE IF NOT EXISTS recipe_tags (
    recipe_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    tag TEXT NOT NULL,
    FOREIGN KEY (recipe_id) REFERENCES recipes(recipe_id) ON DELETE CASCADE,
    PRIMARY KEY (recipe_id, position)
);

CREATE INDEX IF NOT EXISTS idx_tags_tag ON recipe_tags(tag);

-- Article sections: heading is NULL for text before the first heading
CREATE TABLE IF NOT EXISTS article_sections (
    recipe_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    heading TEXT,
    paragraphs TEXT NOT NULL, -- JSON array of strings
    FOREIGN KEY (recipe_id) REFERENCES recipes(recipe_id) ON DELETE CASCADE,
    PRIMARY KEY (recipe_id, position)
);

-- Extraction attempts: every fetch+parse tracked, successful or not
CREATE TABLE IF NOT EXISTS extraction_attempts (
    attempt_id INTEGER PRIMARY KEY AUTOINCREMENT,
    source_url TEXT NOT NULL,
    attempted_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    success BOOLEAN NOT NULL,
    error_type TEXT,
    error_message TEXT
);

CREATE INDEX IF NOT EXISTS idx_attempts_url ON extraction_attempts(source_url);
CREATE INDEX IF NOT EXISTS idx_attempts_success ON extraction_attempts(success);
`
