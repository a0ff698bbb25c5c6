package db

const migrationsSQL = `
CREATE TABLE IF NOT EXISTS renders (
	id TEXT PRIMARY KEY,
	title TEXT,
	source TEXT,
	svg TEXT NOT NULL,
	line_count INTEGER NOT NULL DEFAULT 0,
	word_count INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS words (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	word TEXT NOT NULL UNIQUE,
	pronunciation TEXT
);

CREATE TABLE IF NOT EXISTS render_words (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	render_id TEXT NOT NULL REFERENCES renders(id) ON DELETE CASCADE,
	word_id INTEGER NOT NULL REFERENCES words(id),
	occurrence_count INTEGER NOT NULL DEFAULT 0,
	UNIQUE(render_id, word_id)
);

CREATE INDEX IF NOT EXISTS idx_render_words_word ON render_words(word_id);
`
