package store

var schema = []string{
	`CREATE TABLE IF NOT EXISTS books (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL,
		author     TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS chapters (
		id         TEXT PRIMARY KEY,
		book_id    TEXT NOT NULL REFERENCES books(id),
		ord        INTEGER NOT NULL,
		title      TEXT NOT NULL,
		summary    TEXT NOT NULL DEFAULT '',
		paragraphs TEXT NOT NULL,
		status     TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		UNIQUE (book_id, ord)
	)`,
	`CREATE INDEX IF NOT EXISTS ix_chapters_book_id ON chapters (book_id)`,
	`CREATE TABLE IF NOT EXISTS glossaries (
		id               TEXT PRIMARY KEY,
		raw              TEXT NOT NULL,
		translated       TEXT NOT NULL,
		type             TEXT NOT NULL,
		book_id          TEXT REFERENCES books(id),
		first_chapter_id TEXT REFERENCES chapters(id),
		UNIQUE (raw, type, book_id)
	)`,
	`CREATE INDEX IF NOT EXISTS ix_glossaries_raw ON glossaries (raw)`,
	`CREATE INDEX IF NOT EXISTS ix_glossaries_type ON glossaries (type)`,
	`CREATE INDEX IF NOT EXISTS ix_glossaries_book_id ON glossaries (book_id)`,
}
