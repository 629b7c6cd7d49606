// Package glossary extracts proper nouns and cultivation terms from chapter
// text with the model and keeps one agreed translation per term and book.
package glossary
