// Package store persists books, chapters and glossary entries in SQLite.
// It is the relational backend behind the translation and glossary
// pipelines, which only depend on the narrow interfaces they declare.
package store
