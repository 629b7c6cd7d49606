package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// Status is the translation state of a chapter.
type Status string

const (
	StatusPending    Status = "pending"
	StatusTranslated Status = "translated"
)

// Book is a translated novel.
type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// Paragraph pairs a source chunk with its translation.
type Paragraph struct {
	Raw        string `json:"raw"`
	Translated string `json:"translated"`
}

// Chapter is one chapter of a book. Order is unique within the book.
type Chapter struct {
	ID         string      `json:"id"`
	BookID     string      `json:"book_id"`
	Order      int         `json:"order"`
	Title      string      `json:"title"`
	Summary    string      `json:"summary"`
	Paragraphs []Paragraph `json:"paragraphs"`
	Status     Status      `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// GlossaryEntry maps a source term to its agreed translation. An empty
// BookID means the entry is not scoped to a book.
type GlossaryEntry struct {
	ID             string `json:"id"`
	Raw            string `json:"raw"`
	Translated     string `json:"translated"`
	Type           string `json:"type"`
	BookID         string `json:"book_id,omitempty"`
	FirstChapterID string `json:"first_chapter_id,omitempty"`
}
