// Package prompt builds the system prompts sent to the model for chapter
// translation and glossary extraction.
package prompt
