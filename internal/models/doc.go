// Package models lists the models the configured provider offers to the
// first API key, so a model name for llm.model can be picked.
package models
