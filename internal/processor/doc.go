// Package processor contains the command logic of thienthu. It opens the
// store, builds the key pool and model invoker on first use, and runs the
// translation and glossary pipelines for single chapters and batch files.
// It also prints listings and exports books. This package serves as the
// main coordinator between all other components.
package processor
