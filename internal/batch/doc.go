// Package batch reads batch files listing chapter files to translate in one
// run.
package batch
