// Package archive moves a previous export out of the way before a new one is
// written, keeping it under a timestamped name.
package archive
