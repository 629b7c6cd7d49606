// Package extract recovers structured JSON from free-form model output.
// Responses often wrap the JSON in prose, code fences or trailing commas;
// the extractor locates the first balanced object or array, repairs the
// common artifacts and decodes it, degrading to an empty payload instead of
// failing the caller.
package extract
