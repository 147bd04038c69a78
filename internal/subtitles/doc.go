// Package subtitles models SubRip and WebVTT-style subtitle documents.
//
// A Document is built from decoded text by a tolerant block grammar, edited
// in place (search, sort, merge, delete, frame-rate retiming), serialized
// back with CRLF line endings and sequential indices, and converted to the
// source byte encoding on save. Each Cue computes its visible text, duration,
// characters per second, and reading speed on demand; ComputeStats classifies
// every cue's reading speed into nine ordered buckets.
package subtitles
