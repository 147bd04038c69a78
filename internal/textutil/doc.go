// Package textutil provides the text transforms subtitle cues are measured
// and rendered with.
//
// The primary use cases are:
//   - Removing {...} style override blocks left by ASS/SSA tooling
//   - Stripping HTML-like basic markup (<i>, <b>, <u>, <font ...>)
//   - Collapsing line breaks of any convention into single spaces
//   - Applying ordered literal replacements
//   - Sanitizing filenames derived from subtitle sources
//
// Markup stripping follows tag-removal semantics rather than HTML rendering:
// text content, including character references, is kept byte-for-byte.
package textutil
