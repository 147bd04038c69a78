// Package timecode converts between textual subtitle timecodes
// (HH:MM:SS,mmm or HH:MM:SS.mmm) and integer millisecond offsets.
//
// Formatting wraps the hour field at 24 and derives the millisecond field by
// rounding the fractional second, so a caller holding very long offsets gets
// the same text the SubRip tooling ecosystem has always produced.
package timecode
