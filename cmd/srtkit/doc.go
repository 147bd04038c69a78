// Package main hosts the srtkit CLI entrypoint and command graph.
//
// Each command loads one or more SubRip/WebVTT files through the subtitles
// package, applies a single operation (search, sort, frame-rate change,
// merge, strip, clean, statistics), and either prints a report or writes the
// document back. Configuration resolution and logger setup live in
// commandContext so commands stay declarative.
package main
