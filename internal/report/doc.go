// Package report renders reading-speed statistics as XML, an HTML list, or a
// terminal table. It only formats counts produced by the subtitles package.
package report
