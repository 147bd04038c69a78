// Package charset turns raw subtitle bytes into UTF-8 text and back.
//
// Decoding resolves an encoding label (declared by the caller or guessed by a
// Detector), recognizes Unicode byte-order marks, and maps the legacy Western
// labels (unknown, Windows-1252, ISO-8859-1/15) onto the Windows-1252 table so
// the 0x80-0x9F "smart punctuation" bytes come out as the characters authors
// intended. Encoding reverses the process for saving, re-adding a BOM when the
// source carried one.
//
// Detectors are pluggable: FileCommand asks file(1), Heuristic runs an
// in-process statistical guesser, and Chain tries several in order.
package charset
