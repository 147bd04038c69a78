package subtitles

import (
	"errors"
	"fmt"

	"srtkit/internal/charset"
	"srtkit/internal/fileutil"
)

var (
	ErrSourceNotFound       = fileutil.ErrNotFound
	ErrUnreadableSource     = fileutil.ErrUnreadable
	ErrEncodingUndetectable = charset.ErrEncodingUndetectable
	ErrUnsupportedEncoding  = charset.ErrUnsupportedEncoding
	ErrInvalidFormat        = errors.New("not a valid subtitle file")
	ErrWriteFailure         = fileutil.ErrWriteFailed
	ErrEmptyDocument        = errors.New("document has no cues")
	ErrNoMatches            = errors.New("no matching cues")
	ErrCueIndex             = errors.New("cue index out of range")
	ErrInvalidArgument      = errors.New("invalid argument")
)

// Error kinds reported by ErrorKind.
const (
	KindNotFound      = "not_found"
	KindUnreadable    = "unreadable"
	KindEncoding      = "encoding"
	KindInvalidFormat = "invalid_format"
	KindWrite         = "write"
	KindEmpty         = "empty"
	KindNoMatches     = "no_matches"
	KindIndex         = "index"
	KindValidation    = "validation"
)

// ErrorClassifier allows errors to declare a stable classification that
// callers can map to exit codes or messages.
type ErrorClassifier interface {
	ErrorKind() string
}

// OpError ties a failure to the operation and source that produced it.
type OpError struct {
	Op     string
	Source string
	Err    error
}

func (e *OpError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Source, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// ErrorKind classifies the wrapped error.
func (e *OpError) ErrorKind() string { return KindOf(e.Err) }

// KindOf returns the classification of err, or "" when err is not one of the
// package sentinels.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSourceNotFound):
		return KindNotFound
	case errors.Is(err, ErrUnreadableSource):
		return KindUnreadable
	case errors.Is(err, ErrEncodingUndetectable), errors.Is(err, ErrUnsupportedEncoding):
		return KindEncoding
	case errors.Is(err, ErrInvalidFormat):
		return KindInvalidFormat
	case errors.Is(err, ErrWriteFailure):
		return KindWrite
	case errors.Is(err, ErrEmptyDocument):
		return KindEmpty
	case errors.Is(err, ErrNoMatches):
		return KindNoMatches
	case errors.Is(err, ErrCueIndex):
		return KindIndex
	case errors.Is(err, ErrInvalidArgument):
		return KindValidation
	}
	var classifier ErrorClassifier
	if errors.As(err, &classifier) {
		return classifier.ErrorKind()
	}
	return ""
}

func wrap(op, source string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Source: source, Err: err}
}
