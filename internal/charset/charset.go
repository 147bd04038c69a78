package charset

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

// DefaultEncoding is the working encoding for unknown and Western legacy labels.
const DefaultEncoding = "Windows-1252"

// UTF8 is the canonical in-memory encoding.
const UTF8 = "UTF-8"

var (
	// ErrEncodingUndetectable indicates no detector produced a usable label.
	ErrEncodingUndetectable = errors.New("unable to detect file encoding")
	// ErrUnsupportedEncoding indicates a label that maps to no known charset.
	ErrUnsupportedEncoding = errors.New("unsupported encoding")
)

var legacyLabels = map[string]struct{}{
	"windows-1252": {},
	"cp1252":       {},
	"x-cp1252":     {},
	"iso-8859-1":   {},
	"iso8859-1":    {},
	"iso_8859-1":   {},
	"latin1":       {},
	"l1":           {},
	"iso-8859-15":  {},
	"iso8859-15":   {},
	"iso_8859-15":  {},
	"latin9":       {},
	"latin-9":      {},
}

// Decoded is UTF-8 text plus what was learned about its source bytes.
type Decoded struct {
	Text     string
	Encoding string
	HasBOM   bool
}

// IsLegacy reports whether label is handled through the Windows-1252 table.
func IsLegacy(label string) bool {
	name := normalizeLabel(label)
	if strings.HasPrefix(name, "unknown") {
		return true
	}
	_, ok := legacyLabels[name]
	return ok
}

// Decode converts raw into UTF-8 according to label.
func Decode(raw []byte, label string) (Decoded, error) {
	name := normalizeLabel(label)
	if name == "" {
		return Decoded{}, ErrEncodingUndetectable
	}
	if IsLegacy(name) {
		return Decoded{Text: decodeWindows1252(raw), Encoding: DefaultEncoding}, nil
	}

	out := Decoded{}
	payload := raw
	var bom BOM
	if strings.HasPrefix(name, "utf") {
		if detected, ok := DetectBOM(raw); ok {
			bom = detected
			out.HasBOM = true
			payload = raw[len(detected.Signature):]
		}
	}

	// A BOM under a UTF label is authoritative about the exact family member.
	if out.HasBOM {
		name = strings.ToLower(bom.Encoding)
	}
	enc, canonical, err := resolve(name, bom)
	if err != nil {
		return Decoded{}, err
	}
	text, err := decodeWith(enc, payload)
	if err != nil {
		return Decoded{}, err
	}
	out.Text = text
	out.Encoding = canonical
	return out, nil
}

// Encode converts UTF-8 text into the named encoding. When hasBOM is set and
// the encoding is a UTF family member, its byte-order mark is prepended unless
// the output already starts with it.
func Encode(text, encodingName string, hasBOM bool) ([]byte, error) {
	name := normalizeLabel(encodingName)
	var (
		out       []byte
		canonical string
	)
	switch {
	case name == "" || name == "utf-8" || name == "utf8":
		out = []byte(text)
		canonical = UTF8
	case IsLegacy(name):
		out = encodeWindows1252(text)
		canonical = DefaultEncoding
	default:
		enc, resolved, err := resolve(name, BOM{})
		if err != nil {
			return nil, err
		}
		encoded, err := encodeWith(enc, text)
		if err != nil {
			return nil, err
		}
		out = encoded
		canonical = resolved
	}

	if hasBOM {
		if bom, ok := BOMFor(canonical); ok && !bytes.HasPrefix(out, bom.Signature) {
			out = append(append(make([]byte, 0, len(bom.Signature)+len(out)), bom.Signature...), out...)
		}
	}
	return out, nil
}

// Canonical returns the canonical name for label without decoding anything.
func Canonical(label string) (string, error) {
	name := normalizeLabel(label)
	if IsLegacy(name) {
		return DefaultEncoding, nil
	}
	_, canonical, err := resolve(name, BOM{})
	return canonical, err
}

// resolve maps a normalized label to an encoding and its canonical name. The
// BOM settles endianness for the bare utf-16/utf-32 labels.
func resolve(name string, bom BOM) (encoding.Encoding, string, error) {
	switch name {
	case "utf-8", "utf8":
		return unicode.UTF8, UTF8, nil
	case "utf-16le", "utf16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), "UTF-16LE", nil
	case "utf-16be", "utf16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), "UTF-16BE", nil
	case "utf-16", "utf16":
		if bom.Encoding == bomUTF16LE.Encoding {
			return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), "UTF-16LE", nil
		}
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), "UTF-16BE", nil
	case "utf-32le", "utf32le":
		return utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM), "UTF-32LE", nil
	case "utf-32be", "utf32be":
		return utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM), "UTF-32BE", nil
	case "utf-32", "utf32":
		if bom.Encoding == bomUTF32LE.Encoding {
			return utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM), "UTF-32LE", nil
		}
		return utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM), "UTF-32BE", nil
	}

	if enc, err := htmlindex.Get(name); err == nil {
		canonical, nameErr := htmlindex.Name(enc)
		if nameErr != nil {
			canonical = name
		}
		return enc, canonical, nil
	}
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		canonical, nameErr := ianaindex.IANA.Name(enc)
		if nameErr != nil {
			canonical = name
		}
		return enc, canonical, nil
	}
	return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedEncoding, name)
}

func decodeWith(enc encoding.Encoding, raw []byte) (string, error) {
	decoded, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	return string(decoded), nil
}

func encodeWith(enc encoding.Encoding, text string) ([]byte, error) {
	encoder := encoding.ReplaceUnsupported(enc.NewEncoder())
	encoded, err := encoder.Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return encoded, nil
}

// decodeWindows1252 keeps the five bytes the code page leaves undefined
// (0x81, 0x8D, 0x8F, 0x90, 0x9D) as their Latin-1 code points.
func decodeWindows1252(raw []byte) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, c := range raw {
		r := charmap.Windows1252.DecodeByte(c)
		if r == utf8.RuneError {
			r = rune(c)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// encodeWindows1252 substitutes '?' for runes outside the code page. C1
// controls left over from decoding go back to their original byte.
func encodeWindows1252(text string) []byte {
	out := make([]byte, 0, len(text))
	for _, r := range text {
		if b, ok := charmap.Windows1252.EncodeRune(r); ok {
			out = append(out, b)
			continue
		}
		if r >= 0x80 && r <= 0x9F {
			out = append(out, byte(r))
			continue
		}
		out = append(out, '?')
	}
	return out
}

func normalizeLabel(label string) string {
	label = strings.TrimSpace(label)
	label = strings.Trim(label, `"'`)
	return strings.ToLower(strings.TrimSpace(label))
}
