package charset

import (
	"bytes"

	"github.com/dimchansky/utfbom"
)

// BOM is a Unicode byte-order mark and the encoding it announces.
type BOM struct {
	Encoding  string
	Signature []byte
}

var (
	bomUTF8    = BOM{Encoding: "UTF-8", Signature: []byte{0xEF, 0xBB, 0xBF}}
	bomUTF16BE = BOM{Encoding: "UTF-16BE", Signature: []byte{0xFE, 0xFF}}
	bomUTF16LE = BOM{Encoding: "UTF-16LE", Signature: []byte{0xFF, 0xFE}}
	bomUTF32BE = BOM{Encoding: "UTF-32BE", Signature: []byte{0x00, 0x00, 0xFE, 0xFF}}
	bomUTF32LE = BOM{Encoding: "UTF-32LE", Signature: []byte{0xFF, 0xFE, 0x00, 0x00}}
)

var bomsByDetection = map[utfbom.Encoding]BOM{
	utfbom.UTF8:              bomUTF8,
	utfbom.UTF16BigEndian:    bomUTF16BE,
	utfbom.UTF16LittleEndian: bomUTF16LE,
	utfbom.UTF32BigEndian:    bomUTF32BE,
	utfbom.UTF32LittleEndian: bomUTF32LE,
}

var bomsByName = map[string]BOM{
	bomUTF8.Encoding:    bomUTF8,
	bomUTF16BE.Encoding: bomUTF16BE,
	bomUTF16LE.Encoding: bomUTF16LE,
	bomUTF32BE.Encoding: bomUTF32BE,
	bomUTF32LE.Encoding: bomUTF32LE,
}

// DetectBOM reports the byte-order mark at the start of raw, if any.
// Four-byte UTF-32 signatures win over the UTF-16 marks sharing their prefix.
func DetectBOM(raw []byte) (BOM, bool) {
	if len(raw) < 2 {
		return BOM{}, false
	}
	_, enc := utfbom.Skip(bytes.NewReader(raw))
	bom, ok := bomsByDetection[enc]
	return bom, ok
}

// BOMFor returns the byte-order mark for a canonical UTF encoding name.
func BOMFor(encoding string) (BOM, bool) {
	bom, ok := bomsByName[encoding]
	return bom, ok
}
