package importer

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encoding represents a text encoding
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1254 Encoding = "windows-1254"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectEncoding treats valid UTF-8 (with or without BOM) as UTF-8 and anything else as
// Windows-1254, the code page Excel uses for Turkish CSV exports.
func DetectEncoding(data []byte) Encoding {
	if bytes.HasPrefix(data, utf8BOM) || utf8.Valid(data) {
		return EncodingUTF8
	}
	return EncodingWindows1254
}

// Decode converts data to a UTF-8 string, dropping a UTF-8 BOM
func Decode(data []byte, enc Encoding) (string, error) {
	switch enc {
	case EncodingWindows1254:
		out, err := charmap.Windows1254.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("decode windows-1254: %w", err)
		}
		return string(out), nil
	default:
		return string(bytes.TrimPrefix(data, utf8BOM)), nil
	}
}
