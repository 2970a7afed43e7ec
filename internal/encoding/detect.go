// Package encoding turns statement files of unknown charset into UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// sniffSize is how much of the input is inspected to pick a charset.
const sniffSize = 4096

type Charset string

const (
	UTF8        Charset = "UTF-8"
	UTF8BOM     Charset = "UTF-8-BOM"
	UTF16LE     Charset = "UTF-16LE"
	UTF16BE     Charset = "UTF-16BE"
	Windows1252 Charset = "windows-1252"
	ISO88599    Charset = "ISO-8859-9"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Detect guesses the charset of buf: a BOM wins, then valid UTF-8, then
// chardet's best guess. Anything unrecognised is treated as Windows-1252,
// the usual charset of spreadsheet exports.
func Detect(buf []byte) Charset {
	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		return UTF8BOM
	case bytes.HasPrefix(buf, bomUTF16LE):
		return UTF16LE
	case bytes.HasPrefix(buf, bomUTF16BE):
		return UTF16BE
	case utf8.Valid(buf):
		return UTF8
	}

	result, err := chardet.NewTextDetector().DetectBest(buf)
	if err != nil {
		return Windows1252
	}

	switch result.Charset {
	case "UTF-8":
		return UTF8
	case "ISO-8859-9":
		return ISO88599
	default:
		return Windows1252
	}
}

func decoderFor(cs Charset) encoding.Encoding {
	switch cs {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case ISO88599:
		return charmap.ISO8859_9
	case Windows1252:
		return charmap.Windows1252
	default:
		return nil
	}
}

// NewUTF8Reader returns a reader that yields r decoded to UTF-8, with any
// UTF-8 BOM stripped.
func NewUTF8Reader(r io.Reader) (io.Reader, Charset, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	buf, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	cs := Detect(buf)

	if cs == UTF8BOM {
		_, _ = br.Discard(len(bomUTF8))
		return br, cs, nil
	}

	enc := decoderFor(cs)
	if enc == nil {
		return br, cs, nil
	}

	return transform.NewReader(br, enc.NewDecoder()), cs, nil
}
