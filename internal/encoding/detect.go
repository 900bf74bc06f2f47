// Package encoding normalizes uploaded bank statements to UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	textenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charset names the encoding a statement was decoded from.
type Charset string

const (
	CharsetUTF8        Charset = "UTF-8"
	CharsetUTF8BOM     Charset = "UTF-8 (BOM)"
	CharsetUTF16LE     Charset = "UTF-16LE"
	CharsetUTF16BE     Charset = "UTF-16BE"
	CharsetWindows1252 Charset = "windows-1252"
	CharsetISO88599    Charset = "ISO-8859-9"
)

const sniffSize = 4096

var boms = []struct {
	prefix  []byte
	charset Charset
}{
	{[]byte{0xEF, 0xBB, 0xBF}, CharsetUTF8BOM},
	{[]byte{0xFF, 0xFE}, CharsetUTF16LE},
	{[]byte{0xFE, 0xFF}, CharsetUTF16BE},
}

// chardetCharsets maps chardet results to the decoders we support.
var chardetCharsets = map[string]Charset{
	"UTF-8":        CharsetUTF8,
	"ISO-8859-1":   CharsetWindows1252,
	"windows-1252": CharsetWindows1252,
	"ISO-8859-9":   CharsetISO88599,
}

// Detect guesses the charset of a sample taken from the start of a file:
// byte order mark first, then UTF-8 validity, then chardet, then Windows-1252.
func Detect(sample []byte) Charset {
	for _, b := range boms {
		if bytes.HasPrefix(sample, b.prefix) {
			return b.charset
		}
	}

	if utf8.Valid(trimPartialRune(sample)) {
		return CharsetUTF8
	}

	if result, err := chardet.NewTextDetector().DetectBest(sample); err == nil {
		if cs, ok := chardetCharsets[result.Charset]; ok {
			return cs
		}
	}

	return CharsetWindows1252
}

// NewUTF8Reader returns a reader that yields r's content as UTF-8, along with the detected charset.
func NewUTF8Reader(r io.Reader) (io.Reader, Charset, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	sample, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	charset := Detect(sample)

	var decoder *textenc.Decoder

	switch charset {
	case CharsetUTF8:
		return br, charset, nil
	case CharsetUTF8BOM:
		_, _ = br.Discard(3)
		return br, charset, nil
	case CharsetUTF16LE:
		decoder = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case CharsetUTF16BE:
		decoder = unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	case CharsetISO88599:
		decoder = charmap.ISO8859_9.NewDecoder()
	default:
		decoder = charmap.Windows1252.NewDecoder()
	}

	return transform.NewReader(br, decoder), charset, nil
}

// trimPartialRune drops a multi-byte sequence cut off at the end of the sample.
func trimPartialRune(b []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		c := b[len(b)-i]
		if c < utf8.RuneSelf {
			return b
		}

		if utf8.RuneStart(c) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return b[:len(b)-i]
			}

			return b
		}
	}

	return b
}
