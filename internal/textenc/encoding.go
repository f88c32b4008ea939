package textenc

import (
	"bytes"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// Encoding identifies how a log file's bytes map to text.
type Encoding int

const (
	UTF8 Encoding = iota
	UTF8BOM
	UTF16LE
	UTF16BE
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

const byteOrderMark = "\ufeff"

func (e Encoding) String() string {
	switch e {
	case UTF8BOM:
		return "utf-8-sig"
	case UTF16LE:
		return "utf-16-le"
	case UTF16BE:
		return "utf-16-be"
	default:
		return "utf-8"
	}
}

// Detect inspects the first bytes of the file at path. Any failure, including
// a missing file, yields UTF8.
func Detect(path string) Encoding {
	file, err := os.Open(path)
	if err != nil {
		return UTF8
	}
	defer file.Close()

	prefix := make([]byte, 4)
	n, err := io.ReadFull(file, prefix)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return UTF8
	}
	return DetectBytes(prefix[:n])
}

// DetectBytes applies the byte-order-mark rules to a file prefix.
func DetectBytes(prefix []byte) Encoding {
	switch {
	case bytes.HasPrefix(prefix, bomUTF16LE):
		return UTF16LE
	case bytes.HasPrefix(prefix, bomUTF16BE):
		return UTF16BE
	case bytes.HasPrefix(prefix, bomUTF8):
		return UTF8BOM
	default:
		return UTF8
	}
}

// CutLine returns the first complete line in buf including its terminator,
// and the number of bytes it occupies. ok is false when buf holds no LF; a
// lone CR is not a terminator.
func (e Encoding) CutLine(buf []byte) (line []byte, n int, ok bool) {
	switch e {
	case UTF16LE, UTF16BE:
		for i := 0; i+1 < len(buf); i += 2 {
			var unit uint16
			if e == UTF16LE {
				unit = uint16(buf[i]) | uint16(buf[i+1])<<8
			} else {
				unit = uint16(buf[i])<<8 | uint16(buf[i+1])
			}
			if unit == '\n' {
				return buf[:i+2], i + 2, true
			}
		}
		return nil, 0, false
	default:
		idx := bytes.IndexByte(buf, '\n')
		if idx < 0 {
			return nil, 0, false
		}
		return buf[:idx+1], idx + 1, true
	}
}

// Decode converts raw bytes in this encoding to a string. Invalid sequences
// are replaced with U+FFFD.
func (e Encoding) Decode(raw []byte) string {
	out, err := e.decoder().Bytes(raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
	}
	return string(out)
}

// NewReader wraps r so that reads yield UTF-8 text.
func (e Encoding) NewReader(r io.Reader) io.Reader {
	return e.decoder().Reader(r)
}

func (e Encoding) decoder() *encoding.Decoder {
	switch e {
	case UTF8BOM:
		return unicode.UTF8BOM.NewDecoder()
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	default:
		return unicode.UTF8.NewDecoder()
	}
}

// CleanLine strips byte-order-mark artifacts and surrounding whitespace,
// including the line terminator.
func CleanLine(s string) string {
	return strings.TrimSpace(strings.Trim(s, byteOrderMark))
}
