package watcher

import (
	"errors"
	"io"
	"os"

	"logwatch/internal/textenc"
)

const readChunkSize = 32 * 1024

// lineReader pulls complete lines from a file starting at a byte offset.
// Bytes of an unterminated trailing line stay buffered and are not counted
// in offset until their newline arrives.
type lineReader struct {
	file    *os.File
	enc     textenc.Encoding
	offset  int64
	pending []byte
	chunk   []byte
}

func newLineReader(file *os.File, enc textenc.Encoding, offset int64) *lineReader {
	return &lineReader{
		file:   file,
		enc:    enc,
		offset: offset,
		chunk:  make([]byte, readChunkSize),
	}
}

// next returns the next complete raw line. ok is false when the file holds no
// complete line past the cursor; truncated reports that the cursor was reset
// because the file shrank.
func (r *lineReader) next() (line []byte, ok bool, truncated bool, err error) {
	for {
		if raw, n, found := r.enc.CutLine(r.pending); found {
			r.pending = r.pending[n:]
			if len(r.pending) == 0 {
				r.pending = nil
			}
			r.offset += int64(n)
			return raw, true, truncated, nil
		}

		readAt := r.offset + int64(len(r.pending))
		n, readErr := r.file.ReadAt(r.chunk, readAt)
		if n > 0 {
			r.pending = append(r.pending, r.chunk[:n]...)
			continue
		}
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, false, truncated, readErr
		}

		info, statErr := r.file.Stat()
		if statErr != nil {
			return nil, false, truncated, statErr
		}
		if info.Size() < readAt && !truncated {
			r.offset = 0
			r.pending = nil
			truncated = true
			continue
		}
		return nil, false, truncated, nil
	}
}
