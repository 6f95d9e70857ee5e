// Package zstream turns a raw byte source into a lazy sequence of complete
// text lines, transparently decompressing zstd content. Compression is
// detected by magic bytes, so plain newline-delimited text and .zst archives
// go through the same scanner.
package zstream

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/zstd"

	"github.com/cognicore/dataprep/pkg/prep/internalerr"
)

// DefaultChunkSize is the decompressed chunk size read per pull.
const DefaultChunkSize = 1 << 23

// zstd frame magic, little-endian 0xFD2FB528
var magic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Option configures a Scanner.
type Option func(*Scanner)

// WithChunkSize overrides the decompressed chunk size.
func WithChunkSize(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.chunk = make([]byte, n)
		}
	}
}

// Scanner yields complete, blank-suppressed text lines from a possibly
// compressed source. Consumption drives decompression; a consumer that
// stops pulling triggers no further reads.
type Scanner struct {
	src     io.Reader
	dec     *zstd.Decoder
	chunk   []byte
	carry   []byte
	pending [][]byte
	line    string
	err     error
	eof     bool
}

// NewScanner sniffs the first four bytes of r without consuming the stream
// position and sets up either streaming decompression or plain-text line
// reading. A source whose position cannot be restored is a configuration
// error reported here, never deferred into the line sequence.
func NewScanner(r io.ReadSeeker, opts ...Option) (*Scanner, error) {
	header := make([]byte, 4)
	n, err := io.ReadFull(r, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrNotSeekable, err)
	}

	s := &Scanner{chunk: make([]byte, DefaultChunkSize)}
	for _, opt := range opts {
		opt(s)
	}

	if bytes.Equal(header[:n], magic) {
		dec, err := zstd.NewReader(r, zstd.WithDecoderMaxWindow(1<<31))
		if err != nil {
			return nil, fmt.Errorf("open zstd stream: %w", err)
		}
		s.dec = dec
		s.src = dec
	} else {
		s.src = r
	}

	return s, nil
}

// Scan advances to the next non-blank line. It returns false at end of
// stream or on a stream error; check Err to tell the two apart.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}

	for len(s.pending) == 0 {
		if s.eof {
			return false
		}
		if !s.fill() {
			return false
		}
	}

	s.line = decodeLine(s.pending[0])
	s.pending = s.pending[1:]
	return true
}

// Text returns the line produced by the last successful Scan, trailing
// newline stripped.
func (s *Scanner) Text() string {
	return s.line
}

// Err returns the first stream error encountered, if any.
func (s *Scanner) Err() error {
	return s.err
}

// Close releases decompression resources. The underlying source is not
// closed; the caller owns it.
func (s *Scanner) Close() {
	if s.dec != nil {
		s.dec.Close()
	}
}

// fill reads one chunk and splits it into lines. All fragments but the
// last are complete lines; the last is carried into the next chunk. At end
// of stream a non-empty carry becomes the final line.
func (s *Scanner) fill() bool {
	n, err := s.src.Read(s.chunk)

	if n > 0 {
		data := append(s.carry, s.chunk[:n]...)
		parts := bytes.Split(data, []byte{'\n'})
		for _, p := range parts[:len(parts)-1] {
			if line := bytes.TrimSpace(p); len(line) > 0 {
				s.pending = append(s.pending, append([]byte(nil), line...))
			}
		}
		s.carry = append([]byte(nil), parts[len(parts)-1]...)
	}

	switch err {
	case nil:
	case io.EOF:
		s.eof = true
		if line := bytes.TrimSpace(s.carry); len(line) > 0 {
			s.pending = append(s.pending, append([]byte(nil), line...))
		}
		s.carry = nil
	default:
		s.err = fmt.Errorf("read stream: %w", err)
		return false
	}

	return true
}

// decodeLine converts raw bytes to a string, replacing invalid UTF-8
// sequences instead of failing.
func decodeLine(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return strings.ToValidUTF8(string(b), "�")
}
