// FILE: evewatch/src/internal/source/reader.go
package source

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression modes for eve sources
const (
	CompressionAuto = "auto"
	CompressionNone = "none"
	CompressionGzip = "gzip"
	CompressionZstd = "zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// readCloser pairs a decompressing reader with the closers beneath it
type readCloser struct {
	io.Reader
	closers []func() error
}

func (rc *readCloser) Close() error {
	var firstErr error
	for _, c := range rc.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// OpenSource opens an eve file and wraps it with the decompressor matching mode.
// In auto mode the extension decides, falling back to magic bytes.
func OpenSource(path, mode string) (io.ReadCloser, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}

	rc, detected, err := wrapReader(f, path, mode)
	if err != nil {
		f.Close()
		return nil, "", err
	}
	rc.closers = append(rc.closers, f.Close)
	return rc, detected, nil
}

func wrapReader(r io.Reader, path, mode string) (*readCloser, string, error) {
	br := bufio.NewReaderSize(r, 64*1024)

	if mode == "" || mode == CompressionAuto {
		mode = detectCompression(br, path)
	}

	switch mode {
	case CompressionNone:
		return &readCloser{Reader: br}, mode, nil

	case CompressionGzip:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return &readCloser{Reader: gz, closers: []func() error{gz.Close}}, mode, nil

	case CompressionZstd:
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open zstd stream: %w", err)
		}
		return &readCloser{Reader: dec, closers: []func() error{
			func() error { dec.Close(); return nil },
		}}, mode, nil

	default:
		return nil, "", fmt.Errorf("unknown compression mode: %s", mode)
	}
}

func detectCompression(br *bufio.Reader, path string) string {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".gz"), strings.HasSuffix(lower, ".gzip"):
		return CompressionGzip
	case strings.HasSuffix(lower, ".zst"), strings.HasSuffix(lower, ".zstd"):
		return CompressionZstd
	}

	head, _ := br.Peek(len(zstdMagic))
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		return CompressionGzip
	case bytes.HasPrefix(head, zstdMagic):
		return CompressionZstd
	}
	return CompressionNone
}

// scanLines calls fn for every non-blank line. Lines longer than maxLen are
// reported with oversized set and a nil line, and reading continues.
func scanLines(r io.Reader, maxLen int, fn func(line []byte, oversized bool)) error {
	br := bufio.NewReaderSize(r, 64*1024)
	buf := make([]byte, 0, 4096)
	oversized := false

	for {
		chunk, err := br.ReadSlice('\n')
		if !oversized {
			if len(buf)+len(chunk) > maxLen+2 {
				oversized = true
				buf = buf[:0]
			} else {
				buf = append(buf, chunk...)
			}
		}

		if err == bufio.ErrBufferFull {
			continue
		}

		if oversized {
			fn(nil, true)
		} else if line := bytes.TrimSpace(buf); len(line) > 0 {
			fn(line, false)
		}
		buf = buf[:0]
		oversized = false

		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
