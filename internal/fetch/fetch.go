// Package fetch reads corpus files from disk;
// handles size limits, cancellation and legacy single-byte encodings.
package fetch

import (
	"context"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// MaxFileSizeBytes is the largest file that will be read (50MB).
const MaxFileSizeBytes = 50 * 1024 * 1024

// limitedReadCloser wraps an io.ReadCloser to enforce size limits
type limitedReadCloser struct {
	io.ReadCloser
	N      int64  // max bytes remaining
	source string // for error messages
}

func (l *limitedReadCloser) Read(p []byte) (n int, err error) {
	if l.N <= 0 {
		return 0, fmt.Errorf("content from %q exceeds size limit", l.source)
	}
	if int64(len(p)) > l.N {
		p = p[0:l.N]
	}
	n, err = l.ReadCloser.Read(p)
	l.N -= int64(n)
	return
}

// GetContent opens a local file for reading.
// The returned reader fails once more than MaxFileSizeBytes have been read, which
// covers files that grow after the size check.
func GetContent(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// check if file exists and get size
	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file %q does not exist", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to access file %q: %w", path, err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%q is a directory", path)
	}

	// check file size before opening to prevent memory overload
	if fileInfo.Size() > MaxFileSizeBytes {
		return nil, fmt.Errorf("file %q is too large (%d bytes > %d bytes limit)",
			path, fileInfo.Size(), MaxFileSizeBytes)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}

	return &limitedReadCloser{
		ReadCloser: file,
		N:          MaxFileSizeBytes + 1,
		source:     path,
	}, nil
}

// ReadText reads the whole file at path and returns it as a UTF-8 string.
// Content that is not valid UTF-8 is decoded as ISO-8859-1, so every byte maps to a rune
// and no file is rejected for its encoding.
func ReadText(ctx context.Context, path string) (string, error) {
	rc, err := GetContent(ctx, path)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("failed to read file %q: %w", path, err)
	}
	if len(data) > MaxFileSizeBytes {
		return "", fmt.Errorf("file %q exceeds %d bytes limit", path, MaxFileSizeBytes)
	}

	return Decode(data), nil
}

// Decode returns data as a string, converting from ISO-8859-1 when it is not valid UTF-8.
func Decode(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	// ISO-8859-1 decoding cannot fail: every byte value is a code point
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}
