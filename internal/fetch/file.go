package fetch

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// FileFetcher reads sources addressed as file://<path>.
type FileFetcher struct {
	maxBytes int64
}

// NewFileFetcher creates a FileFetcher. A non-positive maxBytes disables the limit.
func NewFileFetcher(maxBytes int64) *FileFetcher {
	return &FileFetcher{maxBytes: maxBytes}
}

// Fetch strips the file:// prefix and reads the remaining path.
func (f *FileFetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{Kind: KindLocalIO, URL: source, Err: err}
	}
	if Scheme(source) != "file" {
		return nil, &Error{Kind: KindUnsupportedScheme, URL: source}
	}
	path := source[len("file://"):]
	if strings.TrimSpace(path) == "" {
		return nil, &Error{Kind: KindLocalIO, URL: source, Err: fmt.Errorf("empty path")}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &Error{Kind: KindLocalIO, URL: source, Err: err}
	}
	defer func() {
		_ = file.Close()
	}()

	info, err := file.Stat()
	if err != nil {
		return nil, &Error{Kind: KindLocalIO, URL: source, Err: err}
	}
	if info.IsDir() {
		return nil, &Error{Kind: KindLocalIO, URL: source, Err: fmt.Errorf("%s is a directory", path)}
	}

	data, err := readLimited(file, f.maxBytes)
	if err != nil {
		return nil, &Error{Kind: KindLocalIO, URL: source, Err: err}
	}
	return data, nil
}
