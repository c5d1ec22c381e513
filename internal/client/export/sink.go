// Package export stores downloaded reports and datasets, either in a local
// directory or in an S3-compatible bucket.
package export

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/hmpi/internal/filex"
)

// Sink stores one named payload and returns where it ended up.
type Sink interface {
	Put(ctx context.Context, name string, r io.Reader) (string, error)
}

// FileSink writes payloads under a local directory. Existing files are never
// overwritten; a numbered name is picked instead.
type FileSink struct {
	dir string
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

func (s *FileSink) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	dir, err := filex.EnsureSubdDir(s.dir)
	if err != nil {
		return "", err
	}
	path, err := filex.FreeName(dir, name)
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}
