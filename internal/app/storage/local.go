package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"nickchat/internal/pkg/randx"
)

// localStore writes files into a directory that the HTTP router serves under LocalURLPrefix.
type localStore struct {
	dir string
}

// newLocalStore creates the upload directory if needed.
func newLocalStore(dir string) (*localStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory is required for the %s storage driver", DriverLocal)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}

	return &localStore{dir: dir}, nil
}

// Save writes body to dir/name through a temporary file so a partial write is never visible.
func (s *localStore) Save(ctx context.Context, name string, mimeType string, size int64, body io.Reader) (string, error) {
	if !randx.IsPhotoName(name) {
		return "", fmt.Errorf("refusing to store file with name %q", name)
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary upload file: %w", err)
	}
	tmpName := tmp.Name()

	written, err := io.Copy(tmp, &ctxReader{ctx: ctx, r: body})
	closeErr := tmp.Close()

	if err == nil && closeErr != nil {
		err = closeErr
	}
	if err == nil && size > 0 && written != size {
		err = fmt.Errorf("short write: wrote %d of %d bytes", written, size)
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("failed to write upload %s: %w", name, err)
	}

	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("failed to move upload %s into place: %w", name, err)
	}

	return path.Join(LocalURLPrefix, name), nil
}

// Delete removes the file referenced by ref. A missing file is not an error.
func (s *localStore) Delete(ctx context.Context, ref string) error {
	name, ok := strings.CutPrefix(ref, LocalURLPrefix+"/")
	if !ok || !randx.IsPhotoName(name) {
		return ErrInvalidReference
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete upload %s: %w", name, err)
	}

	return nil
}

// ctxReader stops a copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
