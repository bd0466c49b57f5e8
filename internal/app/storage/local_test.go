package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nickchat/internal/pkg/randx"
)

func newTestLocalStore(t *testing.T) (StorageService, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "uploads")

	svc, err := NewStorageService(context.Background(), ServiceConfig{Driver: DriverLocal, UploadDir: dir})
	require.NoError(t, err)

	return svc, dir
}

func TestLocalSaveAndDelete(t *testing.T) {
	svc, dir := newTestLocalStore(t)
	ctx := context.Background()

	name, err := randx.PhotoName(".png")
	require.NoError(t, err)

	payload := []byte("\x89PNG fake image bytes")
	ref, err := svc.Save(ctx, name, "image/png", int64(len(payload)), bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/"+name, ref)

	stored, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, payload, stored)

	require.NoError(t, svc.Delete(ctx, ref))
	_, err = os.Stat(filepath.Join(dir, name))
	assert.True(t, os.IsNotExist(err))

	// Deleting twice is fine.
	assert.NoError(t, svc.Delete(ctx, ref))
}

func TestLocalSaveRejectsForeignNames(t *testing.T) {
	svc, _ := newTestLocalStore(t)

	_, err := svc.Save(context.Background(), "../escape.png", "image/png", 1, strings.NewReader("x"))
	assert.Error(t, err)
}

func TestLocalSaveShortWriteLeavesNothing(t *testing.T) {
	svc, dir := newTestLocalStore(t)

	name, err := randx.PhotoName(".gif")
	require.NoError(t, err)

	_, err = svc.Save(context.Background(), name, "image/gif", 100, strings.NewReader("short"))
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalDeleteRejectsForeignReferences(t *testing.T) {
	svc, _ := newTestLocalStore(t)

	for _, ref := range []string{"", "/uploads/../go.mod", "/static/x.png", "https://cdn.example.com/a.png"} {
		assert.ErrorIs(t, svc.Delete(context.Background(), ref), ErrInvalidReference, ref)
	}
}

func TestUnknownDriver(t *testing.T) {
	_, err := NewStorageService(context.Background(), ServiceConfig{Driver: "ftp"})
	assert.Error(t, err)
}
