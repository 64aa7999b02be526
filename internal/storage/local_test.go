package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(filepath.Join(t.TempDir(), "artifacts"))
	require.NoError(t, err)
	return s
}

func TestLocalRoundTrip(t *testing.T) {
	s := newLocal(t)
	ctx := context.Background()
	key := "runs/run-1/results.csv"

	require.NoError(t, s.Upload(ctx, key, strings.NewReader("trial,result\n1,PASS\n")))

	exists, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := s.Download(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "trial,result\n1,PASS\n", string(data))

	url, err := s.URL(ctx, key)
	require.NoError(t, err)
	assert.Contains(t, url, filepath.FromSlash("runs/run-1/results.csv"))
}

func TestLocalDownloadMissing(t *testing.T) {
	s := newLocal(t)
	_, err := s.Download(context.Background(), "runs/none/x.csv")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalExistsMissing(t *testing.T) {
	s := newLocal(t)
	exists, err := s.Exists(context.Background(), "runs/none/x.csv")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalURLMissing(t *testing.T) {
	s := newLocal(t)
	_, err := s.URL(context.Background(), "runs/none/x.csv")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalRejectsTraversal(t *testing.T) {
	s := newLocal(t)
	ctx := context.Background()

	for _, key := range []string{"", "../outside.txt", "../../etc/passwd", "runs/../../outside"} {
		err := s.Upload(ctx, key, strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
	}
}

func TestLocalOverwrite(t *testing.T) {
	s := newLocal(t)
	ctx := context.Background()

	require.NoError(t, s.Upload(ctx, "a.txt", strings.NewReader("one")))
	require.NoError(t, s.Upload(ctx, "a.txt", strings.NewReader("two")))

	rc, err := s.Download(ctx, "a.txt")
	require.NoError(t, err)
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "two", string(data))
}

func TestNewBlobStorageFactory(t *testing.T) {
	dir := t.TempDir()

	local, err := NewBlobStorage(Config{Backend: "local", LocalDir: dir})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, local)

	_, err = NewBlobStorage(Config{Backend: "local"})
	assert.Error(t, err)

	_, err = NewBlobStorage(Config{Backend: "s3"})
	assert.Error(t, err, "bucket required")

	_, err = NewBlobStorage(Config{Backend: "ftp"})
	assert.Error(t, err)
}

func TestUploadFile(t *testing.T) {
	s := newLocal(t)
	ctx := context.Background()

	src := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(src, []byte("trial,result\n"), 0644))

	require.NoError(t, UploadFile(ctx, s, "runs/run-2/out.csv", src))

	exists, err := s.Exists(ctx, "runs/run-2/out.csv")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUploadFileMissingSource(t *testing.T) {
	s := newLocal(t)
	err := UploadFile(context.Background(), s, "runs/x/y.csv", "/nonexistent/file.csv")
	assert.Error(t, err)
}
