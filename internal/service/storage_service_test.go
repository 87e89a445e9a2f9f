package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"course_hub_backend/internal/config"
	"course_hub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func localStorage(t *testing.T) (*StorageService, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{Storage: config.StorageConfig{Type: util.StorageLocal, LocalPath: dir}}
	return NewStorageService(cfg), dir
}

func TestLocalStorageLifecycle(t *testing.T) {
	svc, dir := localStorage(t)
	ctx := context.Background()

	url, err := svc.Upload(ctx, "courses/cover.png", strings.NewReader("png"), 3, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/courses/cover.png", url)

	raw, err := os.ReadFile(filepath.Join(dir, "courses", "cover.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(raw))

	ok, err := svc.Exists(ctx, "courses/cover.png")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.Delete(ctx, "courses/cover.png"))
	require.NoError(t, svc.Delete(ctx, "courses/cover.png"))
	ok, err = svc.Exists(ctx, "courses/cover.png")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStorageUploadFile(t *testing.T) {
	svc, dir := localStorage(t)
	src := filepath.Join(t.TempDir(), "a.mp3")
	require.NoError(t, os.WriteFile(src, []byte("ID3"), 0o644))

	url, err := svc.UploadFile(context.Background(), "lessons/audio/a.mp3", src, "audio/mpeg")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/lessons/audio/a.mp3", url)
	assert.FileExists(t, filepath.Join(dir, "lessons", "audio", "a.mp3"))
}

func TestResolveURL(t *testing.T) {
	svc, dir := localStorage(t)
	ctx := context.Background()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "courses"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "courses", "x.png"), []byte("png"), 0o644))

	assert.Nil(t, svc.ResolveURL(ctx, ""))
	assert.Nil(t, svc.ResolveURL(ctx, "courses/missing.png"))

	got := svc.ResolveURL(ctx, "courses/x.png")
	require.NotNil(t, got)
	assert.Equal(t, "/uploads/courses/x.png", *got)

	external := svc.ResolveURL(ctx, "https://cdn.test/x.png")
	require.NotNil(t, external)
	assert.Equal(t, "https://cdn.test/x.png", *external)
}

func TestUnknownStorageTypeFallsBackToLocal(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Type: "ftp", LocalPath: t.TempDir()}}
	_, ok := NewStorageService(cfg).Provider.(*LocalStorageProvider)
	assert.True(t, ok)
}
