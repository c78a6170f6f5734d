package search

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileProvider_FiltersByQuery(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "items.json")
	data := `[
		{"title":"경제 성장률 발표","link":"https://a.kr/1","description":"x"},
		{"title":"야구 결과","link":"https://a.kr/2","description":"스포츠"},
		{"title":"무효","link":""}
	]`
	require.NoError(t, os.WriteFile(p, []byte(data), 0o644))

	f := &FileProvider{Path: p}
	got, err := f.Search(context.Background(), "경제", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "https://a.kr/1", got[0].Link)

	all, err := f.Search(context.Background(), "", 1)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFileProvider_MissingPath(t *testing.T) {
	_, err := (&FileProvider{}).Search(context.Background(), "q", 1)
	assert.Error(t, err)
	_, err = (&FileProvider{Path: filepath.Join(t.TempDir(), "nope.json")}).Search(context.Background(), "q", 1)
	assert.Error(t, err)
}
