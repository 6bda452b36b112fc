package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gamehub/config"
	"gamehub/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStorage(config.UploadConfig{Dir: dir, MaxSize: 16})
	require.NoError(t, err)

	name, err := s.Save("avatar.PNG", 5, strings.NewReader("image"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".png"))

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "image", string(data))

	require.NoError(t, s.Delete(name))
	_, err = os.Stat(filepath.Join(dir, name))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, s.Delete(name), "deleting twice is fine")
}

func TestSaveRejectsBadInput(t *testing.T) {
	s, err := NewFileStorage(config.UploadConfig{Dir: t.TempDir(), MaxSize: 4})
	require.NoError(t, err)

	_, err = s.Save("script.sh", 1, strings.NewReader("x"))
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	// 声明的大小合法但实际内容超限
	_, err = s.Save("big.png", 1, strings.NewReader("too large"))
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected uploads leave no files behind")
}
