package vis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provide-io/slimplayer/internal/config"
)

func withShmDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := ShmDir
	ShmDir = dir
	t.Cleanup(func() { ShmDir = old })
	return dir
}

func TestPathFor(t *testing.T) {
	dir := withShmDir(t)
	mac := config.MAC{0xab, 0xcd, 0xef, 0x12, 0x34, 0x56}
	assert.Equal(t, filepath.Join(dir, "slimplayer-abcdef123456"), PathFor(mac))
}

func TestExporterLifecycle(t *testing.T) {
	withShmDir(t)
	mac := config.MAC{0x02, 0, 0, 0, 0, 1}

	e := New(nil)
	require.NoError(t, e.Init(mac))
	path := e.Path()
	assert.Equal(t, PathFor(mac), path)
	assert.ErrorIs(t, e.Init(mac), ErrAlreadyInitialized)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(FileSize), info.Size())

	require.NoError(t, e.Update(true, 44100, WindowFrames+5))
	h, err := ReadHeader(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), h.Running)
	assert.Equal(t, uint32(44100), h.Rate)
	assert.Equal(t, uint32(5), h.Position)
	assert.Equal(t, uint32(WindowFrames), h.BufferSize)
	assert.NotZero(t, h.Updated)

	require.NoError(t, e.Close())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.Empty(t, e.Path())
	require.NoError(t, e.Close())
}

func TestExporterMissingDir(t *testing.T) {
	old := ShmDir
	ShmDir = filepath.Join(t.TempDir(), "missing")
	defer func() { ShmDir = old }()

	assert.Error(t, New(nil).Init(config.MAC{}))
}
