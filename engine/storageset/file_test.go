package storageset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.dat")

	s := New()
	s.StoreString("name", "Aragorn")
	s.StoreInt("level", 20)
	nested := New()
	nested.StoreBool("king", true)
	s.StoreSet("title", nested)
	require.NoError(t, s.WriteFile(path))

	loaded := ReadFile(path)
	require.NotNil(t, loaded)
	assert.Equal(t, "Aragorn", loaded.ReadString("name"))
	assert.Equal(t, int64(20), loaded.ReadInt("level"))
	assert.True(t, loaded.ReadSet("title").ReadBool("king"))
	assert.True(t, s.Equal(loaded))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestWriteFileOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.dat")

	first := buildDeepSet()
	require.NoError(t, first.WriteFile(path))
	second := New()
	second.StoreString("only", "this")
	require.NoError(t, second.WriteFile(path))

	loaded := ReadFile(path)
	require.NotNil(t, loaded)
	assert.True(t, second.Equal(loaded))

	// no temporary files are left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFileMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "f.dat")
	assert.Error(t, New().WriteFile(path))
}

func TestReadFileAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.dat")
	assert.Nil(t, ReadFile(path))

	s, err := Load(path)
	assert.NoError(t, err)
	assert.Nil(t, s)
}

func TestReadFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.dat")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	s := ReadFile(path)
	require.NotNil(t, s)
	assert.Equal(t, 0, s.Len())
}

func TestReadFileCorrupt(t *testing.T) {
	dir := t.TempDir()

	truncated := filepath.Join(dir, "truncated.dat")
	data := Marshal(buildDeepSet())
	require.NoError(t, os.WriteFile(truncated, data[:len(data)/2], 0644))
	assert.Nil(t, ReadFile(truncated))

	garbage := filepath.Join(dir, "garbage.dat")
	require.NoError(t, os.WriteFile(garbage, []byte("this is not\na storage set\n"), 0644))
	assert.Nil(t, ReadFile(garbage))

	_, err := Load(garbage)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), garbage)
}
