package storage

import (
	"path/filepath"
	"testing"

	"github.com/kasanryukin/nesiadmud/engine/common"
	"github.com/kasanryukin/nesiadmud/engine/config"
	"github.com/kasanryukin/nesiadmud/engine/post"
	"github.com/kasanryukin/nesiadmud/engine/storage/backend/sqlite"
	"github.com/kasanryukin/nesiadmud/engine/storageset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageRoutine(t *testing.T) {
	es, err := entitystoragesqlite.OpenSQLite(entitystoragesqlite.MemoryDSN)
	require.NoError(t, err)
	InitializeWithEngine(es)

	entityID := common.GenEntityID()
	data := storageset.New()
	data.StoreString("name", "The Prancing Pony")

	saved := false
	var loaded *storageset.Set
	var loadErr error
	existed := false
	var ids []common.EntityID
	var deleteErr error
	var loadedAfterDelete *storageset.Set

	Save("room", entityID, data, func() {
		saved = true
	})
	Load("room", entityID, func(data *storageset.Set, err error) {
		loaded, loadErr = data, err
	})
	Exists("room", entityID, func(exists bool, err error) {
		existed = exists
	})
	ListEntityIDs("room", func(eids []common.EntityID, err error) {
		ids = eids
	})
	Delete("room", entityID, func(err error) {
		deleteErr = err
	})
	Load("room", entityID, func(data *storageset.Set, err error) {
		loadedAfterDelete = data
	})
	Shutdown()
	post.Tick()

	assert.True(t, saved)
	require.NoError(t, loadErr)
	require.NotNil(t, loaded)
	assert.Equal(t, "The Prancing Pony", loaded.ReadString("name"))
	assert.True(t, existed)
	assert.Equal(t, []common.EntityID{entityID}, ids)
	assert.NoError(t, deleteErr)
	assert.Nil(t, loadedAfterDelete)
	assert.Equal(t, 0, data.Len(), "saved data should be released by the storage routine")
}

func TestOpenStorage(t *testing.T) {
	dir := t.TempDir()
	es, err := OpenStorage(&config.StorageConfig{Type: config.StorageFilesystem, Directory: dir})
	require.NoError(t, err)
	es.Close()

	es, err = OpenStorage(&config.StorageConfig{Type: config.StorageSQLite, Url: filepath.Join(dir, "world.db")})
	require.NoError(t, err)
	es.Close()

	_, err = OpenStorage(&config.StorageConfig{Type: config.StorageRedis, Url: "redis://localhost", DB: "zero"})
	assert.Error(t, err)
	_, err = OpenStorage(&config.StorageConfig{Type: "mysql"})
	assert.Error(t, err)
}

func TestInitializeFromConfig(t *testing.T) {
	Initialize(&config.StorageConfig{Type: config.StorageFilesystem, Directory: t.TempDir()})
	entityID := common.GenEntityID()
	data := storageset.New()
	data.StoreInt("level", 3)
	Save("character", entityID, data, nil)

	var level int64
	Load("character", entityID, func(data *storageset.Set, err error) {
		level = data.ReadInt("level")
		data.Close()
	})
	Shutdown()
	post.Tick()
	assert.Equal(t, int64(3), level)
}
