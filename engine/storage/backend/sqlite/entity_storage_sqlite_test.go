package entitystoragesqlite

import (
	"path/filepath"
	"testing"

	"github.com/kasanryukin/nesiadmud/engine/common"
	"github.com/kasanryukin/nesiadmud/engine/storageset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteEntityStorage(t *testing.T) {
	es, err := OpenSQLite(MemoryDSN)
	require.NoError(t, err)
	defer es.Close()

	entityID := common.GenEntityID()
	data, err := es.Read("room", entityID)
	assert.NoError(t, err)
	assert.Nil(t, data)

	testData := storageset.New()
	testData.StoreInt("a", 1)
	testData.StoreString("b", "line1\nline2")
	testData.StoreBool("c", true)
	testData.StoreDouble("d", 1.11)
	exits := storageset.NewList()
	exit := storageset.New()
	exit.StoreString("dir", "north")
	exits.Add(exit)
	testData.StoreList("exits", exits)
	require.NoError(t, es.Write("room", entityID, testData))

	verifyData, err := es.Read("room", entityID)
	require.NoError(t, err)
	assert.True(t, testData.Equal(verifyData), "read wrong data: %s", verifyData)

	// overwrite
	testData.StoreInt("a", 2)
	require.NoError(t, es.Write("room", entityID, testData))
	verifyData, err = es.Read("room", entityID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), verifyData.ReadInt("a"))

	exists, err := es.Exists("room", entityID)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = es.Exists("object", entityID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, es.Write("object", common.GenEntityID(), storageset.New()))
	roomIDs, err := es.List("room")
	require.NoError(t, err)
	assert.Equal(t, []common.EntityID{entityID}, roomIDs)

	require.NoError(t, es.Delete("room", entityID))
	data, err = es.Read("room", entityID)
	assert.NoError(t, err)
	assert.Nil(t, data)
}

func TestSQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "world.db")
	es, err := OpenSQLite(path)
	require.NoError(t, err)
	entityID := common.GenEntityID()
	s := storageset.New()
	s.StoreString("name", "tavern")
	require.NoError(t, es.Write("room", entityID, s))
	es.Close()

	es, err = OpenSQLite(path)
	require.NoError(t, err)
	defer es.Close()
	loaded, err := es.Read("room", entityID)
	require.NoError(t, err)
	assert.Equal(t, "tavern", loaded.ReadString("name"))
}
