package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/kasanryukin/nesiadmud/engine/common"
	"github.com/kasanryukin/nesiadmud/engine/storage/backend/sqlite"
	"github.com/kasanryukin/nesiadmud/engine/storageset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runTool(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func sampleSet() *storageset.Set {
	set := storageset.New()
	set.StoreString("_name", "Gandalf")
	set.StoreInt("level", 20)
	attrs := storageset.New()
	attrs.StoreInt("wisdom", 18)
	set.StoreSet("attributes", attrs)
	list := storageset.NewList()
	list.Add(storageset.New())
	set.StoreList("verbs", list)
	return set
}

func writeSample(t *testing.T, dir string) string {
	path := filepath.Join(dir, "gandalf")
	set := sampleSet()
	defer set.Close()
	require.NoError(t, set.WriteFile(path))
	return path
}

func TestDump(t *testing.T) {
	path := writeSample(t, t.TempDir())

	out, err := runTool(t, "dump", path)
	require.NoError(t, err)
	parsed, err := storageset.Unmarshal([]byte(out))
	require.NoError(t, err)
	assert.True(t, sampleSet().Equal(parsed))

	out, err = runTool(t, "dump", "--json", path)
	require.NoError(t, err)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Gandalf", doc["_name"])

	_, err = runTool(t, "dump", filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	path := writeSample(t, t.TempDir())

	out, err := runTool(t, "keys", path)
	require.NoError(t, err)
	assert.Contains(t, out, "attributes")
	assert.Contains(t, out, "set(1)")
	assert.Contains(t, out, "list(1)")

	infos := topLevelKeys(sampleSet())
	assert.Equal(t, []keyInfo{
		{Key: "_name", Kind: "string"},
		{Key: "attributes", Kind: "set", Len: 1},
		{Key: "level", Kind: "int"},
		{Key: "verbs", Kind: "list", Len: 1},
	}, infos)
}

func TestVerify(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".room.tmp123"), []byte("garbage"), 0644))

	out, err := runTool(t, "verify", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1 files checked, 0 failed")

	corrupt := filepath.Join(dir, "corrupt")
	require.NoError(t, os.WriteFile(corrupt, []byte("string name\nBilbo\n"), 0644))
	out, err = runTool(t, "verify", dir)
	assert.Error(t, err)
	assert.Contains(t, out, "FAIL "+corrupt)
	assert.Contains(t, out, "2 files checked, 1 failed")
}

func TestFetch(t *testing.T) {
	dir := t.TempDir()
	dbFile := filepath.Join(dir, "world.db")
	es, err := entitystoragesqlite.OpenSQLite(dbFile)
	require.NoError(t, err)
	id := common.GenEntityID()
	require.NoError(t, es.Write("character", id, sampleSet()))
	es.Close()

	configFile := filepath.Join(dir, "nesiadmud.ini")
	require.NoError(t, os.WriteFile(configFile, []byte(fmt.Sprintf("[storage]\ntype = sqlite\nurl = %s\n", dbFile)), 0644))

	out, err := runTool(t, "fetch", "--config", configFile, "character", string(id))
	require.NoError(t, err)
	assert.Contains(t, out, "Gandalf")

	_, err = runTool(t, "fetch", "--config", configFile, "room", string(id))
	assert.Error(t, err)
	_, err = runTool(t, "fetch", "--config", configFile, "room|object", string(id))
	assert.Error(t, err)
	_, err = runTool(t, "fetch", "--config", filepath.Join(dir, "absent.ini"), "room", string(id))
	assert.Error(t, err)
}
