package entitystorageredis

import (
	"os"
	"testing"

	"github.com/kasanryukin/nesiadmud/engine/common"
	"github.com/kasanryukin/nesiadmud/engine/gwlog"
	"github.com/kasanryukin/nesiadmud/engine/storageset"
)

func TestRedisEntityStorage(t *testing.T) {
	url := os.Getenv("NESIADMUD_TEST_REDIS")
	if url == "" {
		t.Skip("NESIADMUD_TEST_REDIS is not set")
	}
	es, err := OpenRedis(url, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer es.Close()
	gwlog.Infof("TestRedisEntityStorage: %v", es)
	entityID := common.GenEntityID()
	gwlog.Infof("TESTING ENTITYID: %s", entityID)
	data, err := es.Read("object", entityID)
	if data != nil || err != nil {
		t.Errorf("should be nil: %v %v", data, err)
	}

	testData := storageset.New()
	testData.StoreInt("a", 1)
	testData.StoreString("b", "2")
	testData.StoreBool("c", true)
	testData.StoreDouble("d", 1.11)
	if err := es.Write("object", entityID, testData); err != nil {
		t.Fatal(err)
	}

	verifyData, err := es.Read("object", entityID)
	if err != nil {
		t.Fatal(err)
	}
	if !testData.Equal(verifyData) {
		t.Errorf("read wrong data: %v", verifyData)
	}

	objectIDs, err := es.List("object")
	if err != nil {
		t.Error(err)
	}
	if len(objectIDs) == 0 {
		t.Errorf("object IDs is empty!")
	}

	if err := es.Delete("object", entityID); err != nil {
		t.Error(err)
	}
	if exists, _ := es.Exists("object", entityID); exists {
		t.Errorf("should be deleted")
	}
}
