package entitystoragerediscluster

import (
	"io"
	"time"

	rediscluster "github.com/chasex/redis-go-cluster"
	"github.com/garyburd/redigo/redis"
	"github.com/kasanryukin/nesiadmud/engine/common"
	"github.com/kasanryukin/nesiadmud/engine/storage/storage_common"
	"github.com/kasanryukin/nesiadmud/engine/storageset"
	"github.com/pkg/errors"
)

var (
	dataPacker storagecommon.SetPacker = storagecommon.MessagePackSetPacker{}
)

type redisClusterEntityStorage struct {
	c *rediscluster.Cluster
}

// OpenRedisCluster opens redis cluster as entity storage
func OpenRedisCluster(startNodes []string) (storagecommon.EntityStorage, error) {
	c, err := rediscluster.NewCluster(&rediscluster.Options{
		StartNodes:   startNodes,
		ConnTimeout:  10 * time.Second, // Connection timeout
		ReadTimeout:  60 * time.Second, // Read timeout
		WriteTimeout: 60 * time.Second, // Write timeout
		KeepAlive:    1,                // Maximum keep alive connecion in each node
		AliveTime:    10 * time.Minute, // Keep alive timeout
	})

	if err != nil {
		return nil, errors.Wrap(err, "connect redis cluster failed")
	}

	es := &redisClusterEntityStorage{
		c: c,
	}

	return es, nil
}

func (es *redisClusterEntityStorage) List(kind string) ([]common.EntityID, error) {
	keyMatch := kind + "$*"
	r, err := redis.Values(es.c.Do("SCAN", "0", "MATCH", keyMatch, "COUNT", 10000))
	if err != nil {
		return nil, err
	}
	var eids []common.EntityID
	prefixLen := len(kind) + 1
	for {
		nextCursor := r[0]
		keys, err := redis.Strings(r[1], nil)
		if err != nil {
			return nil, err
		}

		for _, key := range keys {
			eids = append(eids, common.EntityID(key[prefixLen:]))
		}

		if string(nextCursor.([]byte)) == "0" {
			break
		}
		r, err = redis.Values(es.c.Do("SCAN", nextCursor, "MATCH", keyMatch, "COUNT", 10000))
		if err != nil {
			return nil, err
		}
	}
	return eids, nil
}

func (es *redisClusterEntityStorage) Write(kind string, entityID common.EntityID, data *storageset.Set) error {
	b, err := dataPacker.PackSet(data, nil)
	if err != nil {
		return err
	}

	_, err = es.c.Do("SET", storagecommon.EntityKey(kind, entityID), b)
	return err
}

func (es *redisClusterEntityStorage) Read(kind string, entityID common.EntityID) (*storageset.Set, error) {
	b, err := redis.Bytes(es.c.Do("GET", storagecommon.EntityKey(kind, entityID)))
	if err == redis.ErrNil {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return dataPacker.UnpackSet(b)
}

func (es *redisClusterEntityStorage) Exists(kind string, entityID common.EntityID) (bool, error) {
	return redis.Bool(es.c.Do("EXISTS", storagecommon.EntityKey(kind, entityID)))
}

func (es *redisClusterEntityStorage) Delete(kind string, entityID common.EntityID) error {
	_, err := es.c.Do("DEL", storagecommon.EntityKey(kind, entityID))
	return err
}

func (es *redisClusterEntityStorage) Close() {
	es.c.Close()
}

func (es *redisClusterEntityStorage) IsEOF(err error) bool {
	return err == io.EOF || err == io.ErrUnexpectedEOF
}
