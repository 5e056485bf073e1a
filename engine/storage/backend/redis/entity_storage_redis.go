package entitystorageredis

import (
	"io"

	"github.com/garyburd/redigo/redis"
	"github.com/kasanryukin/nesiadmud/engine/common"
	. "github.com/kasanryukin/nesiadmud/engine/storage/storage_common"
	"github.com/kasanryukin/nesiadmud/engine/storageset"
	"github.com/pkg/errors"
)

var (
	dataPacker SetPacker = MessagePackSetPacker{}
)

type redisEntityStorage struct {
	c redis.Conn
}

// OpenRedis opens redis as entity storage
func OpenRedis(url string, dbindex int) (EntityStorage, error) {
	c, err := redis.DialURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "redis dail failed")
	}

	if _, err := c.Do("SELECT", dbindex); err != nil {
		c.Close()
		return nil, errors.Wrap(err, "redis select db failed")
	}

	es := &redisEntityStorage{
		c: c,
	}

	return es, nil
}

func (es *redisEntityStorage) List(kind string) ([]common.EntityID, error) {
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

		if isZeroCursor(nextCursor) {
			break
		}
		r, err = redis.Values(es.c.Do("SCAN", nextCursor, "MATCH", keyMatch, "COUNT", 10000))
		if err != nil {
			return nil, err
		}
	}
	return eids, nil
}

func isZeroCursor(c interface{}) bool {
	return string(c.([]byte)) == "0"
}

func (es *redisEntityStorage) Write(kind string, entityID common.EntityID, data *storageset.Set) error {
	b, err := dataPacker.PackSet(data, nil)
	if err != nil {
		return err
	}

	_, err = es.c.Do("SET", EntityKey(kind, entityID), b)
	return err
}

func (es *redisEntityStorage) Read(kind string, entityID common.EntityID) (*storageset.Set, error) {
	b, err := redis.Bytes(es.c.Do("GET", EntityKey(kind, entityID)))
	if err == redis.ErrNil {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return dataPacker.UnpackSet(b)
}

func (es *redisEntityStorage) Exists(kind string, entityID common.EntityID) (bool, error) {
	return redis.Bool(es.c.Do("EXISTS", EntityKey(kind, entityID)))
}

func (es *redisEntityStorage) Delete(kind string, entityID common.EntityID) error {
	_, err := es.c.Do("DEL", EntityKey(kind, entityID))
	return err
}

func (es *redisEntityStorage) Close() {
	es.c.Close()
}

func (es *redisEntityStorage) IsEOF(err error) bool {
	return err == io.EOF || err == io.ErrUnexpectedEOF
}
