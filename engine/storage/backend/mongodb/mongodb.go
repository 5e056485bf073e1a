package entitystoragemongodb

import (
	"io"
	"strings"

	"github.com/kasanryukin/nesiadmud/engine/common"
	"github.com/kasanryukin/nesiadmud/engine/gwlog"
	"github.com/kasanryukin/nesiadmud/engine/storage/storage_common"
	"github.com/kasanryukin/nesiadmud/engine/storageset"
	"github.com/pkg/errors"
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

const (
	_DEFAULT_DB_NAME = "nesiadmud"
)

// MongoDB rejects field names containing '.' or starting with '$', so keys are escaped on write
var (
	keyEscaper   = strings.NewReplacer("%", "%25", ".", "%2E", "$", "%24")
	keyUnescaper = strings.NewReplacer("%25", "%", "%2E", ".", "%24", "$")
)

type mongoDBEntityStorge struct {
	db *mgo.Database
}

// OpenMongoDB opens mongodb as entity storage
func OpenMongoDB(url string, dbname string) (storagecommon.EntityStorage, error) {
	gwlog.Debugf("Connecting MongoDB ...")
	session, err := mgo.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "mongodb dial failed")
	}

	session.SetMode(mgo.Monotonic, true)
	if dbname == "" {
		// if db is not specified, use default
		dbname = _DEFAULT_DB_NAME
	}
	return &mongoDBEntityStorge{
		db: session.DB(dbname),
	}, nil
}

func (es *mongoDBEntityStorge) Write(kind string, entityID common.EntityID, data *storageset.Set) error {
	col := es.getCollection(kind)
	_, err := col.UpsertId(entityID, bson.M{
		"data": escapeKeys(data.ToMap()),
	})
	return err
}

func (es *mongoDBEntityStorge) Read(kind string, entityID common.EntityID) (*storageset.Set, error) {
	col := es.getCollection(kind)
	q := col.FindId(entityID)
	var doc bson.M
	err := q.One(&doc)
	if err == mgo.ErrNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	data, ok := doc["data"].(bson.M)
	if !ok {
		return nil, errors.Errorf("%s %s: data is %T", kind, entityID, doc["data"])
	}
	s := storageset.New()
	s.AssignMap(convertM2Map(data))
	return s, nil
}

func escapeKeys(m map[string]interface{}) map[string]interface{} {
	escaped := make(map[string]interface{}, len(m))
	for k, v := range m {
		switch iv := v.(type) {
		case map[string]interface{}:
			v = escapeKeys(iv)
		case []interface{}:
			for i, item := range iv {
				if im, ok := item.(map[string]interface{}); ok {
					iv[i] = escapeKeys(im)
				}
			}
		}
		escaped[keyEscaper.Replace(k)] = v
	}
	return escaped
}

// convertM2Map converts bson documents to native maps recursively, unescaping keys
func convertM2Map(m bson.M) map[string]interface{} {
	ma := make(map[string]interface{}, len(m))
	for k, v := range m {
		ma[keyUnescaper.Replace(k)] = convertM2Value(v)
	}
	return ma
}

func convertM2Value(v interface{}) interface{} {
	switch iv := v.(type) {
	case bson.M:
		return convertM2Map(iv)
	case map[string]interface{}:
		return convertM2Map(bson.M(iv))
	case []interface{}:
		for i, item := range iv {
			iv[i] = convertM2Value(item)
		}
		return iv
	}
	return v
}

func (es *mongoDBEntityStorge) getCollection(kind string) *mgo.Collection {
	return es.db.C(kind)
}

func (es *mongoDBEntityStorge) List(kind string) ([]common.EntityID, error) {
	col := es.getCollection(kind)
	var docs []bson.M
	err := col.Find(nil).Select(bson.M{"_id": 1}).All(&docs)
	if err != nil {
		return nil, err
	}

	entityIDs := make([]common.EntityID, len(docs))
	for i, doc := range docs {
		entityIDs[i] = common.EntityID(doc["_id"].(string))
	}
	return entityIDs, nil
}

func (es *mongoDBEntityStorge) Exists(kind string, entityID common.EntityID) (bool, error) {
	n, err := es.getCollection(kind).FindId(entityID).Count()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (es *mongoDBEntityStorge) Delete(kind string, entityID common.EntityID) error {
	err := es.getCollection(kind).RemoveId(entityID)
	if err == mgo.ErrNotFound {
		return nil
	}
	return err
}

func (es *mongoDBEntityStorge) Close() {
	es.db.Session.Close()
}

func (es *mongoDBEntityStorge) IsEOF(err error) bool {
	return err == io.EOF || err == io.ErrUnexpectedEOF
}
