package storagecommon

import (
	"github.com/kasanryukin/nesiadmud/engine/common"
	"github.com/kasanryukin/nesiadmud/engine/storageset"
)

// EntityStorage defines the interface of entity storage backends
//
// Backends never take ownership of the Sets written to them. Read returns nil, nil if the
// entity is not saved.
type EntityStorage interface {
	List(kind string) ([]common.EntityID, error)
	Write(kind string, entityID common.EntityID, data *storageset.Set) error
	Read(kind string, entityID common.EntityID) (*storageset.Set, error)
	Exists(kind string, entityID common.EntityID) (bool, error)
	Delete(kind string, entityID common.EntityID) error
	Close()
	IsEOF(err error) bool
}

// EntityKey returns the key of the entity in key-value backends
func EntityKey(kind string, entityID common.EntityID) string {
	return kind + "$" + string(entityID)
}
