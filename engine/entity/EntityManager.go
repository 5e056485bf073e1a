package entity

import (
	"sort"
	"time"

	"github.com/kasanryukin/nesiadmud/engine/auxiliary"
	"github.com/kasanryukin/nesiadmud/engine/common"
	"github.com/kasanryukin/nesiadmud/engine/consts"
	"github.com/kasanryukin/nesiadmud/engine/gwlog"
	"github.com/kasanryukin/nesiadmud/engine/storage"
	"github.com/kasanryukin/nesiadmud/engine/storageset"
	"github.com/pkg/errors"
)

// ErrEntityNotFound is passed to LoadEntity callbacks when the entity is not saved
var ErrEntityNotFound = errors.New("entity not found")

// ErrKindMismatch is passed to LoadEntity callbacks when an entity of another kind is loaded with the ID
var ErrKindMismatch = errors.New("entity kind mismatch")

var (
	registeredKinds = map[auxiliary.Kind]*KindDesc{}
	entityManager   = newEntityManager()
)

// KindDesc describes how entities of a kind are managed
type KindDesc struct {
	Kind         auxiliary.Kind
	Name         string
	IsPersistent bool
	hooks        []Hooks
}

func init() {
	for _, kind := range auxiliary.AllKinds.Kinds() {
		registeredKinds[kind] = &KindDesc{
			Kind:         kind,
			Name:         kind.String(),
			IsPersistent: kind != auxiliary.Socket,
		}
	}
}

// SetPersistent sets whether entities of the kind are saved to storage
func (desc *KindDesc) SetPersistent(persistent bool) *KindDesc {
	desc.IsPersistent = persistent
	return desc
}

// AddHooks registers lifecycle callbacks for entities of the kind
func (desc *KindDesc) AddHooks(h Hooks) *KindDesc {
	desc.hooks = append(desc.hooks, h)
	return desc
}

// GetKindDesc returns the description of the entity kind
func GetKindDesc(kind auxiliary.Kind) *KindDesc {
	desc, ok := registeredKinds[kind]
	if !ok {
		gwlog.Panicf("unknown entity kind: %s", kind)
	}
	return desc
}

type _EntityManager struct {
	entities       EntityMap
	entitiesByKind map[auxiliary.Kind]common.EntityIDSet
}

func newEntityManager() *_EntityManager {
	return &_EntityManager{
		entities:       EntityMap{},
		entitiesByKind: map[auxiliary.Kind]common.EntityIDSet{},
	}
}

func (em *_EntityManager) put(entity *Entity) {
	if ex := em.entities.Get(entity.ID); ex != nil {
		gwlog.Panicf("entity %s already exists: %s", entity.ID, ex)
	}
	em.entities.Add(entity)
	if ids, ok := em.entitiesByKind[entity.Kind]; ok {
		ids.Add(entity.ID)
	} else {
		em.entitiesByKind[entity.Kind] = common.EntityIDSet{entity.ID: {}}
	}
}

func (em *_EntityManager) del(e *Entity) {
	em.entities.Del(e.ID)
	if ids, ok := em.entitiesByKind[e.Kind]; ok {
		ids.Del(e.ID)
	}
}

func (em *_EntityManager) get(id common.EntityID) *Entity {
	return em.entities.Get(id)
}

func newEntity(kind auxiliary.Kind, entityID common.EntityID) *Entity {
	if entityID == "" {
		entityID = common.GenEntityID()
	}
	e := &Entity{}
	e.init(kind, entityID)
	return e
}

// CreateEntity creates a new entity of kind with default auxiliaries attached
func CreateEntity(kind auxiliary.Kind) *Entity {
	e := newEntity(kind, "")
	e.Birth = time.Now()
	auxiliary.Default().AttachDefaults(e)

	entityManager.put(e)
	e.Save() // save immediately after creation
	e.onReady()

	gwlog.Debugf("Entity %s created.", e)
	e.kindDesc.runCreatedHooks(e)
	return e
}

// RestoreEntity creates the entity from saved data.
//
// root is not retained; the caller still owns it. A nil root restores an entity with default auxiliaries.
func RestoreEntity(kind auxiliary.Kind, entityID common.EntityID, root *storageset.Set) *Entity {
	e := newEntity(kind, entityID)
	if root != nil {
		e.readCoreFields(root)
	} else {
		e.Birth = time.Now()
	}
	auxiliary.Default().Restore(e, root)

	entityManager.put(e)
	e.onReady()

	if consts.DEBUG_SAVE_LOAD {
		gwlog.Debugf("Entity %s restored.", e)
	}
	e.kindDesc.runRestoredHooks(e)
	return e
}

// LoadEntity loads the entity from storage, calling cb in the world loop when done.
//
// If the entity is already loaded, cb receives the existing one, or ErrKindMismatch if it is of another kind.
func LoadEntity(kind auxiliary.Kind, entityID common.EntityID, cb func(e *Entity, err error)) {
	LoadOrGetEntity(kind, entityID, func(e *Entity, wasLoaded bool, err error) {
		cb(e, err)
	})
}

// LoadOrGetEntity is LoadEntity which also tells the callback if the entity was loaded before
func LoadOrGetEntity(kind auxiliary.Kind, entityID common.EntityID, cb func(e *Entity, wasLoaded bool, err error)) {
	desc := GetKindDesc(kind)
	if ex := entityManager.get(entityID); ex != nil {
		cb(loadedEntity(ex, kind))
		return
	}

	storage.Load(desc.Name, entityID, func(data *storageset.Set, err error) {
		// callback runs in world loop
		if err != nil {
			cb(nil, false, errors.Wrapf(err, "load %s %s", desc.Name, entityID))
			return
		}
		if data == nil {
			cb(nil, false, errors.Wrapf(ErrEntityNotFound, "%s %s", desc.Name, entityID))
			return
		}
		defer data.Close()

		if ex := entityManager.get(entityID); ex != nil {
			// loaded twice before the first load finished
			cb(loadedEntity(ex, kind))
			return
		}
		cb(RestoreEntity(kind, entityID, data), false, nil)
	})
}

func loadedEntity(ex *Entity, kind auxiliary.Kind) (*Entity, bool, error) {
	if ex.Kind != kind {
		return nil, true, errors.Wrapf(ErrKindMismatch, "%s is not %s", ex, kind)
	}
	gwlog.Warnf("LoadEntity: %s is already loaded", ex)
	return ex, true, nil
}

// GetEntity returns the entity of specified ID, or nil
func GetEntity(id common.EntityID) *Entity {
	return entityManager.get(id)
}

// Entities returns all entities of the kind, ordered by ID
func Entities(kind auxiliary.Kind) []*Entity {
	ids := entityManager.entitiesByKind[kind].ToList()
	sort.Slice(ids, func(i, j int) bool {
		return ids[i] < ids[j]
	})
	entities := make([]*Entity, len(ids))
	for i, id := range ids {
		entities[i] = entityManager.get(id)
	}
	return entities
}

// SaveAllEntities saves all persistent entities
func SaveAllEntities() {
	for _, e := range entityManager.entities {
		e.Save()
	}
}

// DestroyAllEntities destroys every entity
func DestroyAllEntities() {
	for _, e := range entityManager.entities {
		e.Destroy()
	}
}
