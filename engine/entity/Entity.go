package entity

import (
	"fmt"
	"time"

	"github.com/kasanryukin/nesiadmud/engine/auxiliary"
	"github.com/kasanryukin/nesiadmud/engine/common"
	"github.com/kasanryukin/nesiadmud/engine/consts"
	"github.com/kasanryukin/nesiadmud/engine/gwlog"
	"github.com/kasanryukin/nesiadmud/engine/storage"
	"github.com/kasanryukin/nesiadmud/engine/storageset"
	"github.com/xiaonanln/goTimer"
)

// Keys of core entity fields in persisted entities
const (
	KeyID         = auxiliary.ReservedPrefix + "id"
	KeyKind       = auxiliary.ReservedPrefix + "kind"
	KeyName       = auxiliary.ReservedPrefix + "name"
	KeyPrototypes = auxiliary.ReservedPrefix + "prototypes"
	KeyBirth      = auxiliary.ReservedPrefix + "birth"
)

var (
	saveInterval  time.Duration
	saveOnDestroy = true
)

// Entity is a character, object, room, account or socket of the world.
//
// Game specific state lives in auxiliaries attached to the entity.
type Entity struct {
	ID         common.EntityID
	Kind       auxiliary.Kind
	Name       string
	Prototypes string // comma separated prototypes the entity is instanced from
	Birth      time.Time

	destroyed bool
	kindDesc  *KindDesc
	aux       *auxiliary.Table
	rawTimers map[*timer.Timer]struct{}
}

func (e *Entity) String() string {
	return fmt.Sprintf("%s<%s>", e.Kind, e.ID)
}

func (e *Entity) init(kind auxiliary.Kind, entityID common.EntityID) {
	e.ID = entityID
	e.Kind = kind
	e.kindDesc = GetKindDesc(kind)
	e.rawTimers = map[*timer.Timer]struct{}{}
}

// AuxKind returns the kind auxiliaries are attached by
func (e *Entity) AuxKind() auxiliary.Kind {
	return e.Kind
}

// Auxiliaries returns the auxiliary table of the entity
func (e *Entity) Auxiliaries() *auxiliary.Table {
	return e.aux
}

// SetAuxiliaries replaces the auxiliary table of the entity
func (e *Entity) SetAuxiliaries(t *auxiliary.Table) {
	e.aux = t
}

// Aux returns the named auxiliary data, or nil if it does not apply to the entity kind
func (e *Entity) Aux(name string) auxiliary.Data {
	return auxiliary.Default().Aux(e, name)
}

// Destroy destroys the entity, releasing all its auxiliaries
func (e *Entity) Destroy() {
	if e.destroyed {
		return
	}
	gwlog.Debugf("%s.Destroy ...", e)
	e.clearRawTimers()
	e.rawTimers = nil // prohibit further use

	e.kindDesc.runDestroyHooks(e)
	if saveOnDestroy {
		e.Save()
	}
	auxiliary.Default().Release(e)

	e.destroyed = true
	entityManager.del(e)
}

// IsDestroyed returns if the entity is destroyed
func (e *Entity) IsDestroyed() bool {
	return e.destroyed
}

// IsPersistent returns if the entity is saved to storage
func (e *Entity) IsPersistent() bool {
	return e.kindDesc.IsPersistent
}

// Save the entity
func (e *Entity) Save() {
	if !e.IsPersistent() {
		return
	}

	if consts.DEBUG_SAVE_LOAD {
		gwlog.Debugf("SAVING %s ...", e)
	}

	storage.Save(e.kindDesc.Name, e.ID, e.Store(), nil)
}

// Store serializes core fields and all auxiliaries of the entity into a new Set
func (e *Entity) Store() *storageset.Set {
	root := auxiliary.Default().Persist(e)
	root.StoreString(KeyID, string(e.ID))
	root.StoreString(KeyKind, e.kindDesc.Name)
	root.StoreString(KeyName, e.Name)
	root.StoreString(KeyPrototypes, e.Prototypes)
	root.StoreLong(KeyBirth, e.Birth.Unix())
	return root
}

func (e *Entity) readCoreFields(root *storageset.Set) {
	if kindName := root.ReadString(KeyKind); kindName != "" && kindName != e.kindDesc.Name {
		gwlog.Warnf("%s: restoring from data of kind %s", e, kindName)
	}
	e.Name = root.ReadString(KeyName)
	e.Prototypes = root.ReadString(KeyPrototypes)
	if root.Contains(KeyBirth) {
		e.Birth = time.Unix(root.ReadLong(KeyBirth), 0)
	} else {
		e.Birth = time.Now()
	}
}

// Copy creates a new entity of the same kind with copies of all fields and auxiliaries
func (e *Entity) Copy() *Entity {
	cp := newEntity(e.Kind, "")
	cp.Name = e.Name
	cp.Prototypes = e.Prototypes
	cp.Birth = time.Now()
	auxiliary.Default().Clone(e, cp)
	entityManager.put(cp)
	cp.Save()
	cp.onReady()
	cp.kindDesc.runCreatedHooks(cp)
	return cp
}

// CopyTo overwrites fields and auxiliaries of dst with those of e, keeping dst's identity
func (e *Entity) CopyTo(dst *Entity) {
	if e.Kind != dst.Kind {
		gwlog.Panicf("%s.CopyTo(%s): kind mismatch", e, dst)
	}
	dst.Name = e.Name
	dst.Prototypes = e.Prototypes
	auxiliary.Default().CopyFields(e, dst)
}

func (e *Entity) onReady() {
	if e.IsPersistent() && saveInterval > 0 { // startup the periodical timer for saving e
		e.setupSaveTimer()
	}
}

func (e *Entity) setupSaveTimer() {
	e.addRawTimer(saveInterval, e.Save)
}

// SetSaveInterval sets the save interval for entity system
//
// It applies to entities created or loaded afterwards.
func SetSaveInterval(duration time.Duration) {
	saveInterval = duration
	gwlog.Infof("Save interval set to %s", saveInterval)
}

// SetSaveOnDestroy sets whether persistent entities are saved when destroyed
func SetSaveOnDestroy(save bool) {
	saveOnDestroy = save
}

// SaveOnDestroy returns whether persistent entities are saved when destroyed
func SaveOnDestroy() bool {
	return saveOnDestroy
}

func (e *Entity) addRawTimer(d time.Duration, cb timer.CallbackFunc) *timer.Timer {
	t := timer.AddTimer(d, cb)
	e.rawTimers[t] = struct{}{}
	return t
}

func (e *Entity) clearRawTimers() {
	for t := range e.rawTimers {
		t.Cancel()
	}
	e.rawTimers = map[*timer.Timer]struct{}{}
}
