package entity

import (
	"github.com/kasanryukin/nesiadmud/engine/gwutils"
)

// Hooks are callbacks external modules register to follow the life of entities of a kind.
//
// Any of the callbacks can be nil.
type Hooks struct {
	// OnCreated is called after a new entity got its default auxiliaries, or after it was copied
	OnCreated func(e *Entity)
	// OnRestored is called after an entity is restored from saved data
	OnRestored func(e *Entity)
	// OnDestroy is called before the auxiliaries of the entity are released
	OnDestroy func(e *Entity)
}

func (desc *KindDesc) runCreatedHooks(e *Entity) {
	for _, h := range desc.hooks {
		if h.OnCreated != nil {
			gwutils.RunPanicless(func() { h.OnCreated(e) })
		}
	}
}

func (desc *KindDesc) runRestoredHooks(e *Entity) {
	for _, h := range desc.hooks {
		if h.OnRestored != nil {
			gwutils.RunPanicless(func() { h.OnRestored(e) })
		}
	}
}

func (desc *KindDesc) runDestroyHooks(e *Entity) {
	for _, h := range desc.hooks {
		if h.OnDestroy != nil {
			gwutils.RunPanicless(func() { h.OnDestroy(e) })
		}
	}
}
