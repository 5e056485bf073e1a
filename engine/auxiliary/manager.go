package auxiliary

import (
	"github.com/kasanryukin/nesiadmud/engine/gwlog"
	"github.com/kasanryukin/nesiadmud/engine/storageset"
)

// Holder is an entity carrying auxiliary data
type Holder interface {
	AuxKind() Kind
	Auxiliaries() *Table
	SetAuxiliaries(t *Table)
}

// AttachDefaults attaches default instances of all applicable auxiliaries to h.
//
// It is called once when the entity is constructed.
func (r *Registry) AttachDefaults(h Holder) {
	if h.Auxiliaries() != nil {
		gwlog.Panicf("AttachDefaults: %v already has auxiliaries", h)
	}
	h.SetAuxiliaries(NewTable(r, h.AuxKind()))
}

// Restore attaches auxiliaries restored from root to h, replacing any attached ones
func (r *Registry) Restore(h Holder, root *storageset.Set) {
	if old := h.Auxiliaries(); old != nil {
		old.Release()
	}
	h.SetAuxiliaries(ReadTable(r, h.AuxKind(), root))
}

// Persist serializes all auxiliaries of h into a new Set
func (r *Registry) Persist(h Holder) *storageset.Set {
	t := h.Auxiliaries()
	if t == nil {
		return storageset.New()
	}
	return t.Store()
}

// Clone attaches copies of every auxiliary of src to dst, replacing those of dst
func (r *Registry) Clone(src, dst Holder) {
	if src.AuxKind() != dst.AuxKind() {
		gwlog.Panicf("Clone: kind mismatch %s != %s", src.AuxKind(), dst.AuxKind())
	}
	if old := dst.Auxiliaries(); old != nil {
		old.Release()
	}
	t := src.Auxiliaries()
	if t == nil {
		dst.SetAuxiliaries(NewTable(r, dst.AuxKind()))
		return
	}
	dst.SetAuxiliaries(t.Copy())
}

// CopyFields copies every auxiliary of src into the same named auxiliary of dst, in place
func (r *Registry) CopyFields(src, dst Holder) {
	from, to := src.Auxiliaries(), dst.Auxiliaries()
	if from == nil || to == nil {
		return
	}
	from.CopyTo(to)
}

// Aux returns the named auxiliary of h, or nil if it is not attached
func (r *Registry) Aux(h Holder, name string) Data {
	t := h.Auxiliaries()
	if t == nil {
		return nil
	}
	return t.Get(name)
}

// Release releases all auxiliaries of h
func (r *Registry) Release(h Holder) {
	if t := h.Auxiliaries(); t != nil {
		t.Release()
	}
}
