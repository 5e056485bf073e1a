package auxiliary

import (
	"strings"

	"github.com/kasanryukin/nesiadmud/engine/consts"
	"github.com/kasanryukin/nesiadmud/engine/gwlog"
	"github.com/kasanryukin/nesiadmud/engine/gwutils"
	"github.com/kasanryukin/nesiadmud/engine/storageset"
	"github.com/pkg/errors"
)

// Table holds the auxiliary instances of one entity
type Table struct {
	kind  Kind
	names []string
	data  map[string]Data
	// saved auxiliaries with no installed descriptor, written back on Store
	orphans *storageset.Set
}

func newTable(kind Kind) *Table {
	return &Table{
		kind:    kind,
		data:    map[string]Data{},
		orphans: storageset.New(),
	}
}

func (t *Table) put(name string, d Data) {
	if _, ok := t.data[name]; !ok {
		t.names = append(t.names, name)
	}
	t.data[name] = d
}

// NewTable creates default instances of all auxiliaries installed for kind
func NewTable(r *Registry, kind Kind) *Table {
	t := newTable(kind)
	for _, desc := range r.DescriptorsFor(kind) {
		t.put(desc.Name, newData(desc))
	}
	return t
}

// ReadTable restores auxiliaries for kind from the top level of root.
//
// Auxiliaries missing from root, or failing to restore, are created with default values.
// root is not modified. A nil root is treated as empty.
func ReadTable(r *Registry, kind Kind, root *storageset.Set) *Table {
	t := newTable(kind)
	for _, desc := range r.DescriptorsFor(kind) {
		var val storageset.Value
		if root != nil {
			val = root.Get(desc.Name)
		}
		if val == nil {
			t.put(desc.Name, newData(desc))
			continue
		}

		set, ok := val.(*storageset.Set)
		if !ok {
			gwlog.Warnf("auxiliary %s: saved value is %s instead of set, using defaults", desc.Name, val.Kind())
			t.put(desc.Name, newData(desc))
			continue
		}

		d, err := readData(desc, set)
		if err != nil {
			gwlog.Warnf("auxiliary %s: restore failed, using defaults: %v", desc.Name, err)
			d = newData(desc)
		}
		t.put(desc.Name, d)
	}

	if root != nil {
		root.ForEach(func(key string, val storageset.Value) {
			if strings.HasPrefix(key, ReservedPrefix) {
				return
			}
			if _, ok := t.data[key]; ok {
				return
			}
			if set, ok := val.(*storageset.Set); ok {
				if consts.DEBUG_AUXILIARY {
					gwlog.Debugf("auxiliary %s: no descriptor for %s, keeping saved data", key, kind)
				}
				t.orphans.StoreSet(key, set.Copy())
			}
		})
	}
	return t
}

func newData(desc *Descriptor) Data {
	d := desc.New()
	if d == nil {
		gwlog.Panicf("auxiliary %s: New returned nil", desc.Name)
	}
	return d
}

func readData(desc *Descriptor, set *storageset.Set) (d Data, err error) {
	if perr := gwutils.CatchPanic(func() {
		d, err = desc.Read(set)
	}); perr != nil {
		return nil, perr
	}
	if err == nil && d == nil {
		err = errors.New("Read returned nil")
	}
	return
}

// Kind returns the entity kind the table was created for
func (t *Table) Kind() Kind {
	return t.kind
}

// Get returns the instance of the named auxiliary, or nil
func (t *Table) Get(name string) Data {
	return t.data[name]
}

// Names returns names of attached auxiliaries in installation order
func (t *Table) Names() []string {
	return append([]string(nil), t.names...)
}

// Len returns the number of attached auxiliaries
func (t *Table) Len() int {
	return len(t.names)
}

// Store serializes every instance into a new Set keyed by auxiliary name
func (t *Table) Store() *storageset.Set {
	root := storageset.New()
	t.StoreInto(root)
	return root
}

// StoreInto serializes every instance into root, keyed by auxiliary name
func (t *Table) StoreInto(root *storageset.Set) {
	t.orphans.ForEach(func(key string, val storageset.Value) {
		root.StoreSet(key, val.(*storageset.Set).Copy())
	})
	for _, name := range t.names {
		set := t.data[name].Store()
		if set == nil {
			set = storageset.New()
		}
		root.StoreSet(name, set)
	}
}

// Copy returns an independent table holding copies of every instance
func (t *Table) Copy() *Table {
	cp := newTable(t.kind)
	for _, name := range t.names {
		cp.put(name, t.data[name].Copy())
	}
	cp.orphans = t.orphans.Copy()
	return cp
}

// CopyTo copies every instance into the same named instance of dst
func (t *Table) CopyTo(dst *Table) {
	for _, name := range t.names {
		to, ok := dst.data[name]
		if !ok {
			continue
		}
		t.data[name].CopyTo(to)
	}
	dst.orphans.Close()
	dst.orphans = t.orphans.Copy()
}

// Release releases every instance. The table is empty afterwards.
func (t *Table) Release() {
	for _, name := range t.names {
		if r, ok := t.data[name].(Releaser); ok {
			gwutils.RunPanicless(r.Release)
		}
	}
	t.names = nil
	t.data = map[string]Data{}
	t.orphans.Close()
	t.orphans = storageset.New()
}
