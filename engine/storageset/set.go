package storageset

import (
	"fmt"
	"math"
	"strings"

	"github.com/kasanryukin/nesiadmud/engine/gwlog"
	"github.com/petar/GoLLRB/llrb"
	"github.com/xiaonanln/typeconv"
)

type setEntry struct {
	key string
	val Value
}

func (e *setEntry) Less(than llrb.Item) bool {
	return e.key < than.(*setEntry).key
}

// Set is a hierarchical container of typed values indexed by string keys.
//
// A Set owns every nested Set and List stored in it. Keys are kept ordered so that
// iteration and encoding are deterministic.
type Set struct {
	parent  interface{} // *Set or *List owning this set, nil for roots
	entries *llrb.LLRB
	closed  bool
}

// New creates a new empty Set
func New() *Set {
	return &Set{
		entries: llrb.New(),
	}
}

// Len returns the number of keys in the Set
func (s *Set) Len() int {
	if s.entries == nil {
		return 0
	}
	return s.entries.Len()
}

// Contains returns if the key exists in the Set
func (s *Set) Contains(key string) bool {
	return s.Get(key) != nil
}

// Get returns the value stored at key, or nil
func (s *Set) Get(key string) Value {
	if s.entries == nil {
		return nil
	}
	item := s.entries.Get(&setEntry{key: key})
	if item == nil {
		return nil
	}
	return item.(*setEntry).val
}

// Keys returns all keys in ascending order
func (s *Set) Keys() []string {
	keys := make([]string, 0, s.Len())
	s.ForEach(func(key string, _ Value) {
		keys = append(keys, key)
	})
	return keys
}

// ForEach calls f on all items in ascending key order
//
// f must not modify the Set
func (s *Set) ForEach(f func(key string, val Value)) {
	if s.entries == nil {
		return
	}
	// keys are never empty, so "" sorts before every stored key
	s.entries.AscendGreaterOrEqual(&setEntry{key: ""}, func(item llrb.Item) bool {
		e := item.(*setEntry)
		f(e.key, e.val)
		return true
	})
}

// Store sets the value at key, replacing (and closing) any previous value
func (s *Set) Store(key string, val Value) {
	if s.closed {
		gwlog.Panicf("storageset: store %s into closed set", key)
	}
	if key == "" {
		gwlog.Panicf("storageset: empty key")
	}
	if s.entries == nil {
		s.entries = llrb.New()
	}

	switch sv := val.(type) {
	case nil:
		gwlog.Panicf("storageset: nil value at key %s", key)
	case *Set:
		if sv.closed {
			gwlog.Panicf("storageset: closed Set stored in key %s", key)
		}
		if sv.parent != nil {
			gwlog.Panicf("storageset: Set reused in key %s", key)
		}
		if sv == s || isDescendant(s, sv) {
			gwlog.Panicf("storageset: Set stored into itself in key %s", key)
		}
		sv.parent = s
	case *List:
		if sv.closed {
			gwlog.Panicf("storageset: closed List stored in key %s", key)
		}
		if sv.parent != nil {
			gwlog.Panicf("storageset: List reused in key %s", key)
		}
		if isDescendant(s, sv) {
			gwlog.Panicf("storageset: List stored into its own element in key %s", key)
		}
		sv.parent = s
	}

	old := s.entries.ReplaceOrInsert(&setEntry{key: key, val: val})
	if old != nil {
		releaseValue(old.(*setEntry).val)
	}
}

// StoreString stores a string value at key
func (s *Set) StoreString(key string, v string) {
	s.Store(key, String(v))
}

// StoreInt stores an integer value at key
func (s *Set) StoreInt(key string, v int64) {
	s.Store(key, Int(v))
}

// StoreLong stores an integer value at key. It is the same variant as StoreInt.
func (s *Set) StoreLong(key string, v int64) {
	s.Store(key, Int(v))
}

// StoreDouble stores a floating point value at key
func (s *Set) StoreDouble(key string, v float64) {
	s.Store(key, Double(v))
}

// StoreBool stores a boolean value at key
func (s *Set) StoreBool(key string, v bool) {
	s.Store(key, Bool(v))
}

// StoreSet moves the nested Set into s at key. The caller must not use nested afterwards
// except through s.
func (s *Set) StoreSet(key string, nested *Set) {
	if nested == nil {
		nested = New()
	}
	s.Store(key, nested)
}

// StoreList moves the List into s at key
func (s *Set) StoreList(key string, list *List) {
	if list == nil {
		list = NewList()
	}
	s.Store(key, list)
}

// ReadString returns the string at key, or "" if absent or not a string
func (s *Set) ReadString(key string) string {
	if v, ok := s.Get(key).(String); ok {
		return string(v)
	}
	return ""
}

// ReadInt returns the integer at key, or 0 if absent or not an integer
func (s *Set) ReadInt(key string) int64 {
	if v, ok := s.Get(key).(Int); ok {
		return int64(v)
	}
	return 0
}

// ReadLong is the same as ReadInt
func (s *Set) ReadLong(key string) int64 {
	return s.ReadInt(key)
}

// ReadDouble returns the floating point value at key, or 0 if absent or not a double
func (s *Set) ReadDouble(key string) float64 {
	if v, ok := s.Get(key).(Double); ok {
		return float64(v)
	}
	return 0
}

// ReadBool returns the boolean at key, or false if absent or not a bool
func (s *Set) ReadBool(key string) bool {
	if v, ok := s.Get(key).(Bool); ok {
		return bool(v)
	}
	return false
}

// ReadSet returns the nested Set at key. If the key is absent or holds another variant,
// a new detached empty Set is returned and s is not modified.
//
// The returned Set is still owned by s.
func (s *Set) ReadSet(key string) *Set {
	if v, ok := s.Get(key).(*Set); ok {
		return v
	}
	return New()
}

// ReadList returns the List at key, or a new detached empty List
func (s *Set) ReadList(key string) *List {
	if v, ok := s.Get(key).(*List); ok {
		return v
	}
	return NewList()
}

// Delete removes the key from s and closes the removed value
func (s *Set) Delete(key string) {
	if s.entries == nil {
		return
	}
	old := s.entries.Delete(&setEntry{key: key})
	if old != nil {
		releaseValue(old.(*setEntry).val)
	}
}

// Close releases s and every nested Set and List it owns.
//
// Only roots may be closed; nested values are released together with their owner.
func (s *Set) Close() {
	if s.parent != nil {
		gwlog.Panicf("storageset: closing a Set owned by %T", s.parent)
	}
	s.release()
}

func (s *Set) release() {
	if s.closed {
		return
	}
	s.ForEach(func(_ string, val Value) {
		releaseValue(val)
	})
	s.entries = nil
	s.parent = nil
	s.closed = true
}

func releaseValue(val Value) {
	switch sv := val.(type) {
	case *Set:
		sv.release()
	case *List:
		sv.release()
	}
}

// Copy returns a deep copy of s which has no owner
func (s *Set) Copy() *Set {
	cp := New()
	s.ForEach(func(key string, val Value) {
		cp.Store(key, copyValue(val))
	})
	return cp
}

func copyValue(val Value) Value {
	switch sv := val.(type) {
	case *Set:
		return sv.Copy()
	case *List:
		return sv.Copy()
	default:
		return val
	}
}

// Equal returns if s and other hold the same keys with structurally equal values
func (s *Set) Equal(other *Set) bool {
	if other == nil {
		return false
	}
	if s.Len() != other.Len() {
		return false
	}
	equal := true
	s.ForEach(func(key string, val Value) {
		if equal && !valueEqual(val, other.Get(key)) {
			equal = false
		}
	})
	return equal
}

func valueEqual(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case *Set:
		return av.Equal(b.(*Set))
	case *List:
		return av.Equal(b.(*List))
	case Double:
		return math.Float64bits(float64(av)) == math.Float64bits(float64(b.(Double)))
	default:
		return a == b
	}
}

// isDescendant reports whether node lies inside the tree rooted at ancestor
func isDescendant(node interface{}, ancestor interface{}) bool {
	for node != nil {
		if node == ancestor {
			return true
		}
		switch n := node.(type) {
		case *Set:
			node = n.parent
		case *List:
			if n.parent == nil {
				return false
			}
			node = n.parent
		default:
			return false
		}
	}
	return false
}

// String converts Set to readable string
func (s *Set) String() string {
	var sb strings.Builder
	sb.WriteString("Set{")
	isFirstField := true
	s.ForEach(func(key string, val Value) {
		if !isFirstField {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%#v: ", key)
		writeValueString(&sb, val)
		isFirstField = false
	})
	sb.WriteString("}")
	return sb.String()
}

func writeValueString(sb *strings.Builder, val Value) {
	switch sv := val.(type) {
	case *Set:
		sb.WriteString(sv.String())
	case *List:
		sb.WriteString(sv.String())
	case String:
		fmt.Fprintf(sb, "%#v", string(sv))
	case Int:
		fmt.Fprintf(sb, "%d", int64(sv))
	case Double:
		fmt.Fprintf(sb, "%v", float64(sv))
	case Bool:
		fmt.Fprintf(sb, "%v", bool(sv))
	}
}

// ToMap converts Set to native map, recursively
func (s *Set) ToMap() map[string]interface{} {
	doc := make(map[string]interface{}, s.Len())
	s.ForEach(func(key string, val Value) {
		doc[key] = toNative(val)
	})
	return doc
}

func toNative(val Value) interface{} {
	switch sv := val.(type) {
	case *Set:
		return sv.ToMap()
	case *List:
		return sv.ToList()
	case String:
		return string(sv)
	case Int:
		return int64(sv)
	case Double:
		return float64(sv)
	case Bool:
		return bool(sv)
	}
	return nil
}

// AssignMap assigns native map to Set recursively.
//
// Integers of any width become Int, floats become Double, maps become nested Sets and
// slices of maps become Lists. Values of other types are skipped.
func (s *Set) AssignMap(doc map[string]interface{}) {
	for k, v := range doc {
		if k == "" {
			gwlog.Warnf("storageset: AssignMap skips empty key")
			continue
		}
		val := fromNative(v)
		if val == nil {
			gwlog.Warnf("storageset: AssignMap skips key %s of type %T", k, v)
			continue
		}
		s.Store(k, val)
	}
}

func fromNative(v interface{}) Value {
	switch iv := v.(type) {
	case string:
		return String(iv)
	case bool:
		return Bool(iv)
	case float32:
		return Double(float64(iv))
	case float64:
		return Double(iv)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Int(typeconv.Int(v))
	case map[string]interface{}:
		nested := New()
		nested.AssignMap(iv)
		return nested
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(iv))
		for mk, mv := range iv {
			m[fmt.Sprint(mk)] = mv
		}
		nested := New()
		nested.AssignMap(m)
		return nested
	case []interface{}:
		list := NewList()
		list.AssignList(iv)
		return list
	}
	return nil
}
