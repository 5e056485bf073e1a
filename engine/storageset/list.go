package storageset

import (
	"iter"
	"strings"

	"github.com/kasanryukin/nesiadmud/engine/gwlog"
)

// List is an ordered sequence of Sets, e.g. one Set per piece of mail
type List struct {
	parent *Set
	sets   []*Set
	closed bool
}

// NewList creates a new empty List
func NewList() *List {
	return &List{}
}

// Len returns the number of Sets in the List
func (l *List) Len() int {
	return len(l.sets)
}

// At returns the Set at index i, which is still owned by the List
func (l *List) At(i int) *Set {
	return l.sets[i]
}

// Add moves s to the end of the List
func (l *List) Add(s *Set) {
	if l.closed {
		gwlog.Panicf("storageset: add into closed List")
	}
	if s == nil {
		s = New()
	}
	if s.closed {
		gwlog.Panicf("storageset: closed Set added to List")
	}
	if s.parent != nil {
		gwlog.Panicf("storageset: Set reused in List.Add")
	}
	if isDescendant(l, s) {
		gwlog.Panicf("storageset: Set added into its own List")
	}
	s.parent = l
	l.sets = append(l.sets, s)
}

// Sets returns a sequence over the Sets in insertion order.
//
// The sequence is lazy and can be ranged over any number of times.
func (l *List) Sets() iter.Seq[*Set] {
	return func(yield func(*Set) bool) {
		for _, s := range l.sets {
			if !yield(s) {
				return
			}
		}
	}
}

// Close releases the List and every Set in it. Only unowned Lists may be closed.
func (l *List) Close() {
	if l.parent != nil {
		gwlog.Panicf("storageset: closing a List owned by a Set")
	}
	l.release()
}

func (l *List) release() {
	if l.closed {
		return
	}
	for _, s := range l.sets {
		s.release()
	}
	l.sets = nil
	l.parent = nil
	l.closed = true
}

// Copy returns a deep copy of the List which has no owner
func (l *List) Copy() *List {
	cp := &List{
		sets: make([]*Set, 0, len(l.sets)),
	}
	for _, s := range l.sets {
		cp.Add(s.Copy())
	}
	return cp
}

// Equal returns if both Lists hold structurally equal Sets in the same order
func (l *List) Equal(other *List) bool {
	if other == nil || len(l.sets) != len(other.sets) {
		return false
	}
	for i, s := range l.sets {
		if !s.Equal(other.sets[i]) {
			return false
		}
	}
	return true
}

func (l *List) String() string {
	var sb strings.Builder
	sb.WriteString("List{")
	for i, s := range l.sets {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(s.String())
	}
	sb.WriteString("}")
	return sb.String()
}

// ToList converts List to slice of native maps
func (l *List) ToList() []interface{} {
	items := make([]interface{}, len(l.sets))
	for i, s := range l.sets {
		items[i] = s.ToMap()
	}
	return items
}

// AssignList appends every map in items as a new Set. Non-map items are skipped.
func (l *List) AssignList(items []interface{}) {
	for _, item := range items {
		nested, ok := fromNative(item).(*Set)
		if !ok {
			gwlog.Warnf("storageset: AssignList skips item of type %T", item)
			continue
		}
		l.Add(nested)
	}
}
