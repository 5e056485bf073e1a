package storageset

// ValueKind identifies which variant a Value holds
type ValueKind int

// Value kinds
const (
	KindString ValueKind = iota + 1
	KindInt
	KindDouble
	KindBool
	KindSet
	KindList
)

var valueKindNames = map[ValueKind]string{
	KindString: "string",
	KindInt:    "int",
	KindDouble: "double",
	KindBool:   "bool",
	KindSet:    "set",
	KindList:   "list",
}

func (k ValueKind) String() string {
	if name, ok := valueKindNames[k]; ok {
		return name
	}
	return "unknown"
}

func parseValueKind(s string) (ValueKind, bool) {
	for k, name := range valueKindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Value is a value stored in a Set.
//
// The set of implementations is closed: String, Int, Double, Bool, *Set and *List.
type Value interface {
	Kind() ValueKind
	storageValue()
}

// String is the string variant of Value
type String string

// Int is the integer variant of Value
type Int int64

// Double is the floating point variant of Value
type Double float64

// Bool is the boolean variant of Value
type Bool bool

// Kind returns KindString
func (String) Kind() ValueKind { return KindString }

// Kind returns KindInt
func (Int) Kind() ValueKind { return KindInt }

// Kind returns KindDouble
func (Double) Kind() ValueKind { return KindDouble }

// Kind returns KindBool
func (Bool) Kind() ValueKind { return KindBool }

// Kind returns KindSet
func (s *Set) Kind() ValueKind { return KindSet }

// Kind returns KindList
func (l *List) Kind() ValueKind { return KindList }

func (String) storageValue() {}
func (Int) storageValue()    {}
func (Double) storageValue() {}
func (Bool) storageValue()   {}
func (s *Set) storageValue() {}
func (l *List) storageValue() {}
