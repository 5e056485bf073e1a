// Package attributes attaches the eight character attributes and their training points (TDP) to characters.
package attributes

import (
	"math/rand"

	"github.com/kasanryukin/nesiadmud/engine/auxiliary"
	"github.com/kasanryukin/nesiadmud/engine/gwlog"
	"github.com/kasanryukin/nesiadmud/engine/storageset"
	"github.com/pkg/errors"
)

// Name is the auxiliary name of attributes
const Name = "attribute_data"

var (
	// ErrUnknownAttribute is returned when training an attribute that does not exist
	ErrUnknownAttribute = errors.New("unknown attribute")
	// ErrNotEnoughTDP is returned when training costs more TDP than available
	ErrNotEnoughTDP = errors.New("not enough TDP")
)

// Attributes is the attribute data of one character
type Attributes struct {
	values       map[string]int64
	TDPAvailable int64
	TDPSpent     int64
	Initialized  bool // starting values were rolled
}

// New creates attributes at baseline values
func New() *Attributes {
	a := &Attributes{values: make(map[string]int64, len(Names))}
	for _, name := range Names {
		a.values[name] = Baseline
	}
	return a
}

// Get returns the value of the named attribute
func (a *Attributes) Get(name string) (int64, bool) {
	v, ok := a.values[name]
	return v, ok
}

// Set sets the attribute, clamped to its valid range. It returns false for unknown attributes.
func (a *Attributes) Set(name string, value int64) bool {
	if _, ok := a.values[name]; !ok {
		return false
	}
	a.values[name] = Clamp(name, value)
	return true
}

// Modify adds amount to the attribute and returns the new value
func (a *Attributes) Modify(name string, amount int64) int64 {
	v, ok := a.values[name]
	if !ok {
		return 0
	}
	a.Set(name, v+amount)
	return a.values[name]
}

// All returns a copy of all attribute values
func (a *Attributes) All() map[string]int64 {
	all := make(map[string]int64, len(a.values))
	for name, v := range a.values {
		all[name] = v
	}
	return all
}

// AddTDP grants TDP
func (a *Attributes) AddTDP(amount int64) {
	a.TDPAvailable += amount
}

// SpendTDP spends amount TDP if available
func (a *Attributes) SpendTDP(amount int64) bool {
	if a.TDPAvailable < amount {
		return false
	}
	a.TDPAvailable -= amount
	a.TDPSpent += amount
	return true
}

// Train raises the attribute by points, paying for it with TDP. It returns the TDP cost.
func (a *Attributes) Train(name string, points int64) (int64, error) {
	current, ok := a.values[name]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownAttribute, "%s", name)
	}

	cost := TDPCost(current, current+points)
	if !a.SpendTDP(cost) {
		return cost, errors.Wrapf(ErrNotEnoughTDP, "need %d TDP but only have %d", cost, a.TDPAvailable)
	}
	a.Modify(name, points)
	return cost, nil
}

// InitializeForRace rolls starting values around the racial bases and grants the starting TDP.
//
// Attributes missing from bases roll around Baseline.
func (a *Attributes) InitializeForRace(bases map[string]int64, rnd *rand.Rand) {
	for _, name := range Names {
		base, ok := bases[name]
		if !ok {
			base = Baseline
		}
		a.Set(name, base-RacialVariance+rnd.Int63n(2*RacialVariance+1))
	}
	a.TDPAvailable = StartingTDPFor(a.values)
	a.Initialized = true
}

// MaxHP returns the maximum health points derived from the attributes
func (a *Attributes) MaxHP() int64 {
	return MaxHP(a.values["strength"], a.values["discipline"], a.values["stamina"])
}

// Store implements auxiliary.Data
func (a *Attributes) Store() *storageset.Set {
	set := storageset.New()
	for _, name := range Names {
		set.StoreInt(name, a.values[name])
	}
	set.StoreInt("tdp_available", a.TDPAvailable)
	set.StoreInt("tdp_spent", a.TDPSpent)
	set.StoreBool("initialized", a.Initialized)
	return set
}

// Copy implements auxiliary.Data
func (a *Attributes) Copy() auxiliary.Data {
	cp := New()
	a.CopyTo(cp)
	return cp
}

// CopyTo implements auxiliary.Data
func (a *Attributes) CopyTo(to auxiliary.Data) {
	dst := to.(*Attributes)
	for name, v := range a.values {
		dst.values[name] = v
	}
	dst.TDPAvailable = a.TDPAvailable
	dst.TDPSpent = a.TDPSpent
	dst.Initialized = a.Initialized
}

// Read restores attributes from set. Missing attributes keep baseline values.
func Read(set *storageset.Set) (auxiliary.Data, error) {
	a := New()
	for _, name := range Names {
		if set.Contains(name) {
			a.Set(name, set.ReadInt(name))
		}
	}
	a.TDPAvailable = set.ReadInt("tdp_available")
	a.TDPSpent = set.ReadInt("tdp_spent")
	a.Initialized = set.ReadBool("initialized")
	return a, nil
}

// Descriptor describes the attributes auxiliary, attached to characters only
func Descriptor() auxiliary.Descriptor {
	return auxiliary.Descriptor{
		Name:  Name,
		Kinds: auxiliary.Character,
		New: func() auxiliary.Data {
			return New()
		},
		Read: Read,
	}
}

// Install installs the attributes auxiliary to the world
func Install() error {
	if err := auxiliary.Install(Descriptor()); err != nil {
		return err
	}
	gwlog.Infof("Attributes auxiliary installed")
	return nil
}

// Get returns the attributes of the character, or nil for other entity kinds
func Get(h auxiliary.Holder) *Attributes {
	a, _ := auxiliary.Default().Aux(h, Name).(*Attributes)
	return a
}
