package auxiliary

import (
	"strings"

	"github.com/kasanryukin/nesiadmud/engine/storageset"
	"github.com/pkg/errors"
)

// Data is the per-entity instance of an auxiliary
type Data interface {
	// Store serializes the instance into a new unowned Set
	Store() *storageset.Set
	// Copy returns an independent copy of the instance
	Copy() Data
	// CopyTo overwrites to with the content of the instance. to was created by the same descriptor.
	CopyTo(to Data)
}

// Releaser is implemented by Data which hold resources to release when the entity is destroyed
type Releaser interface {
	Release()
}

// Descriptor describes an auxiliary type
type Descriptor struct {
	// Name is the globally unique auxiliary name, also used as the key in persisted entities
	Name string
	// Kinds are the entity kinds the auxiliary is attached to
	Kinds Kind
	// New creates a default instance
	New func() Data
	// Read restores an instance from set. set is owned by the caller and must not be retained.
	Read func(set *storageset.Set) (Data, error)
}

// AppliesTo returns if the auxiliary attaches to entities of kind
func (desc *Descriptor) AppliesTo(kind Kind) bool {
	return desc.Kinds.Has(kind)
}

func (desc *Descriptor) String() string {
	return "Auxiliary<" + desc.Name + ":" + desc.Kinds.String() + ">"
}

func (desc *Descriptor) validate() error {
	if desc.Name == "" {
		return errors.Wrap(ErrInvalidDescriptor, "empty name")
	}
	if strings.HasPrefix(desc.Name, ReservedPrefix) {
		return errors.Wrapf(ErrReservedName, "%s", desc.Name)
	}
	if desc.Kinds == 0 || desc.Kinds&^AllKinds != 0 {
		return errors.Wrapf(ErrInvalidDescriptor, "%s: invalid kinds %d", desc.Name, desc.Kinds)
	}
	if desc.New == nil || desc.Read == nil {
		return errors.Wrapf(ErrInvalidDescriptor, "%s: New and Read are required", desc.Name)
	}
	return nil
}
