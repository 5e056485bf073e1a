package auxiliary

import (
	"github.com/kasanryukin/nesiadmud/engine/consts"
	"github.com/kasanryukin/nesiadmud/engine/gwlog"
	"github.com/pkg/errors"
)

// ReservedPrefix starts the top level keys entities use for their own fields
const ReservedPrefix = "_"

var (
	// ErrDuplicateName is returned when installing an auxiliary whose name is already installed
	ErrDuplicateName = errors.New("auxiliary: duplicate auxiliary name")
	// ErrReservedName is returned when installing an auxiliary named with the reserved prefix
	ErrReservedName = errors.New("auxiliary: reserved auxiliary name")
	// ErrInvalidDescriptor is returned when installing an incomplete descriptor
	ErrInvalidDescriptor = errors.New("auxiliary: invalid descriptor")
)

// Registry holds all installed auxiliary descriptors
type Registry struct {
	descs   map[string]*Descriptor
	ordered []*Descriptor
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		descs: map[string]*Descriptor{},
	}
}

// Install adds a new auxiliary type
func (r *Registry) Install(desc Descriptor) error {
	if err := desc.validate(); err != nil {
		return err
	}
	if _, ok := r.descs[desc.Name]; ok {
		return errors.Wrapf(ErrDuplicateName, "%s", desc.Name)
	}

	d := &desc
	r.descs[d.Name] = d
	r.ordered = append(r.ordered, d)
	if consts.DEBUG_AUXILIARY {
		gwlog.Debugf("auxiliary: installed %s", d)
	}
	return nil
}

// MustInstall installs the auxiliary and panics on failure
func (r *Registry) MustInstall(desc Descriptor) {
	if err := r.Install(desc); err != nil {
		gwlog.Panicf("MustInstall %s failed: %v", desc.Name, err)
	}
}

// Lookup returns the descriptor installed as name
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	desc, ok := r.descs[name]
	return desc, ok
}

// DescriptorsFor returns descriptors applicable to kind, in installation order
func (r *Registry) DescriptorsFor(kind Kind) []*Descriptor {
	descs := make([]*Descriptor, 0, len(r.ordered))
	for _, desc := range r.ordered {
		if desc.AppliesTo(kind) {
			descs = append(descs, desc)
		}
	}
	return descs
}

// Names returns names of all installed auxiliaries in installation order
func (r *Registry) Names() []string {
	names := make([]string, len(r.ordered))
	for i, desc := range r.ordered {
		names[i] = desc.Name
	}
	return names
}

// Len returns the number of installed auxiliaries
func (r *Registry) Len() int {
	return len(r.ordered)
}

var defaultRegistry *Registry

// Initialize creates the process registry. It must be called before any auxiliary is installed.
func Initialize() *Registry {
	if defaultRegistry != nil {
		gwlog.Panicf("auxiliary registry already initialized")
	}
	defaultRegistry = NewRegistry()
	return defaultRegistry
}

// Default returns the process registry
func Default() *Registry {
	if defaultRegistry == nil {
		gwlog.Panicf("auxiliary registry is not initialized")
	}
	return defaultRegistry
}

// Teardown discards the process registry
func Teardown() {
	defaultRegistry = nil
}

// Install installs the auxiliary to the process registry
func Install(desc Descriptor) error {
	return Default().Install(desc)
}
