package auxiliary

import (
	"strings"

	"github.com/pkg/errors"
)

// Kind is a bitmask of entity kinds an auxiliary applies to
type Kind uint8

// Entity kinds
const (
	Character Kind = 1 << iota
	Object
	Room
	Account
	Socket

	// AllKinds matches every entity kind
	AllKinds = Character | Object | Room | Account | Socket
)

var kindNames = []struct {
	kind Kind
	name string
}{
	{Character, "character"},
	{Object, "object"},
	{Room, "room"},
	{Account, "account"},
	{Socket, "socket"},
}

// Has returns if every kind in other is also in k
func (k Kind) Has(other Kind) bool {
	return other != 0 && k&other == other
}

// Kinds splits k into single kinds
func (k Kind) Kinds() []Kind {
	var kinds []Kind
	for _, kn := range kindNames {
		if k&kn.kind != 0 {
			kinds = append(kinds, kn.kind)
		}
	}
	return kinds
}

func (k Kind) String() string {
	if k == 0 {
		return "none"
	}
	var names []string
	for _, kn := range kindNames {
		if k&kn.kind != 0 {
			names = append(names, kn.name)
		}
	}
	return strings.Join(names, "|")
}

// ParseKind parses kind names like "character" or "object|room"
func ParseKind(s string) (Kind, error) {
	var k Kind
	for _, part := range strings.Split(s, "|") {
		part = strings.ToLower(strings.TrimSpace(part))
		found := false
		for _, kn := range kindNames {
			if kn.name == part {
				k |= kn.kind
				found = true
				break
			}
		}
		if !found {
			return 0, errors.Errorf("auxiliary: unknown entity kind %q", part)
		}
	}
	return k, nil
}
