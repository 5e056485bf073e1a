package common

import (
	"github.com/google/uuid"
	"github.com/kasanryukin/nesiadmud/engine/gwlog"
)

// ENTITYID_LENGTH is the length of Entity IDs
const ENTITYID_LENGTH = 36

// EntityID type
type EntityID string

// IsNil returns if EntityID is nil
func (id EntityID) IsNil() bool {
	return id == ""
}

// GenEntityID generates a new EntityID
func GenEntityID() EntityID {
	return EntityID(uuid.NewString())
}

// MustEntityID assures a string to be EntityID
func MustEntityID(id string) EntityID {
	if !IsValidEntityID(id) {
		gwlog.Panicf("%s of len %d is not a valid entity ID (len=%d)", id, len(id), ENTITYID_LENGTH)
	}
	return EntityID(id)
}

// IsValidEntityID checks if the string is a well formed entity ID
func IsValidEntityID(id string) bool {
	if len(id) != ENTITYID_LENGTH {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
