// Package auth verifies bearer tokens and maps roles to the capabilities the endpoints require.
package auth

import (
	"slices"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

// Capability is one permission an endpoint can demand.
type Capability string

const (
	CapBorrow      Capability = "borrow"       // check out, hold and pay for oneself
	CapReserve     Capability = "reserve"      // book study rooms
	CapCirculate   Capability = "circulate"    // check out and return on behalf of others
	CapViewAny     Capability = "view_any"     // read other users' loans and queues
	CapManageRooms Capability = "manage_rooms" // register, update, remove rooms and cancel any reservation
	CapWaiveFines  Capability = "waive_fines"
	CapAdminister  Capability = "administer" // users, catalog, copies, sweeps
)

var capabilities = map[core.Role][]Capability{
	core.RolePatron:   {CapBorrow, CapReserve},
	core.RoleEmployee: {CapBorrow, CapReserve, CapCirculate, CapViewAny, CapManageRooms, CapWaiveFines},
	core.RoleAdmin:    {CapBorrow, CapReserve, CapCirculate, CapViewAny, CapManageRooms, CapWaiveFines, CapAdminister},
}

// CapabilitiesOf returns the capability set of a role. Unknown roles have none.
func CapabilitiesOf(role core.Role) []Capability {
	return slices.Clone(capabilities[role])
}

// Principal is the authenticated caller.
type Principal struct {
	UserID uuid.UUID
	Role   core.Role
}

// Can reports whether the caller's role grants capability.
func (p Principal) Can(capability Capability) bool {
	return slices.Contains(capabilities[p.Role], capability)
}

// IsStaff reports whether the caller acts for the library rather than for themselves.
func (p Principal) IsStaff() bool {
	return p.Role == core.RoleEmployee || p.Role == core.RoleAdmin
}

// CanActFor reports whether the caller may act on records owned by userID, either as the owner
// or through capability.
func (p Principal) CanActFor(userID uuid.UUID, capability Capability) bool {
	return p.UserID == userID || p.Can(capability)
}
