// Package registeruser implements the Register User use case.
package registeruser

import (
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/ledger"
)

// Decide registers the user unless the id is taken.
//
//	GIVEN: a UserID that is not registered
//	WHEN: RegisterUser is received
//	THEN: UserRegistered is generated
//	IDEMPOTENCY: the same user with the same name and role is already registered
//	ERROR: user_exists if the id is registered with other attributes
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	users := ledger.ProjectUsers(history)

	if existing, ok := users[command.UserID.String()]; ok {
		if existing.Name == command.Name && existing.Role == command.Role {
			return core.IdempotentDecision()
		}

		return core.RejectedDecision(core.ErrUserExists)
	}

	return core.SuccessDecision(
		core.BuildUserRegistered(command.UserID.String(), command.Name, command.Role, command.OccurredAt),
	)
}
