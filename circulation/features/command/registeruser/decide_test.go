package registeruser_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/registeruser"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

func Test_Decide_RegistersNewUser(t *testing.T) {
	command := registeruser.BuildCommand(uuid.New(), "Ada Lovelace", core.RolePatron, time.Now())

	result := registeruser.Decide(core.DomainEvents{}, command)

	assert.Equal(t, "success", result.Outcome)
	assert.Equal(t, core.UserRegisteredEventType, result.Events[0].IsEventType())
}

func Test_Decide_SameRegistrationIsIdempotent(t *testing.T) {
	userID := uuid.New()
	history := core.DomainEvents{core.BuildUserRegistered(userID.String(), "Ada Lovelace", core.RolePatron, time.Now())}

	result := registeruser.Decide(history, registeruser.BuildCommand(userID, "Ada Lovelace", core.RolePatron, time.Now()))

	assert.Equal(t, "idempotent", result.Outcome)
}

func Test_Decide_ConflictingRegistrationIsRejected(t *testing.T) {
	userID := uuid.New()
	history := core.DomainEvents{core.BuildUserRegistered(userID.String(), "Ada Lovelace", core.RolePatron, time.Now())}

	result := registeruser.Decide(history, registeruser.BuildCommand(userID, "Ada", core.RoleAdmin, time.Now()))

	assert.ErrorIs(t, result.HasError(), core.ErrUserExists)
	assert.False(t, result.HasEventsToAppend())
}
