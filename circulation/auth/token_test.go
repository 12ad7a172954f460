package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/auth"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/timewindow"
)

func Test_Tokens_IssueAndVerify(t *testing.T) {
	clock := timewindow.NewFixedClock(time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC))
	tokens := auth.NewTokens("secret", time.Hour, clock)
	userID := uuid.New()

	raw, err := tokens.Issue(userID, core.RoleEmployee)
	require.NoError(t, err)

	principal, err := tokens.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, userID, principal.UserID)
	assert.True(t, principal.IsStaff())
	assert.True(t, principal.Can(auth.CapWaiveFines))
	assert.False(t, principal.Can(auth.CapAdminister))

	t.Run("expired", func(t *testing.T) {
		clock.Advance(2 * time.Hour)
		defer clock.Advance(-2 * time.Hour)

		_, err := tokens.Verify(raw)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := auth.NewTokens("other", time.Hour, clock).Verify(raw)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func Test_Principal_Capabilities(t *testing.T) {
	patron := auth.Principal{UserID: uuid.New(), Role: core.RolePatron}
	other := uuid.New()

	assert.True(t, patron.Can(auth.CapBorrow))
	assert.False(t, patron.Can(auth.CapCirculate))
	assert.True(t, patron.CanActFor(patron.UserID, auth.CapCirculate))
	assert.False(t, patron.CanActFor(other, auth.CapCirculate))
	assert.ElementsMatch(t, []auth.Capability{auth.CapBorrow, auth.CapReserve}, auth.CapabilitiesOf(core.RolePatron))
	assert.Empty(t, auth.CapabilitiesOf("guest"))
}
