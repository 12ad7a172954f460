package expirereadyholds_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/expirereadyholds"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

func Test_Decide_ExpiresLapsedHold_AndPromotesOnlyTheNextOne(t *testing.T) {
	// arrange
	itemID, copyID := uuid.New(), uuid.New()
	promotedAt := time.Date(2025, 5, 5, 12, 0, 0, 0, time.UTC)
	expiresAt := promotedAt.Add(72 * time.Hour)

	history := core.DomainEvents{
		core.BuildItemAddedToCatalog(itemID.String(), "Dune", "Frank Herbert", promotedAt),
		core.BuildHoldPlaced("first", itemID.String(), "u1", promotedAt),
		core.BuildHoldPlaced("second", itemID.String(), "u2", promotedAt),
		core.BuildHoldPlaced("third", itemID.String(), "u3", promotedAt),
		core.BuildCopyAddedToCirculation(copyID.String(), itemID.String(), promotedAt),
		core.BuildHoldPromoted("first", itemID.String(), "u1", copyID.String(), promotedAt, expiresAt),
	}

	// act
	result := expirereadyholds.Decide(history, expirereadyholds.BuildCommand(itemID, expiresAt), core.DefaultPolicy())

	// assert
	require.Len(t, result.Events, 2)
	expired, ok := result.Events[0].(core.HoldExpired)
	require.True(t, ok)
	assert.Equal(t, "first", expired.HoldID)
	promoted, ok := result.Events[1].(core.HoldPromoted)
	require.True(t, ok)
	assert.Equal(t, "second", promoted.HoldID)
	assert.Equal(t, copyID.String(), promoted.CopyID)
	assert.True(t, promoted.ExpiresAt.Equal(expiresAt.Add(72*time.Hour)))
}

func Test_Decide_Idempotent_BeforeExpiry(t *testing.T) {
	itemID, copyID := uuid.New(), uuid.New()
	now := time.Now()

	history := core.DomainEvents{
		core.BuildItemAddedToCatalog(itemID.String(), "Dune", "Frank Herbert", now),
		core.BuildHoldPlaced("first", itemID.String(), "u1", now),
		core.BuildCopyAddedToCirculation(copyID.String(), itemID.String(), now),
		core.BuildHoldPromoted("first", itemID.String(), "u1", copyID.String(), now, now.Add(72*time.Hour)),
	}

	result := expirereadyholds.Decide(history, expirereadyholds.BuildCommand(itemID, now.Add(71*time.Hour)), core.DefaultPolicy())

	assert.True(t, result.IsIdempotent())
}
