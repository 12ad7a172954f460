package emitnotification_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/emitnotification"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

func Test_Decide(t *testing.T) {
	userID := uuid.New()
	now := time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC)
	dedupKey := "hold-1|2025-06-04T10:00:00Z"
	existing := core.BuildNotificationEmitted("n-1", userID.String(), core.NotificationHoldReady, dedupKey, nil, now)
	resolved := core.BuildNotificationResolved("n-1", userID.String(), core.NotificationHoldReady, dedupKey, now)

	command := func(mode emitnotification.Mode) emitnotification.Command {
		return emitnotification.BuildCommand(uuid.New(), userID, core.NotificationHoldReady, dedupKey, map[string]string{"hold_id": "hold-1"}, mode, now)
	}

	testCases := []struct {
		description string
		history     core.DomainEvents
		mode        emitnotification.Mode
		emitted     bool
	}{
		{"first emit", core.DomainEvents{}, emitnotification.Standard, true},
		{"unread notification suppresses", core.DomainEvents{existing}, emitnotification.Standard, false},
		{"read notification suppresses", core.DomainEvents{existing, core.BuildNotificationRead("n-1", userID.String(), core.NotificationHoldReady, dedupKey, now)}, emitnotification.Standard, false},
		{"resolved notification allows a new one", core.DomainEvents{existing, resolved}, emitnotification.Standard, true},
		{"once per key ignores resolution", core.DomainEvents{existing, resolved}, emitnotification.OncePerKey, false},
		{"once per key first emit", core.DomainEvents{}, emitnotification.OncePerKey, true},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			result := emitnotification.Decide(tc.history, command(tc.mode))

			require.NoError(t, result.HasError())
			if !tc.emitted {
				assert.True(t, result.IsIdempotent())
				return
			}

			require.Len(t, result.Events, 1)
			emitted, ok := result.Events[0].(core.NotificationEmitted)
			require.True(t, ok)
			assert.Equal(t, dedupKey, emitted.DedupKey)
			assert.Equal(t, "hold-1", emitted.Metadata["hold_id"])
		})
	}

	t.Run("dedup key is required", func(t *testing.T) {
		c := command(emitnotification.Standard)
		c.DedupKey = ""

		assert.ErrorIs(t, emitnotification.Decide(core.DomainEvents{}, c).HasError(), core.ErrInvalidPayload)
	})
}
