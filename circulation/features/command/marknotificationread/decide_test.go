package marknotificationread_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/marknotificationread"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

func Test_Decide(t *testing.T) {
	notificationID, userID := uuid.New(), uuid.New()
	now := time.Now()
	emitted := core.BuildNotificationEmitted(notificationID.String(), userID.String(), core.NotificationDueSoon, "loan-1", nil, now)
	read := core.BuildNotificationRead(notificationID.String(), userID.String(), core.NotificationDueSoon, "loan-1", now)

	t.Run("unread becomes read", func(t *testing.T) {
		result := marknotificationread.Decide(core.DomainEvents{emitted}, marknotificationread.BuildCommand(notificationID, userID, now))

		require.Len(t, result.Events, 1)
		event, ok := result.Events[0].(core.NotificationRead)
		require.True(t, ok)
		assert.Equal(t, "loan-1", event.DedupKey)
	})

	t.Run("already read", func(t *testing.T) {
		result := marknotificationread.Decide(core.DomainEvents{emitted, read}, marknotificationread.BuildCommand(notificationID, userID, now))

		assert.True(t, result.IsIdempotent())
	})

	t.Run("another user's notification", func(t *testing.T) {
		result := marknotificationread.Decide(core.DomainEvents{emitted}, marknotificationread.BuildCommand(notificationID, uuid.New(), now))

		assert.ErrorIs(t, result.HasError(), core.ErrNotificationNotFound)
	})
}
