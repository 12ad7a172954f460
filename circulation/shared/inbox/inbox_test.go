package inbox_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/inbox"
)

var now = time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC)

func givenEmitted(notificationID, userID, dedupKey string, at time.Time) core.DomainEvent {
	return core.BuildNotificationEmitted(notificationID, userID, core.NotificationHoldReady, dedupKey, map[string]string{"hold_id": dedupKey}, at)
}

func Test_HasOpen_And_HasAny_DifferOnResolved(t *testing.T) {
	testCases := []struct {
		name    string
		history core.DomainEvents
		hasOpen bool
		hasAny  bool
	}{
		{
			name:    "nothing emitted",
			history: core.DomainEvents{},
		},
		{
			name:    "unread",
			history: core.DomainEvents{givenEmitted("n1", "u1", "h1", now)},
			hasOpen: true,
			hasAny:  true,
		},
		{
			name: "read",
			history: core.DomainEvents{
				givenEmitted("n1", "u1", "h1", now),
				core.BuildNotificationRead("n1", "u1", core.NotificationHoldReady, "h1", now),
			},
			hasOpen: true,
			hasAny:  true,
		},
		{
			name: "resolved",
			history: core.DomainEvents{
				givenEmitted("n1", "u1", "h1", now),
				core.BuildNotificationResolved("n1", "u1", core.NotificationHoldReady, "h1", now),
			},
			hasOpen: false,
			hasAny:  true,
		},
		{
			name:    "other user or key",
			history: core.DomainEvents{givenEmitted("n1", "u2", "h1", now), givenEmitted("n2", "u1", "h2", now)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			i := inbox.Project(tc.history)

			assert.Equal(t, tc.hasOpen, i.HasOpen("u1", core.NotificationHoldReady, "h1"))
			assert.Equal(t, tc.hasAny, i.HasAny("u1", core.NotificationHoldReady, "h1"))
		})
	}
}

func Test_Read_DoesNotReopenResolved(t *testing.T) {
	history := core.DomainEvents{
		givenEmitted("n1", "u1", "h1", now),
		core.BuildNotificationResolved("n1", "u1", core.NotificationHoldReady, "h1", now.Add(time.Minute)),
		core.BuildNotificationRead("n1", "u1", core.NotificationHoldReady, "h1", now.Add(2*time.Minute)),
	}

	n, ok := inbox.Project(history).Notification("n1")

	require.True(t, ok)
	assert.Equal(t, inbox.StatusResolved, n.Status)
	assert.Equal(t, now.Add(time.Minute), n.UpdatedAt)
}

func Test_List_NewestFirstAndFilteredByStatus(t *testing.T) {
	history := core.DomainEvents{
		givenEmitted("n1", "u1", "h1", now),
		givenEmitted("n2", "u1", "h2", now.Add(time.Minute)),
		givenEmitted("n3", "u2", "h3", now.Add(2*time.Minute)),
		core.BuildNotificationRead("n1", "u1", core.NotificationHoldReady, "h1", now.Add(3*time.Minute)),
	}
	i := inbox.Project(history)

	all := i.List("u1", "")
	require.Len(t, all, 2)
	assert.Equal(t, "n2", all[0].NotificationID)
	assert.Equal(t, "n1", all[1].NotificationID)

	read := i.List("u1", inbox.StatusRead)
	require.Len(t, read, 1)
	assert.Equal(t, "n1", read[0].NotificationID)
	assert.Empty(t, i.List("u1", inbox.StatusResolved))
}
