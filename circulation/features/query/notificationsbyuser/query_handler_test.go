package notificationsbyuser_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/notificationsbyuser"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/inbox"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore/memengine"
	"github.com/AntonStoeckl/library-circulation-engine/testutil/circulation/helper"
)

func Test_QueryHandler_Handle(t *testing.T) {
	// arrange
	es := memengine.NewEventStore()
	userID, otherID := helper.GivenUniqueID(t), helper.GivenUniqueID(t)
	user := userID.String()
	now := time.Now()

	helper.GivenEvents(t, es,
		core.BuildNotificationEmitted("n-1", user, core.NotificationDueSoon, "loan-1", nil, now),
		core.BuildNotificationEmitted("n-2", user, core.NotificationHoldReady, "hold-1|t", map[string]string{"title": "Dune"}, now.Add(time.Minute)),
		core.BuildNotificationEmitted("n-3", otherID.String(), core.NotificationOverdue, "loan-9", nil, now),
		core.BuildNotificationRead("n-1", user, core.NotificationDueSoon, "loan-1", now.Add(2*time.Minute)),
	)

	handler := notificationsbyuser.NewQueryHandler(es)

	// act
	all, err := handler.Handle(context.Background(), notificationsbyuser.BuildQuery(userID, ""))
	require.NoError(t, err)
	unread, err := handler.Handle(context.Background(), notificationsbyuser.BuildQuery(userID, inbox.StatusUnread))
	require.NoError(t, err)
	_, invalidErr := handler.Handle(context.Background(), notificationsbyuser.BuildQuery(userID, "archived"))

	// assert
	require.Len(t, all.Notifications, 2)
	assert.Equal(t, "n-2", all.Notifications[0].NotificationID)
	assert.Equal(t, "Dune", all.Notifications[0].Metadata["title"])
	assert.Equal(t, 1, all.Unread)

	require.Len(t, unread.Notifications, 1)
	assert.Equal(t, "n-2", unread.Notifications[0].NotificationID)

	assert.ErrorIs(t, invalidErr, core.ErrInvalidPayload)
}
