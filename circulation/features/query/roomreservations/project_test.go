package roomreservations_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/roomreservations"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/roomschedule"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/timewindow"
)

func Test_ProjectRoomReservations(t *testing.T) {
	roomID := uuid.New()
	room := roomID.String()
	base := time.Date(2025, 6, 4, 15, 0, 0, 0, time.UTC)

	history := core.DomainEvents{
		core.BuildRoomRegistered(room, "Room 3", 6, timewindow.DefaultWeeklyHours(), base.Add(-48*time.Hour)),
		core.BuildReservationCreated("res-late", room, "u1", base.Add(3*time.Hour), base.Add(4*time.Hour), base),
		core.BuildReservationCreated("res-early", room, "u2", base, base.Add(time.Hour), base),
		core.BuildReservationCreated("res-gone", room, "u3", base.Add(5*time.Hour), base.Add(6*time.Hour), base),
		core.BuildReservationCancelled("res-gone", room, "u3", "u3", base.Add(5*time.Hour), base.Add(6*time.Hour), base),
	}
	now := base.Add(2 * time.Hour)

	t.Run("computes completed and hides cancelled", func(t *testing.T) {
		result, ok := roomreservations.ProjectRoomReservations(history, roomreservations.BuildQuery(roomID, false, now))

		require.True(t, ok)
		require.Equal(t, 2, result.Count)
		assert.Equal(t, "res-early", result.Reservations[0].ReservationID)
		assert.Equal(t, roomschedule.ReservationCompleted, result.Reservations[0].Status)
		assert.Equal(t, roomschedule.ReservationActive, result.Reservations[1].Status)
	})

	t.Run("includes cancelled on request", func(t *testing.T) {
		result, ok := roomreservations.ProjectRoomReservations(history, roomreservations.BuildQuery(roomID, true, now))

		require.True(t, ok)
		assert.Equal(t, 3, result.Count)
		assert.Equal(t, roomschedule.ReservationCancelled, result.Reservations[2].Status)
	})

	t.Run("unknown room", func(t *testing.T) {
		_, ok := roomreservations.ProjectRoomReservations(core.DomainEvents{}, roomreservations.BuildQuery(uuid.New(), false, now))

		assert.False(t, ok)
	})
}
