package rooms_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/rooms"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/timewindow"
)

func Test_ProjectRooms(t *testing.T) {
	now := time.Now()
	hours := timewindow.DefaultWeeklyHours()

	history := core.DomainEvents{
		core.BuildRoomRegistered("r-3", "Room 3", 6, hours, now),
		core.BuildRoomRegistered("r-1", "Room 1", 4, hours, now),
		core.BuildRoomRegistered("r-2", "Room 2", 8, hours, now),
		core.BuildRoomUpdated("r-1", "Quiet Room", 2, hours, now),
		core.BuildRoomRemoved("r-2", now),
	}

	result := rooms.ProjectRooms(history)

	require.Equal(t, 2, result.Count)
	assert.Equal(t, "Quiet Room", result.Rooms[0].Name)
	assert.Equal(t, 2, result.Rooms[0].Capacity)
	assert.Equal(t, "Room 3", result.Rooms[1].Name)
}
