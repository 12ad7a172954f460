package createreservation_test

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/createreservation"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/roomschedule"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/timewindow"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore/memengine"
	"github.com/AntonStoeckl/library-circulation-engine/testutil/circulation/helper"
)

func Test_CommandHandler_ParallelOverlappingBookings_OnlyOneSucceeds(t *testing.T) {
	// arrange
	es := memengine.NewEventStore()
	roomID := helper.GivenUniqueID(t)
	now := at(t, 7, 0)
	helper.GivenEvents(t, es, core.BuildRoomRegistered(roomID.String(), "Room 3", 6, timewindow.DefaultWeeklyHours(), now))

	handler := createreservation.NewCommandHandler(
		es,
		libraryWindow(t),
		core.DefaultPolicy(),
		shell.WithRetryOptions(shell.WithMaxAttempts(30), shell.WithBaseDelay(time.Millisecond)),
	)

	// act
	const contenders = 6
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := at(t, 10, 0).Add(time.Duration(i) * 10 * time.Minute)
			command := createreservation.BuildCommand(helper.GivenUniqueID(t), roomID, helper.GivenUniqueID(t), start, start.Add(time.Hour), now)

			if _, err := handler.Handle(context.Background(), command); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// assert
	assert.Equal(t, 1, successes)
	assertNoOverlaps(t, es, roomID.String())
}

func Test_CommandHandler_RandomIntervals_NeverOverlap(t *testing.T) {
	es := memengine.NewEventStore()
	roomID := helper.GivenUniqueID(t)
	now := at(t, 7, 0)
	helper.GivenEvents(t, es, core.BuildRoomRegistered(roomID.String(), "Room 3", 6, timewindow.DefaultWeeklyHours(), now))
	handler := createreservation.NewCommandHandler(es, libraryWindow(t), core.DefaultPolicy())

	rng := rand.New(rand.NewPCG(42, 7))
	for i := 0; i < 200; i++ {
		start := at(t, 9, 0).Add(time.Duration(rng.IntN(48)) * 15 * time.Minute)
		end := start.Add(time.Duration(1+rng.IntN(10)) * 15 * time.Minute)
		command := createreservation.BuildCommand(helper.GivenUniqueID(t), roomID, helper.GivenUniqueID(t), start, end, now)

		_, _ = handler.Handle(context.Background(), command)
	}

	assertNoOverlaps(t, es, roomID.String())
}

func assertNoOverlaps(t *testing.T, es memengine.EventStore, roomID string) {
	t.Helper()

	schedule := roomschedule.Project(helper.AllEvents(t, es))
	reservations := schedule.Reservations(roomID)
	require.NotEmpty(t, reservations)

	for i, a := range reservations {
		for _, b := range reservations[i+1:] {
			if a.Status == roomschedule.ReservationActive && b.Status == roomschedule.ReservationActive {
				assert.False(t, a.Overlaps(b.StartTime, b.EndTime), "%s overlaps %s", a.ReservationID, b.ReservationID)
			}
		}
	}
}
