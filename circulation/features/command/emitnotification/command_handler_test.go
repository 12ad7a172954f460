package emitnotification_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/emitnotification"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore/memengine"
	"github.com/AntonStoeckl/library-circulation-engine/testutil/circulation/helper"
)

func Test_CommandHandler_ParallelEmitsForOneKey_EmitOnce(t *testing.T) {
	// arrange
	es := memengine.NewEventStore()
	userID := helper.GivenUniqueID(t)
	handler := emitnotification.NewCommandHandler(
		es,
		shell.WithRetryOptions(shell.WithMaxAttempts(20), shell.WithBaseDelay(time.Millisecond)),
	)

	// act
	const emitters = 6
	var wg sync.WaitGroup
	errs := make([]error, emitters)
	for i := range emitters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			command := emitnotification.BuildCommand(
				uuid.New(), userID, core.NotificationOverdue, "loan-1", nil, emitnotification.Standard, time.Now(),
			)
			_, errs[i] = handler.Handle(context.Background(), command)
		}()
	}
	wg.Wait()

	// assert
	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Len(t, helper.EventsOfType(helper.AllEvents(t, es), core.NotificationEmittedEventType), 1)
}
