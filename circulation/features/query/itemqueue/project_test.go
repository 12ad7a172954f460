package itemqueue_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/itemqueue"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/holdqueue"
)

func Test_ProjectItemQueue(t *testing.T) {
	itemID := uuid.New()
	item := itemID.String()
	now := time.Now()

	history := core.DomainEvents{
		core.BuildItemAddedToCatalog(item, "Kindred", "Octavia E. Butler", now),
		core.BuildCopyAddedToCirculation("copy-1", item, now),
		core.BuildCopyAddedToCirculation("copy-2", item, now),
		core.BuildCopyCheckedOut("loan-1", "copy-1", item, "u0", now.Add(14*24*time.Hour), now),
		core.BuildHoldPlaced("hold-1", item, "u1", now.Add(time.Minute)),
		core.BuildHoldPlaced("hold-2", item, "u2", now.Add(2*time.Minute)),
		core.BuildHoldPromoted("hold-1", item, "u1", "copy-2", now.Add(time.Minute), now.Add(72*time.Hour)),
	}

	result, ok := itemqueue.ProjectItemQueue(history, itemqueue.BuildQuery(itemID))

	require.True(t, ok)
	assert.Equal(t, "Kindred", result.Title)
	assert.Equal(t, 2, result.TotalCopies)
	assert.Equal(t, 0, result.AvailableCopies)
	require.Len(t, result.Holds, 2)
	assert.Equal(t, holdqueue.HoldReady, result.Holds[0].Status)
	assert.Equal(t, "copy-2", result.Holds[0].CopyID)
	assert.Equal(t, 1, result.Holds[1].Position)
	assert.Equal(t, 1, result.Queued)
	require.Len(t, result.Copies, 2)
	assert.Equal(t, holdqueue.CopyHeld, result.Copies[1].Status)
	assert.Equal(t, "hold-1", result.Copies[1].HeldFor)
}

func Test_ProjectItemQueue_UnknownItem(t *testing.T) {
	_, ok := itemqueue.ProjectItemQueue(core.DomainEvents{}, itemqueue.BuildQuery(uuid.New()))

	assert.False(t, ok)
}
