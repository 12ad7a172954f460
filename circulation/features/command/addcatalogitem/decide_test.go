package addcatalogitem_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/addcatalogitem"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

func Test_Decide(t *testing.T) {
	itemID := uuid.New()
	now := time.Now()
	existing := core.DomainEvents{core.BuildItemAddedToCatalog(itemID.String(), "Dune", "Frank Herbert", now)}

	testCases := []struct {
		name            string
		history         core.DomainEvents
		command         addcatalogitem.Command
		expectedOutcome string
	}{
		{"new item", core.DomainEvents{}, addcatalogitem.BuildCommand(itemID, "Dune", "Frank Herbert", now), "success"},
		{"same item again", existing, addcatalogitem.BuildCommand(itemID, "Dune", "Frank Herbert", now), "idempotent"},
		{"id taken", existing, addcatalogitem.BuildCommand(itemID, "Emma", "Jane Austen", now), "rejected"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := addcatalogitem.Decide(tc.history, tc.command)
			assert.Equal(t, tc.expectedOutcome, result.Outcome)
		})
	}
}
