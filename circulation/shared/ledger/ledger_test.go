package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/ledger"
)

func Test_ProjectLoans(t *testing.T) {
	now := time.Date(2025, 3, 3, 16, 0, 0, 0, time.UTC)
	history := core.DomainEvents{
		core.BuildUserRegistered("u1", "Ada", core.RolePatron, now),
		core.BuildCopyCheckedOut("l1", "c1", "i1", "u1", now.Add(time.Hour), now),
		core.BuildCopyCheckedOut("l2", "c2", "i2", "u1", now.Add(time.Hour), now),
		core.BuildCopyCheckedOut("l3", "c3", "i3", "u1", now.Add(time.Hour), now),
		core.BuildCopyReturned("l1", "c1", "i1", "u1", now.Add(time.Hour), now.Add(time.Minute)),
		core.BuildLoanMarkedLost("l2", "c2", "i2", "u1", now.Add(time.Hour), 29, true, now.Add(2*time.Minute)),
	}

	loans := ledger.ProjectLoans(history)

	assert.Equal(t, 1, loans.OpenLoansOf("u1"))
	assert.Len(t, loans.All(), 3)

	returned, found := loans.Loan("l1")
	require.True(t, found)
	assert.Equal(t, ledger.LoanReturned, returned.Status)
	assert.Equal(t, now.Add(time.Minute), returned.ReturnedAt)

	lost, _ := loans.Loan("l2")
	assert.Equal(t, ledger.LoanLost, lost.Status)

	users := ledger.ProjectUsers(history)
	assert.Equal(t, "Ada", users["u1"].Name)
}
