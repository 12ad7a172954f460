package finepolicy_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/finepolicy"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/timewindow"
)

var checkoutAt = time.Date(2025, 3, 3, 16, 0, 0, 0, time.UTC)

func calculator(t *testing.T) finepolicy.Calculator {
	t.Helper()

	window, err := timewindow.Load(timewindow.DefaultLocation)
	require.NoError(t, err)

	return finepolicy.NewCalculator(window, core.DefaultPolicy())
}

func Test_AssessOnReturn_SixDaysLate(t *testing.T) {
	c := calculator(t)
	dueAt := checkoutAt.Add(14 * 24 * time.Hour)
	returnedAt := checkoutAt.Add(20 * 24 * time.Hour)

	event, assessed := c.AssessOnReturn("f", "l", "u", "i", dueAt, returnedAt)

	require.True(t, assessed)
	fine := event.(core.FineAssessed)
	assert.Equal(t, 6, fine.DaysOverdue)
	assert.True(t, decimal.RequireFromString("1.50").Equal(fine.Amount), fine.Amount.String())
	assert.Equal(t, core.FineReasonOverdue, fine.Reason)
}

func Test_AssessOnReturn_InTime(t *testing.T) {
	c := calculator(t)
	dueAt := checkoutAt.Add(14 * 24 * time.Hour)

	_, assessed := c.AssessOnReturn("f", "l", "u", "i", dueAt, dueAt.Add(2*time.Hour))

	assert.False(t, assessed, "same library day is not overdue")
}

func Test_EstimateFine_NeverNegative(t *testing.T) {
	c := calculator(t)
	dueAt := checkoutAt.Add(14 * 24 * time.Hour)

	assert.True(t, c.EstimateFine(dueAt, checkoutAt).IsZero())
}

func Test_LostThreshold(t *testing.T) {
	c := calculator(t)
	dueAt := checkoutAt

	assert.False(t, c.IsLost(dueAt, dueAt.Add(28*24*time.Hour)))
	assert.True(t, c.IsLost(dueAt, dueAt.Add(29*24*time.Hour)))
	assert.False(t, c.NeedsLostWarning(dueAt, dueAt.Add(20*24*time.Hour)))
	assert.True(t, c.NeedsLostWarning(dueAt, dueAt.Add(21*24*time.Hour)))
}

func Test_AssessLost_AddsLostItemFee(t *testing.T) {
	c := calculator(t)
	dueAt := checkoutAt

	fine := c.AssessLost("f", "l", "u", "i", dueAt, dueAt.Add(29*24*time.Hour)).(core.FineAssessed)

	assert.Equal(t, 29, fine.DaysOverdue)
	assert.True(t, decimal.RequireFromString("27.25").Equal(fine.Amount), fine.Amount.String())
	assert.Equal(t, core.FineReasonLost, fine.Reason)
}

func Test_Account_LockIsDerivedFromOpenLostFines(t *testing.T) {
	now := checkoutAt
	overdue := core.BuildFineAssessed("f1", "l1", "u", "i", decimal.RequireFromString("1.00"), 4, core.FineReasonOverdue, now)
	lost := core.BuildFineAssessed("f2", "l2", "u", "i", decimal.RequireFromString("27.25"), 29, core.FineReasonLost, now)

	account := finepolicy.ProjectAccount(core.DomainEvents{overdue, lost})
	assert.True(t, account.Locked())
	assert.True(t, decimal.RequireFromString("28.25").Equal(account.TotalOutstanding()))

	account.Apply(core.BuildFinePaid("f2", "l2", "u", decimal.RequireFromString("27.25"), "desk-1", true, now))
	assert.False(t, account.Locked(), "paying the lost-item fine unlocks")
	assert.Len(t, account.OpenFines(), 1)

	account.Apply(core.BuildFineWaived("f1", "l1", "u", decimal.RequireFromString("1.00"), "staff", false, now))
	assert.Empty(t, account.OpenFines())

	fine, found := account.Fine("f1")
	require.True(t, found)
	assert.Equal(t, finepolicy.FineWaived, fine.Status)
	assert.True(t, fine.Outstanding().IsZero())
}
