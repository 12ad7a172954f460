// Package finepolicy computes overdue fines and projects a user's fine account.
//
// Days overdue are counted in library calendar days: a loan due on Monday and returned on Tuesday
// is one day overdue regardless of the hour.
package finepolicy

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/timewindow"
)

// Calculator applies the fine rules of a Policy in the library's calendar.
type Calculator struct {
	window timewindow.TimeWindow
	policy core.Policy
}

// NewCalculator creates a Calculator.
func NewCalculator(window timewindow.TimeWindow, policy core.Policy) Calculator {
	return Calculator{window: window, policy: policy}
}

// DaysOverdue returns max(0, calendar days from dueAt to at).
func (c Calculator) DaysOverdue(dueAt, at time.Time) int {
	return max(0, c.window.DaysBetween(dueAt, at))
}

// EstimateFine is the accrued overdue amount at "at", used for display before assessment.
func (c Calculator) EstimateFine(dueAt, at time.Time) decimal.Decimal {
	return c.amountFor(c.DaysOverdue(dueAt, at))
}

func (c Calculator) amountFor(days int) decimal.Decimal {
	return c.policy.DailyFineRate.Mul(decimal.NewFromInt(int64(days))).Round(2)
}

// IsLost reports whether a loan due at dueAt is overdue strictly beyond the lost threshold at now.
func (c Calculator) IsLost(dueAt, now time.Time) bool {
	return c.DaysOverdue(dueAt, now) > c.policy.LostThresholdDays
}

// NeedsLostWarning reports whether the loan has entered the warning period before it becomes lost.
func (c Calculator) NeedsLostWarning(dueAt, now time.Time) bool {
	days := c.DaysOverdue(dueAt, now)

	return days >= c.policy.LostThresholdDays-c.policy.LostWarningLeadDays && days <= c.policy.LostThresholdDays
}

// AssessOnReturn returns the FineAssessed event for a late return, or false if the copy came back in time.
func (c Calculator) AssessOnReturn(fineID, loanID, userID, itemID string, dueAt, returnedAt time.Time) (core.DomainEvent, bool) {
	days := c.DaysOverdue(dueAt, returnedAt)
	if days == 0 {
		return nil, false
	}

	return core.BuildFineAssessed(fineID, loanID, userID, itemID, c.amountFor(days), days, core.FineReasonOverdue, returnedAt), true
}

// AssessLost returns the FineAssessed event for a loan that is marked lost:
// the accrued overdue amount plus the lost item fee.
func (c Calculator) AssessLost(fineID, loanID, userID, itemID string, dueAt, now time.Time) core.DomainEvent {
	days := c.DaysOverdue(dueAt, now)
	amount := c.amountFor(days).Add(c.policy.LostItemFee)

	return core.BuildFineAssessed(fineID, loanID, userID, itemID, amount, days, core.FineReasonLost, now)
}
