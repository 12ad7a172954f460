// Package loansbyuser implements the Loans By User query.
//
// It lists every loan of a user, newest first, with the days overdue and the fine accrued so far.
// For returned and lost loans the figures are frozen at the return or loss.
package loansbyuser
