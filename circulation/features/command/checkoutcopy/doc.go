// Package checkoutcopy implements the Checkout use case of the copy/loan ledger.
//
// The consistency boundary spans the copy's status events and the borrower's eligibility events,
// so two concurrent checkouts of one copy cannot both append, and neither can two checkouts
// that would together push a user over the loan limit.
package checkoutcopy
