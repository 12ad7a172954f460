// Package returncopy implements the Return use case of the copy/loan ledger.
//
// A return closes the loan, assesses the overdue fine and hands the copy to the head of the item's
// hold queue, all in one conditional append. The append covers the whole item, so a concurrent
// PlaceHold or Return for the same item is retried against the new queue.
package returncopy
