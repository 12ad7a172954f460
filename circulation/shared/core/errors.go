package core

import (
	"errors"
)

// ErrCode is the stable, client-visible identifier of a failure.
type ErrCode string

const (
	CodeInvalidPayload      ErrCode = "invalid_payload"
	CodeInvalidTimespan     ErrCode = "invalid_timespan"
	CodeDurationExceeded    ErrCode = "duration_exceeded"
	CodeOutsideLibraryHours ErrCode = "outside_library_hours"
	CodeAmountMismatch      ErrCode = "amount_mismatch"

	CodeCopyNotAvailable    ErrCode = "copy_not_available"
	CodeReservationConflict ErrCode = "reservation_conflict"
	CodeAlreadyReturned     ErrCode = "already_returned"
	CodeRoomExists          ErrCode = "room_exists"
	CodeRoomInUse           ErrCode = "room_in_use"
	CodeDuplicateHold       ErrCode = "duplicate_hold"
	CodeHoldNotReady        ErrCode = "hold_not_ready"
	CodeHoldNotActive       ErrCode = "hold_not_active"
	CodeFineAlreadySettled  ErrCode = "fine_already_settled"
	CodeNoOutstandingFines  ErrCode = "no_outstanding_fines"
	CodeUserExists          ErrCode = "user_exists"
	CodeItemExists          ErrCode = "item_exists"
	CodeCopyExists          ErrCode = "copy_exists"

	CodeCopyNotFound         ErrCode = "copy_not_found"
	CodeUserNotFound         ErrCode = "user_not_found"
	CodeItemNotFound         ErrCode = "item_not_found"
	CodeLoanNotFound         ErrCode = "loan_not_found"
	CodeHoldNotFound         ErrCode = "hold_not_found"
	CodeRoomNotFound         ErrCode = "room_not_found"
	CodeReservationNotFound  ErrCode = "reservation_not_found"
	CodeFineNotFound         ErrCode = "fine_not_found"
	CodeNotificationNotFound ErrCode = "notification_not_found"

	CodeLoanLimitExceeded ErrCode = "loan_limit_exceeded"
	CodeAccountLocked     ErrCode = "account_locked"

	CodeNotOwner     ErrCode = "not_owner"
	CodeForbidden    ErrCode = "forbidden"
	CodeUnauthorized ErrCode = "unauthorized"

	CodePaymentFailed ErrCode = "payment_failed"

	CodeNotificationsQueryFailed ErrCode = "notifications_query_failed"
	CodeNotificationUpdateFailed ErrCode = "notification_update_failed"
	CodeInternal                 ErrCode = "internal_error"
)

// ErrKind groups error codes by how a caller should react to them.
type ErrKind int

const (
	KindInfrastructure ErrKind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindPolicy
	KindForbidden
	KindUnauthorized
	KindPayment
)

// Kind classifies the code. Unknown codes are infrastructure errors.
func (c ErrCode) Kind() ErrKind {
	switch c {
	case CodeInvalidPayload, CodeInvalidTimespan, CodeDurationExceeded, CodeOutsideLibraryHours, CodeAmountMismatch:
		return KindValidation
	case CodeCopyNotAvailable, CodeReservationConflict, CodeAlreadyReturned, CodeRoomExists, CodeRoomInUse,
		CodeDuplicateHold, CodeHoldNotReady, CodeHoldNotActive, CodeFineAlreadySettled, CodeNoOutstandingFines,
		CodeUserExists, CodeItemExists, CodeCopyExists:
		return KindConflict
	case CodeCopyNotFound, CodeUserNotFound, CodeItemNotFound, CodeLoanNotFound, CodeHoldNotFound, CodeRoomNotFound,
		CodeReservationNotFound, CodeFineNotFound, CodeNotificationNotFound:
		return KindNotFound
	case CodeLoanLimitExceeded, CodeAccountLocked:
		return KindPolicy
	case CodeNotOwner, CodeForbidden:
		return KindForbidden
	case CodeUnauthorized:
		return KindUnauthorized
	case CodePaymentFailed:
		return KindPayment
	default:
		return KindInfrastructure
	}
}

// Error is a typed domain error. Two Errors match with errors.Is when their codes are equal.
type Error struct {
	Code ErrCode
	Msg  string
}

// NewError creates a typed domain error.
func NewError(code ErrCode, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Msg
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.Code == e.Code
}

// Sentinel errors for errors.Is checks, one per code that Decide functions produce.
var (
	ErrInvalidPayload       = NewError(CodeInvalidPayload, "request payload is invalid")
	ErrInvalidTimespan      = NewError(CodeInvalidTimespan, "end must be after start")
	ErrDurationExceeded     = NewError(CodeDurationExceeded, "reservation exceeds the maximum duration")
	ErrOutsideLibraryHours  = NewError(CodeOutsideLibraryHours, "reservation is outside the room's operating hours")
	ErrAmountMismatch       = NewError(CodeAmountMismatch, "amount must equal the outstanding balance")
	ErrCopyNotAvailable     = NewError(CodeCopyNotAvailable, "copy is not available")
	ErrReservationConflict  = NewError(CodeReservationConflict, "room is already reserved in this time span")
	ErrAlreadyReturned      = NewError(CodeAlreadyReturned, "loan is not active")
	ErrRoomExists           = NewError(CodeRoomExists, "room already exists")
	ErrRoomInUse            = NewError(CodeRoomInUse, "room has active reservations")
	ErrDuplicateHold        = NewError(CodeDuplicateHold, "user already has an active hold on this item")
	ErrHoldNotReady         = NewError(CodeHoldNotReady, "hold is not ready for pickup")
	ErrHoldNotActive        = NewError(CodeHoldNotActive, "hold is neither queued nor ready")
	ErrFineAlreadySettled   = NewError(CodeFineAlreadySettled, "fine is already paid or waived")
	ErrNoOutstandingFines   = NewError(CodeNoOutstandingFines, "user has no outstanding fines")
	ErrUserExists           = NewError(CodeUserExists, "user already exists")
	ErrItemExists           = NewError(CodeItemExists, "item already exists")
	ErrCopyExists           = NewError(CodeCopyExists, "copy already exists")
	ErrCopyNotFound         = NewError(CodeCopyNotFound, "copy is not known")
	ErrUserNotFound         = NewError(CodeUserNotFound, "user is not known")
	ErrItemNotFound         = NewError(CodeItemNotFound, "item is not known")
	ErrLoanNotFound         = NewError(CodeLoanNotFound, "loan is not known")
	ErrHoldNotFound         = NewError(CodeHoldNotFound, "hold is not known")
	ErrRoomNotFound         = NewError(CodeRoomNotFound, "room is not known")
	ErrReservationNotFound  = NewError(CodeReservationNotFound, "reservation is not known or no longer active")
	ErrFineNotFound         = NewError(CodeFineNotFound, "fine is not known")
	ErrNotificationNotFound = NewError(CodeNotificationNotFound, "notification is not known")
	ErrLoanLimitExceeded    = NewError(CodeLoanLimitExceeded, "user has reached the maximum number of open loans")
	ErrAccountLocked        = NewError(CodeAccountLocked, "account is locked because of unpaid lost-item fines")
	ErrNotOwner             = NewError(CodeNotOwner, "caller does not own this record")
	ErrPaymentFailed        = NewError(CodePaymentFailed, "payment gateway did not accept the charge")
	ErrForbidden            = NewError(CodeForbidden, "caller lacks the required capability")
	ErrUnauthorized         = NewError(CodeUnauthorized, "missing or invalid bearer token")

	ErrNotificationsQueryFailed = NewError(CodeNotificationsQueryFailed, "notifications could not be loaded")
	ErrNotificationUpdateFailed = NewError(CodeNotificationUpdateFailed, "notification could not be updated")
	ErrInternal                 = NewError(CodeInternal, "internal error")
)

// CodeOf extracts the ErrCode of err, or CodeInternal if err carries none.
func CodeOf(err error) ErrCode {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}

	return CodeInternal
}
