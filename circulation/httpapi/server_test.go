package httpapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/auth"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/engine"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/httpapi"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/timewindow"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore/memengine"
	"github.com/AntonStoeckl/library-circulation-engine/testutil/circulation/helper"
)

var monday = time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)

type fixture struct {
	clock  *timewindow.FixedClock
	engine *engine.Engine
	tokens auth.Tokens
	server http.Handler
}

func givenServer(t *testing.T, opts httpapi.Options) fixture {
	t.Helper()

	clock := timewindow.NewFixedClock(monday)
	eng := engine.New(memengine.NewEventStore(), engine.WithClock(clock))
	tokens := auth.NewTokens("test-secret-0123456789", time.Hour, clock)

	return fixture{clock: clock, engine: eng, tokens: tokens, server: httpapi.New(eng, tokens, opts)}
}

func givenUser(t *testing.T, f fixture, role core.Role) (uuid.UUID, string) {
	t.Helper()

	userID := helper.GivenUniqueID(t)
	require.NoError(t, f.engine.RegisterUser(context.Background(), userID, "User "+role, role))

	return userID, tokenFor(t, f, userID, role)
}

func tokenFor(t *testing.T, f fixture, userID uuid.UUID, role core.Role) string {
	t.Helper()

	token, err := f.tokens.Issue(userID, role)
	require.NoError(t, err)

	return token
}

func givenCopy(t *testing.T, f fixture) (uuid.UUID, uuid.UUID) {
	t.Helper()

	itemID, copyID := helper.GivenUniqueID(t), helper.GivenUniqueID(t)
	require.NoError(t, f.engine.AddCatalogItem(context.Background(), itemID, "Kindred", "Octavia E. Butler"))
	_, err := f.engine.AddCopy(context.Background(), copyID, itemID)
	require.NoError(t, err)

	return itemID, copyID
}

func do(t *testing.T, f fixture, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &v))

	return v
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, code core.ErrCode) {
	t.Helper()

	assert.Equal(t, status, rec.Code, rec.Body.String())
	body := decode[httpapi.ErrorBody](t, rec)
	assert.Equal(t, string(code), body.Error.Code)
	assert.NotEmpty(t, body.Error.Message)
}

func Test_Health_NeedsNoToken(t *testing.T) {
	f := givenServer(t, httpapi.Options{})

	rec := do(t, f, http.MethodGet, "/healthz", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func Test_Authentication(t *testing.T) {
	f := givenServer(t, httpapi.Options{})
	_, token := givenUser(t, f, core.RolePatron)

	t.Run("missing token", func(t *testing.T) {
		assertError(t, do(t, f, http.MethodGet, "/loans", "", ""), http.StatusUnauthorized, core.CodeUnauthorized)
	})

	t.Run("garbage token", func(t *testing.T) {
		assertError(t, do(t, f, http.MethodGet, "/loans", "not-a-jwt", ""), http.StatusUnauthorized, core.CodeUnauthorized)
	})

	t.Run("expired token", func(t *testing.T) {
		f.clock.Advance(2 * time.Hour)
		defer f.clock.Advance(-2 * time.Hour)

		assertError(t, do(t, f, http.MethodGet, "/loans", token, ""), http.StatusUnauthorized, core.CodeUnauthorized)
	})

	t.Run("valid token", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, do(t, f, http.MethodGet, "/loans", token, "").Code)
	})
}

func Test_Checkout_ThenListLoans(t *testing.T) {
	// arrange
	f := givenServer(t, httpapi.Options{})
	patronID, token := givenUser(t, f, core.RolePatron)
	_, copyID := givenCopy(t, f)

	// act
	rec := do(t, f, http.MethodPost, "/loans/checkout", token, `{"copy_id":"`+copyID.String()+`"}`)

	// assert
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	loan := decode[httpapi.CheckoutDTO](t, rec)
	assert.Equal(t, patronID.String(), loan.UserID)
	assert.Equal(t, monday.Add(core.DefaultPolicy().LoanPeriod), loan.DueAt)

	rec = do(t, f, http.MethodGet, "/loans?active=true", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	loans := decode[httpapi.LoansDTO](t, rec)
	assert.Equal(t, 1, loans.Open)
	assert.Equal(t, loan.LoanID, loans.Loans[0].LoanID)
}

func Test_Checkout_Failures(t *testing.T) {
	f := givenServer(t, httpapi.Options{})
	_, patronToken := givenUser(t, f, core.RolePatron)
	otherPatron, _ := givenUser(t, f, core.RolePatron)
	_, employeeToken := givenUser(t, f, core.RoleEmployee)
	_, copyID := givenCopy(t, f)

	t.Run("missing copy id", func(t *testing.T) {
		rec := do(t, f, http.MethodPost, "/loans/checkout", patronToken, `{}`)
		assertError(t, rec, http.StatusBadRequest, core.CodeInvalidPayload)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := do(t, f, http.MethodPost, "/loans/checkout", patronToken, `{"copy_id":`)
		assertError(t, rec, http.StatusBadRequest, core.CodeInvalidPayload)
	})

	t.Run("unknown copy", func(t *testing.T) {
		rec := do(t, f, http.MethodPost, "/loans/checkout", patronToken, `{"copy_id":"`+uuid.NewString()+`"}`)
		assertError(t, rec, http.StatusNotFound, core.CodeCopyNotFound)
	})

	t.Run("patron on behalf of another user", func(t *testing.T) {
		body := `{"copy_id":"` + copyID.String() + `","user_id":"` + otherPatron.String() + `"}`
		rec := do(t, f, http.MethodPost, "/loans/checkout", patronToken, body)
		assertError(t, rec, http.StatusForbidden, core.CodeForbidden)
	})

	t.Run("employee on behalf of a patron, then the copy is gone", func(t *testing.T) {
		body := `{"copy_id":"` + copyID.String() + `","user_id":"` + otherPatron.String() + `"}`
		require.Equal(t, http.StatusCreated, do(t, f, http.MethodPost, "/loans/checkout", employeeToken, body).Code)

		rec := do(t, f, http.MethodPost, "/loans/checkout", patronToken, `{"copy_id":"`+copyID.String()+`"}`)
		assertError(t, rec, http.StatusConflict, core.CodeCopyNotAvailable)
	})
}

func Test_Return_RequiresOwnerOrCirculation(t *testing.T) {
	// arrange
	f := givenServer(t, httpapi.Options{})
	ownerID, ownerToken := givenUser(t, f, core.RolePatron)
	_, strangerToken := givenUser(t, f, core.RolePatron)
	employeeID, employeeToken := givenUser(t, f, core.RoleEmployee)
	_, copyID := givenCopy(t, f)

	rec := do(t, f, http.MethodPost, "/loans/checkout", ownerToken, `{"copy_id":"`+copyID.String()+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	loanBody := `{"loan_id":"` + decode[httpapi.CheckoutDTO](t, rec).LoanID + `"}`

	// act / assert
	assertError(t, do(t, f, http.MethodPost, "/loans/return", strangerToken, loanBody), http.StatusForbidden, core.CodeNotOwner)

	f.clock.Advance(16 * 24 * time.Hour)
	ownerToken, employeeToken = tokenFor(t, f, ownerID, core.RolePatron), tokenFor(t, f, employeeID, core.RoleEmployee)
	rec = do(t, f, http.MethodPost, "/loans/return", employeeToken, loanBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	returned := decode[httpapi.ReturnDTO](t, rec)
	require.NotNil(t, returned.Fine)
	assert.Equal(t, "0.5", returned.Fine.Amount.String())

	assertError(t, do(t, f, http.MethodPost, "/loans/return", ownerToken, loanBody), http.StatusConflict, core.CodeAlreadyReturned)
}

func Test_AdminRoutes_RequireAdministerCapability(t *testing.T) {
	f := givenServer(t, httpapi.Options{})
	_, employeeToken := givenUser(t, f, core.RoleEmployee)
	_, adminToken := givenUser(t, f, core.RoleAdmin)

	body := `{"title":"Parable of the Sower","author":"Octavia E. Butler"}`
	assertError(t, do(t, f, http.MethodPost, "/items", employeeToken, body), http.StatusForbidden, core.CodeForbidden)

	rec := do(t, f, http.MethodPost, "/items", adminToken, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	itemID := decode[map[string]string](t, rec)["item_id"]

	rec = do(t, f, http.MethodPost, "/items/"+itemID+"/copies", adminToken, "")
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, f, http.MethodPost, "/items", adminToken, `{"item_id":"`+itemID+`","title":"Other","author":"X"}`)
	assertError(t, rec, http.StatusConflict, core.CodeItemExists)
}

func Test_Reservations(t *testing.T) {
	// arrange
	f := givenServer(t, httpapi.Options{})
	_, patronToken := givenUser(t, f, core.RolePatron)
	_, employeeToken := givenUser(t, f, core.RoleEmployee)

	assertError(t, do(t, f, http.MethodPost, "/rooms", patronToken, `{"name":"Quiet Room","capacity":4}`),
		http.StatusForbidden, core.CodeForbidden)

	rec := do(t, f, http.MethodPost, "/rooms", employeeToken, `{"name":"Quiet Room","capacity":4}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	room := decode[httpapi.RoomDTO](t, rec)
	assert.Equal(t, "09:00", room.Hours["monday"].Opens)

	reservation := func(start, end string) string {
		return `{"room_id":"` + room.RoomID + `","start_time":"` + start + `","end_time":"` + end + `"}`
	}

	// act / assert
	rec = do(t, f, http.MethodPost, "/reservations", patronToken, reservation("2026-03-02T22:00:00Z", "2026-03-02T23:00:00Z"))
	assertError(t, rec, http.StatusUnprocessableEntity, core.CodeOutsideLibraryHours)

	rec = do(t, f, http.MethodPost, "/reservations", patronToken, reservation("2026-03-02T14:00:00Z", "2026-03-02T15:00:00Z"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[httpapi.ReservationDTO](t, rec)

	rec = do(t, f, http.MethodPost, "/reservations", patronToken, reservation("2026-03-02T14:30:00Z", "2026-03-02T15:30:00Z"))
	assertError(t, rec, http.StatusConflict, core.CodeReservationConflict)

	rec = do(t, f, http.MethodPatch, "/reservations/"+created.ReservationID+"/cancel", employeeToken, "")
	assert.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = do(t, f, http.MethodGet, "/rooms/"+room.RoomID+"/reservations?include_cancelled=true", patronToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decode[httpapi.RoomReservationsDTO](t, rec)
	require.Len(t, listed.Reservations, 1)
	assert.Equal(t, "cancelled", listed.Reservations[0].Status)
}

func Test_RegisterRoom_InvalidHours(t *testing.T) {
	f := givenServer(t, httpapi.Options{})
	_, employeeToken := givenUser(t, f, core.RoleEmployee)

	body := `{"name":"Lab","capacity":2,"hours":{"funday":{"opens":"09:00","closes":"10:00"}}}`
	assertError(t, do(t, f, http.MethodPost, "/rooms", employeeToken, body), http.StatusBadRequest, core.CodeInvalidPayload)
}

func Test_PayFine_RejectsNonPositiveAmount(t *testing.T) {
	f := givenServer(t, httpapi.Options{})
	_, token := givenUser(t, f, core.RolePatron)

	rec := do(t, f, http.MethodPost, "/fines/"+uuid.NewString()+"/pay", token, `{"amount":"0"}`)
	assertError(t, rec, http.StatusBadRequest, core.CodeInvalidPayload)

	rec = do(t, f, http.MethodPost, "/fines/pay-total", token, `{"amount":"1.00"}`)
	assertError(t, rec, http.StatusConflict, core.CodeNoOutstandingFines)
}

func Test_Notifications_InvalidStatus(t *testing.T) {
	f := givenServer(t, httpapi.Options{})
	_, token := givenUser(t, f, core.RolePatron)

	assertError(t, do(t, f, http.MethodGet, "/notifications?status=archived", token, ""), http.StatusBadRequest, core.CodeInvalidPayload)
	assert.Equal(t, http.StatusOK, do(t, f, http.MethodGet, "/notifications?status=unread", token, "").Code)
}

func Test_Notifications_ReadAndDismissReturnTheUpdatedRecord(t *testing.T) {
	// arrange
	f := givenServer(t, httpapi.Options{})
	userID, token := givenUser(t, f, core.RolePatron)
	_, otherToken := givenUser(t, f, core.RolePatron)

	emitted, err := f.engine.Emit(context.Background(), userID, core.NotificationDueSoon, map[string]string{"loan_id": "l-1"}, "l-1")
	require.NoError(t, err)
	require.True(t, emitted)
	list, err := f.engine.Notifications(context.Background(), userID, "")
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)
	path := "/notifications/" + list.Notifications[0].NotificationID

	// act
	readRec := do(t, f, http.MethodPost, path+"/read", token, "")
	foreignRec := do(t, f, http.MethodPatch, path+"/dismiss", otherToken, "")
	dismissRec := do(t, f, http.MethodPatch, path+"/dismiss", token, "")

	// assert
	require.Equal(t, http.StatusOK, readRec.Code, readRec.Body.String())
	read := decode[httpapi.NotificationDTO](t, readRec)
	assert.Equal(t, list.Notifications[0].NotificationID, read.NotificationID)
	assert.Equal(t, "read", read.Status)
	assert.Equal(t, "l-1", read.Metadata["loan_id"])

	assertError(t, foreignRec, http.StatusNotFound, core.CodeNotificationNotFound)

	require.Equal(t, http.StatusOK, dismissRec.Code, dismissRec.Body.String())
	assert.Equal(t, "resolved", decode[httpapi.NotificationDTO](t, dismissRec).Status)
}

func Test_RunSweep(t *testing.T) {
	f := givenServer(t, httpapi.Options{})
	_, adminToken := givenUser(t, f, core.RoleAdmin)

	rec := do(t, f, http.MethodPost, "/admin/sweeps/overdue", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, engine.SweepOverdue, decode[httpapi.SweepDTO](t, rec).Sweep)

	assertError(t, do(t, f, http.MethodPost, "/admin/sweeps/everything", adminToken, ""),
		http.StatusBadRequest, core.CodeInvalidPayload)
}

func Test_RateLimit_PerClient(t *testing.T) {
	f := givenServer(t, httpapi.Options{RateLimit: 0.001, RateBurst: 1})

	assert.Equal(t, http.StatusOK, do(t, f, http.MethodGet, "/healthz", "", "").Code)

	rec := do(t, f, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate_limited", decode[httpapi.ErrorBody](t, rec).Error.Code)
}
