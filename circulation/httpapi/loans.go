package httpapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/auth"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

// Checkout handles POST /loans/checkout. Staff may check out on behalf of another user.
func (s *Server) Checkout(c echo.Context) error {
	var req CheckoutReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	principal := principalOf(c)
	borrower := req.UserID
	if borrower == uuid.Nil {
		borrower = principal.UserID
	}

	switch {
	case borrower == principal.UserID && !principal.Can(auth.CapBorrow):
		return core.ErrForbidden
	case borrower != principal.UserID && !principal.Can(auth.CapCirculate):
		return core.ErrForbidden
	}

	loan, err := s.engine.Checkout(requestContext(c), req.CopyID, borrower)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, checkoutDTO(loan))
}

// Return handles POST /loans/return.
func (s *Server) Return(c echo.Context) error {
	var req ReturnReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	estimate, err := s.engine.EstimateFine(requestContext(c), req.LoanID)
	if err != nil {
		return err
	}

	if err = ownedBy(c, estimate.UserID, auth.CapCirculate); err != nil {
		return err
	}

	outcome, err := s.engine.Return(requestContext(c), req.LoanID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, returnDTO(outcome))
}

// Loans handles GET /loans?user_id=&active=.
func (s *Server) Loans(c echo.Context) error {
	userID, err := targetUser(c, auth.CapViewAny)
	if err != nil {
		return err
	}

	activeOnly, err := queryFlag(c, "active")
	if err != nil {
		return err
	}

	result, err := s.engine.LoansOfUser(requestContext(c), userID, activeOnly)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loansDTO(result))
}

// OpenLoans handles GET /loans/open?overdue=.
func (s *Server) OpenLoans(c echo.Context) error {
	overdueOnly, err := queryFlag(c, "overdue")
	if err != nil {
		return err
	}

	result, err := s.engine.OpenLoans(requestContext(c), overdueOnly)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, openLoansDTO(result))
}

// FineEstimate handles GET /loans/:id/fine-estimate.
func (s *Server) FineEstimate(c echo.Context) error {
	loanID, err := pathID(c)
	if err != nil {
		return err
	}

	estimate, err := s.engine.EstimateFine(requestContext(c), loanID)
	if err != nil {
		return err
	}

	if err = ownedBy(c, estimate.UserID, auth.CapViewAny); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fineEstimateDTO(estimate))
}
