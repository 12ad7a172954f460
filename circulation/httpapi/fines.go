package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/auth"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

// Fines handles GET /fines?user_id=&open=.
func (s *Server) Fines(c echo.Context) error {
	userID, err := targetUser(c, auth.CapViewAny)
	if err != nil {
		return err
	}

	openOnly, err := queryFlag(c, "open")
	if err != nil {
		return err
	}

	result, err := s.engine.FinesOfUser(requestContext(c), userID, openOnly)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fineAccountDTO(result))
}

// PayFine handles POST /fines/:id/pay.
func (s *Server) PayFine(c echo.Context) error {
	fineID, err := pathID(c)
	if err != nil {
		return err
	}

	var req PaymentReq
	if err = bindPayment(c, &req); err != nil {
		return err
	}

	paid, err := s.engine.PayFine(requestContext(c), fineID, principalOf(c).UserID, req.Amount, req.PaymentToken)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, paymentDTO(paid))
}

// PayAllFines handles POST /fines/pay-total.
func (s *Server) PayAllFines(c echo.Context) error {
	var req PaymentReq
	if err := bindPayment(c, &req); err != nil {
		return err
	}

	paid, err := s.engine.PayAllFines(requestContext(c), principalOf(c).UserID, req.Amount, req.PaymentToken)
	if err != nil {
		return err
	}

	payments := make([]PaymentDTO, 0, len(paid))
	for _, p := range paid {
		payments = append(payments, paymentDTO(p))
	}

	return c.JSON(http.StatusOK, echo.Map{"payments": payments})
}

// WaiveFine handles POST /fines/:id/waive.
func (s *Server) WaiveFine(c echo.Context) error {
	fineID, err := pathID(c)
	if err != nil {
		return err
	}

	waived, err := s.engine.WaiveFine(requestContext(c), fineID, principalOf(c).UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"fine_id":          waived.FineID,
		"amount":           waived.Amount,
		"waived_by":        waived.WaivedBy,
		"account_unlocked": waived.UnlocksAccount,
	})
}

func bindPayment(c echo.Context, req *PaymentReq) error {
	if err := bindAndValidate(c, req); err != nil {
		return err
	}

	if !req.Amount.IsPositive() {
		return core.ErrInvalidPayload
	}

	return nil
}
