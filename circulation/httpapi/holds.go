package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/auth"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/holdqueue"
)

// PlaceHold handles POST /holds.
func (s *Server) PlaceHold(c echo.Context) error {
	var req PlaceHoldReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	placed, err := s.engine.PlaceHold(requestContext(c), req.ItemID, principalOf(c).UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, HoldDTO{
		HoldID:   placed.HoldID,
		ItemID:   placed.ItemID,
		UserID:   placed.UserID,
		Status:   holdqueue.HoldQueued,
		PlacedAt: optionalTime(placed.OccurredAt),
	})
}

// Holds handles GET /holds?user_id=&active=.
func (s *Server) Holds(c echo.Context) error {
	userID, err := targetUser(c, auth.CapViewAny)
	if err != nil {
		return err
	}

	activeOnly, err := queryFlag(c, "active")
	if err != nil {
		return err
	}

	result, err := s.engine.HoldsOfUser(requestContext(c), userID, activeOnly)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, holdsDTO(result))
}

// AcceptHold handles POST /holds/:id/accept and checks out the reserved copy.
func (s *Server) AcceptHold(c echo.Context) error {
	holdID, err := pathID(c)
	if err != nil {
		return err
	}

	loan, err := s.engine.AcceptReadyHold(requestContext(c), holdID, principalOf(c).UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, checkoutDTO(loan))
}

// DeclineHold handles POST /holds/:id/decline.
func (s *Server) DeclineHold(c echo.Context) error {
	holdID, err := pathID(c)
	if err != nil {
		return err
	}

	if err = s.engine.DeclineReadyHold(requestContext(c), holdID, principalOf(c).UserID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// ItemQueue handles GET /items/:id/holds.
func (s *Server) ItemQueue(c echo.Context) error {
	itemID, err := pathID(c)
	if err != nil {
		return err
	}

	result, err := s.engine.ItemQueue(requestContext(c), itemID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, itemQueueDTO(result))
}
