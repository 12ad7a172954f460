package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/engine"
)

// RegisterUser handles POST /users.
func (s *Server) RegisterUser(c echo.Context) error {
	var req RegisterUserReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	userID := idOrNew(req.UserID)
	if err := s.engine.RegisterUser(requestContext(c), userID, req.Name, req.Role); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{"user_id": userID.String(), "name": req.Name, "role": req.Role})
}

// AddCatalogItem handles POST /items.
func (s *Server) AddCatalogItem(c echo.Context) error {
	var req CatalogItemReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	itemID := idOrNew(req.ItemID)
	if err := s.engine.AddCatalogItem(requestContext(c), itemID, req.Title, req.Author); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{"item_id": itemID.String(), "title": req.Title, "author": req.Author})
}

// AddCopy handles POST /items/:id/copies. A waiting hold is promoted to the new copy.
func (s *Server) AddCopy(c echo.Context) error {
	itemID, err := pathID(c)
	if err != nil {
		return err
	}

	var req AddCopyReq
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}

	copyID := idOrNew(req.CopyID)
	promoted, err := s.engine.AddCopy(requestContext(c), copyID, itemID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"copy_id":        copyID.String(),
		"item_id":        itemID.String(),
		"promoted_holds": promotedDTOs(promoted),
	})
}

// RunSweep handles POST /admin/sweeps/:name. The name "all" runs every sweep in order.
func (s *Server) RunSweep(c echo.Context) error {
	name := c.Param("name")

	if name == "all" {
		reports := s.engine.RunAllSweeps(requestContext(c))
		result := make([]SweepDTO, 0, len(reports))
		for _, report := range reports {
			result = append(result, sweepDTO(report))
		}

		return c.JSON(http.StatusOK, echo.Map{"sweeps": result})
	}

	report, err := s.engine.RunSweep(requestContext(c), name)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, sweepDTO(report))
}

// SweepNames handles GET /admin/sweeps.
func (s *Server) SweepNames(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"sweeps": append(engine.SweepNames(), "all")})
}
