package httpapi

import (
	"errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/auth"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errors.Join(core.ErrInvalidPayload, err)
	}

	return c.Validate(req)
}

func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, errors.Join(core.ErrInvalidPayload, err)
	}

	return id, nil
}

func queryFlag(c echo.Context, name string) (bool, error) {
	var flag bool
	if err := echo.QueryParamsBinder(c).Bool(name, &flag).BindError(); err != nil {
		return false, errors.Join(core.ErrInvalidPayload, err)
	}

	return flag, nil
}

// targetUser resolves ?user_id=. Callers may read their own records; others need capability.
func targetUser(c echo.Context, capability auth.Capability) (uuid.UUID, error) {
	principal := principalOf(c)

	raw := c.QueryParam("user_id")
	if raw == "" {
		return principal.UserID, nil
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.Join(core.ErrInvalidPayload, err)
	}

	if !principal.CanActFor(userID, capability) {
		return uuid.Nil, core.ErrForbidden
	}

	return userID, nil
}

// ownedBy checks the caller owns the record of ownerID or holds capability.
func ownedBy(c echo.Context, ownerID string, capability auth.Capability) error {
	principal := principalOf(c)
	if principal.Can(capability) || principal.UserID.String() == ownerID {
		return nil
	}

	return core.ErrNotOwner
}

func idOrNew(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}

	return id
}
