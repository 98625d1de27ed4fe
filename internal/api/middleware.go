package api

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// OwnerHeader carries the id of the user whose data a request touches.
const OwnerHeader = "X-Owner-ID"

const ownerKey = "owner"

func ownerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		owner := strings.TrimSpace(ctx.Request().Header.Get(OwnerHeader))
		if owner == "" {
			return errMissingOwner
		}
		ctx.Set(ownerKey, owner)
		return next(ctx)
	}
}

func contextOwner(ctx echo.Context) string {
	owner, _ := ctx.Get(ownerKey).(string)
	return owner
}
