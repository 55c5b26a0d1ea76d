package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// idMiddleware stores the positive integer :id path param in the context; anything else is not found.
func idMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id, err := strconv.Atoi(ctx.Param(idParam))
		if err != nil || id < 1 {
			return errHttpNotFound
		}
		ctx.Set(idCtxKey, id)
		return next(ctx)
	}
}
