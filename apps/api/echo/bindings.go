package echoapi

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classbook/core"
)

const (
	idParam  = "id"
	idCtxKey = "id"
)

var errIDNotFoundInCtx = errors.New("id not found in echo.Context")

func ctxID(ctx echo.Context) (int, error) {
	id, ok := ctx.Get(idCtxKey).(int)
	if !ok {
		return 0, errIDNotFoundInCtx
	}
	return id, nil
}

// queryInt reads an integer query param, falling back to def when it is absent.
func queryInt(ctx echo.Context, name string, def int) (int, error) {
	val := strings.TrimSpace(ctx.QueryParam(name))
	if val == "" {
		return def, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, core.NewValidationError(nil, core.FieldError{Field: name, Error: "must be an integer"})
	}
	return i, nil
}

func bindFilter(ctx echo.Context, filter interface{}) error {
	if err := (&echo.DefaultBinder{}).BindQueryParams(ctx, filter); err != nil {
		return core.NewValidationError(errors.Wrap(err, "invalid query params"))
	}
	return nil
}
