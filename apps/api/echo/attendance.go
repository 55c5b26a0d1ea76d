package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classbook/core/classroom"
)

type attendanceApi struct {
	svc *classroom.Service
}

func registerAttendanceAPI(g *echo.Group, svc *classroom.Service) {
	api := attendanceApi{svc: svc}

	ag := g.Group("/attendance")
	ag.GET("", api.query)
	ag.POST("", api.create)

	dg := ag.Group("/:id", idMiddleware)
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
}

func (api *attendanceApi) query(ctx echo.Context) error {
	var filter classroom.AttendanceFilter
	if err := bindFilter(ctx, &filter); err != nil {
		return err
	}
	records, err := api.svc.QueryAttendance(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *attendanceApi) create(ctx echo.Context) error {
	var data classroom.NewAttendanceRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAttendanceRecord")
	}
	a, err := api.svc.CreateAttendance(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *attendanceApi) retrieve(ctx echo.Context) error {
	id, err := ctxID(ctx)
	if err != nil {
		return err
	}
	a, err := api.svc.GetAttendance(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *attendanceApi) update(ctx echo.Context) error {
	id, err := ctxID(ctx)
	if err != nil {
		return err
	}
	var data classroom.UpdateAttendanceRecord
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAttendanceRecord")
	}
	a, err := api.svc.UpdateAttendance(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *attendanceApi) destroy(ctx echo.Context) error {
	id, err := ctxID(ctx)
	if err != nil {
		return err
	}
	a, err := api.svc.DeleteAttendance(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, a)
}
