package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classbook/core"
	"github.com/trezcool/classbook/core/classroom"
	"github.com/trezcool/classbook/core/report"
)

type classApi struct {
	svc       *classroom.Service
	reportSvc *report.Service
}

func registerClassAPI(g *echo.Group, svc *classroom.Service, reportSvc *report.Service) {
	api := classApi{svc: svc, reportSvc: reportSvc}

	cg := g.Group("/classes")
	cg.GET("", api.query)
	cg.POST("", api.create)

	// detail endpoints
	dg := cg.Group("/:id", idMiddleware)
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.GET("/gradebook", api.gradebook)
	dg.GET("/attendance-sheet", api.attendanceSheet)
}

func (api *classApi) query(ctx echo.Context) error {
	classes, err := api.svc.QueryClasses(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *classApi) create(ctx echo.Context) error {
	var data classroom.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	c, err := api.svc.CreateClass(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *classApi) retrieve(ctx echo.Context) error {
	id, err := ctxID(ctx)
	if err != nil {
		return err
	}
	c, err := api.svc.GetClass(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *classApi) update(ctx echo.Context) error {
	id, err := ctxID(ctx)
	if err != nil {
		return err
	}
	var data classroom.UpdateClass
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateClass")
	}
	c, err := api.svc.UpdateClass(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *classApi) destroy(ctx echo.Context) error {
	id, err := ctxID(ctx)
	if err != nil {
		return err
	}
	c, err := api.svc.DeleteClass(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *classApi) gradebook(ctx echo.Context) error {
	id, err := ctxID(ctx)
	if err != nil {
		return err
	}
	gb, err := api.reportSvc.Gradebook(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, gb)
}

func (api *classApi) attendanceSheet(ctx echo.Context) error {
	id, err := ctxID(ctx)
	if err != nil {
		return err
	}
	month, err := report.ParseMonth(ctx.QueryParam("month"))
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "month", Error: "must be formatted as YYYY-MM"})
	}
	sheet, err := api.reportSvc.AttendanceSheet(ctx.Request().Context(), id, month)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sheet)
}
