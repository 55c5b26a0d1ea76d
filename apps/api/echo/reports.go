package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classbook/core"
	"github.com/trezcool/classbook/core/classroom"
	"github.com/trezcool/classbook/core/report"
	"github.com/trezcool/classbook/storage/spreadsheet"
)

type reportApi struct {
	svc *report.Service
}

func registerReportAPI(g *echo.Group, svc *report.Service) {
	api := reportApi{svc: svc}

	rg := g.Group("/reports")
	rg.GET("/dashboard", api.dashboard)
	rg.GET("/summary", api.summary)
	rg.GET("/export", api.export)
}

func (api *reportApi) dashboard(ctx echo.Context) error {
	day := classroom.Today()
	if v := ctx.QueryParam("date"); v != "" {
		d, err := classroom.ParseDate(v)
		if err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "date", Error: "must be formatted as YYYY-MM-DD"})
		}
		day = d
	}
	dash, err := api.svc.Dashboard(ctx.Request().Context(), day)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, dash)
}

func (api *reportApi) summary(ctx echo.Context) error {
	classID, err := queryInt(ctx, "class_id", 0)
	if err != nil {
		return err
	}
	top, err := queryInt(ctx, "top", report.DefaultTop)
	if err != nil {
		return err
	}
	sum, err := api.svc.Summary(ctx.Request().Context(), classID, top)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sum)
}

func (api *reportApi) export(ctx echo.Context) error {
	classID, err := queryInt(ctx, "class_id", 0)
	if err != nil {
		return err
	}
	month, err := report.ParseMonth(ctx.QueryParam("month"))
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "month", Error: "must be formatted as YYYY-MM"})
	}
	exp, err := spreadsheet.BuildExport(ctx.Request().Context(), api.svc, classID, month)
	if err != nil {
		return err
	}

	name := "report.xlsx"
	if classID != 0 {
		name = fmt.Sprintf("report-class-%d.xlsx", classID)
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	ctx.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
	ctx.Response().WriteHeader(http.StatusOK)
	return errors.Wrap(spreadsheet.WriteReport(ctx.Response(), exp), "writing export")
}
