package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classbook/core"
	"github.com/trezcool/classbook/core/classroom"
	"github.com/trezcool/classbook/storage/spreadsheet"
)

const (
	importFileField = "file"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type studentApi struct {
	svc *classroom.Service
}

func registerStudentAPI(g *echo.Group, svc *classroom.Service) {
	api := studentApi{svc: svc}

	sg := g.Group("/students")
	sg.GET("", api.query)
	sg.POST("", api.create)
	sg.POST("/import", api.importRoster)
	sg.GET("/import-template", api.importTemplate)

	// detail endpoints
	dg := sg.Group("/:id", idMiddleware)
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
}

func (api *studentApi) query(ctx echo.Context) error {
	var filter classroom.StudentFilter
	if err := bindFilter(ctx, &filter); err != nil {
		return err
	}
	students, err := api.svc.QueryStudentsWithClass(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) create(ctx echo.Context) error {
	var data classroom.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	s, err := api.svc.CreateStudent(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	id, err := ctxID(ctx)
	if err != nil {
		return err
	}
	s, err := api.svc.GetStudentWithClass(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) update(ctx echo.Context) error {
	id, err := ctxID(ctx)
	if err != nil {
		return err
	}
	var data classroom.UpdateStudent
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	s, err := api.svc.UpdateStudent(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	id, err := ctxID(ctx)
	if err != nil {
		return err
	}
	s, err := api.svc.DeleteStudent(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s)
}

// importRoster creates the students of an uploaded xlsx roster; invalid rows are reported, not fatal.
func (api *studentApi) importRoster(ctx echo.Context) error {
	classID, err := queryInt(ctx, "class_id", 0)
	if err != nil {
		return err
	}
	fh, err := ctx.FormFile(importFileField)
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: importFileField, Error: "an xlsx file is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer func() { _ = f.Close() }()

	rows, err := spreadsheet.ReadStudents(f, classID)
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: importFileField, Error: err.Error()})
	}
	res, err := api.svc.ImportStudents(ctx.Request().Context(), rows)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *studentApi) importTemplate(ctx echo.Context) error {
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="students.xlsx"`)
	ctx.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
	ctx.Response().WriteHeader(http.StatusOK)
	return spreadsheet.StudentTemplate(ctx.Response())
}
