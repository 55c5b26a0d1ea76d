package spreadsheet

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/classbook/core/classroom"
	"github.com/trezcool/classbook/core/report"
)

// Sheet names
const (
	SummarySheet    = "Summary"
	StudentsSheet   = "Top Students"
	ClassesSheet    = "Classes"
	GradebookSheet  = "Gradebook"
	AttendanceSheet = "Attendance"
)

// Export is the content of an exported workbook. Gradebook and Attendance are only
// written when set, which the export of a single class does.
type Export struct {
	Summary    report.Summary
	Gradebook  *report.Gradebook
	Attendance *report.AttendanceSheet
}

func writeHeader(f *excelize.File, sheet string, names []string) error {
	row := make([]interface{}, len(names))
	for i, n := range names {
		row[i] = n
	}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		return errors.Wrapf(err, "writing %s header", sheet)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "creating header style")
	}
	return errors.Wrapf(f.SetRowStyle(sheet, 1, 1, style), "styling %s header", sheet)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err = f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return errors.Wrapf(err, "writing %s row %d", sheet, i+2)
		}
	}
	return nil
}

func addSheet(f *excelize.File, sheet string, header []string, rows [][]interface{}) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.Wrapf(err, "creating sheet %s", sheet)
	}
	if err := writeHeader(f, sheet, header); err != nil {
		return err
	}
	return writeRows(f, sheet, rows)
}

// cell values: no data is written as an empty cell
func nullInt(v null.Int) interface{} {
	if !v.Valid {
		return nil
	}
	return v.Int
}

func nullFloat(v null.Float64) interface{} {
	if !v.Valid {
		return nil
	}
	return v.Float64
}

func nullString(v null.String) interface{} {
	if !v.Valid {
		return nil
	}
	return v.String
}

// WriteReport writes exp as an xlsx workbook.
func WriteReport(w io.Writer, exp Export) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return errors.Wrap(err, "naming summary sheet")
	}
	if err := summarySheet(f, exp.Summary); err != nil {
		return err
	}
	if err := standingSheets(f, exp.Summary); err != nil {
		return err
	}
	if exp.Gradebook != nil {
		if err := gradebookSheet(f, *exp.Gradebook); err != nil {
			return err
		}
	}
	if exp.Attendance != nil {
		if err := attendanceSheet(f, *exp.Attendance); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	return errors.Wrap(f.Write(w), "writing workbook")
}

func summarySheet(f *excelize.File, sum report.Summary) error {
	className := sum.ClassName
	if sum.ClassID == 0 {
		className = "All Classes"
	}
	att := sum.Attendance
	if err := writeHeader(f, SummarySheet, []string{"Metric", "Value"}); err != nil {
		return err
	}
	return writeRows(f, SummarySheet, [][]interface{}{
		{"Class", className},
		{"Total Students", sum.TotalStudents},
		{"Active Students", sum.ActiveStudents},
		{"Average Grade (%)", nullInt(sum.AverageGrade)},
		{"Attendance Rate (%)", nullInt(att.Rate)},
		{"Present", att.Present},
		{"Absent", att.Absent},
		{"Late", att.Late},
		{"Excused", att.Excused},
	})
}

func standingSheets(f *excelize.File, sum report.Summary) error {
	students := make([][]interface{}, 0, len(sum.TopStudents))
	for i, st := range sum.TopStudents {
		students = append(students, []interface{}{
			i + 1, st.Student.FullName(), st.Student.Email, st.GradeCount,
			nullInt(st.Rounded), nullString(st.Letter),
		})
	}
	err := addSheet(f, StudentsSheet, []string{"Rank", "Student", "Email", "Grades", "Average (%)", "Letter"}, students)
	if err != nil {
		return err
	}

	classes := make([][]interface{}, 0, len(sum.Classes))
	for i, cs := range sum.Classes {
		classes = append(classes, []interface{}{
			i + 1, cs.Class.Name, cs.Class.Subject, cs.StudentCount, nullInt(cs.Average),
		})
	}
	return addSheet(f, ClassesSheet, []string{"Rank", "Class", "Subject", "Students", "Average (%)"}, classes)
}

func gradebookSheet(f *excelize.File, gb report.Gradebook) error {
	header := []string{"Student"}
	for _, a := range gb.Assignments {
		header = append(header, a.Title)
	}
	header = append(header, "Average (%)", "Letter")

	rows := make([][]interface{}, 0, len(gb.Rows))
	for _, r := range gb.Rows {
		row := []interface{}{r.Student.FullName()}
		for _, score := range r.Scores {
			row = append(row, nullFloat(score))
		}
		rows = append(rows, append(row, nullInt(r.Percentage), nullString(r.Letter)))
	}
	return addSheet(f, GradebookSheet, header, rows)
}

func attendanceSheet(f *excelize.File, sheet report.AttendanceSheet) error {
	header := []string{"Student"}
	for _, d := range sheet.Days {
		header = append(header, d.Format("02"))
	}
	header = append(header, "Rate (%)")

	rows := make([][]interface{}, 0, len(sheet.Rows))
	for _, r := range sheet.Rows {
		row := []interface{}{r.Student.FullName()}
		for _, status := range r.Statuses {
			row = append(row, statusMark(status))
		}
		rows = append(rows, append(row, r.Rate))
	}
	return addSheet(f, AttendanceSheet, header, rows)
}

// statusMark abbreviates an attendance status to its initial (P, A, L, E).
func statusMark(status null.String) interface{} {
	switch status.String {
	case classroom.AttendancePresent:
		return "P"
	case classroom.AttendanceAbsent:
		return "A"
	case classroom.AttendanceLate:
		return "L"
	case classroom.AttendanceExcused:
		return "E"
	}
	return nil
}

// BuildExport gathers the reports of an export: the summary of classID (0 for every class)
// and, for a single class, its gradebook and its attendance sheet for month.
func BuildExport(ctx context.Context, svc *report.Service, classID int, month time.Time) (Export, error) {
	var exp Export
	sum, err := svc.Summary(ctx, classID, -1)
	if err != nil {
		return exp, err
	}
	exp.Summary = sum
	if classID == 0 {
		return exp, nil
	}

	gb, err := svc.Gradebook(ctx, classID)
	if err != nil {
		return exp, err
	}
	sheet, err := svc.AttendanceSheet(ctx, classID, month)
	if err != nil {
		return exp, err
	}
	exp.Gradebook, exp.Attendance = &gb, &sheet
	return exp, nil
}
