package spreadsheet_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/classbook/core/classroom"
	"github.com/trezcool/classbook/core/report"
	"github.com/trezcool/classbook/storage/database/inmem"
	"github.com/trezcool/classbook/storage/spreadsheet"
	"github.com/trezcool/classbook/tests"
)

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &rows[i]))
	}
	buf := new(bytes.Buffer)
	require.NoError(t, f.Write(buf))
	return buf
}

func TestReadStudents(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"First Name", "last_name", "Email", "Grade", "Class ID", "Enrollment Date", "Status", "Notes"},
		{" Noah ", "Davis", "noah@school.test", "10th Grade", "", "2024-08-26", "", "ignored"},
		{"Mia", "Clark", "mia@school.test", "12th Grade", "2", "", "Inactive"},
		{"Ghost", "", "ghost@school.test"},
	})

	roster, err := spreadsheet.ReadStudents(buf, 1)
	require.NoError(t, err)
	require.Len(t, roster, 3)

	assert.Equal(t, classroom.RosterRow{
		Row: 2,
		Student: classroom.NewStudent{
			FirstName:      "Noah",
			LastName:       "Davis",
			Email:          "noah@school.test",
			Grade:          "10th Grade",
			ClassID:        1,
			EnrollmentDate: classroom.NewDate(2024, time.August, 26),
		},
	}, roster[0])
	assert.Equal(t, 2, roster[1].Student.ClassID, "an explicit class wins")
	assert.Equal(t, "Inactive", roster[1].Student.Status)
	assert.Equal(t, 4, roster[2].Row)
	assert.Equal(t, "", roster[2].Student.LastName)
	assert.NoError(t, roster[2].Err, "validation is left to the import")
}

func TestReadStudents_badCells(t *testing.T) {
	roster, err := spreadsheet.ReadStudents(workbook(t, [][]interface{}{
		{"First Name", "Last Name", "Email", "Class ID", "Enrollment Date"},
		{"Noah", "Davis", "noah@school.test", "2", ""},
		{"Mia", "Clark", "mia@school.test", "abc", ""},
		{"Ava", "Miller", "ava@school.test", "", "26/08/2024"},
		{"Liam", "Smith", "liam@school.test", "", "2024-09-03"},
	}), 1)
	require.NoError(t, err, "a bad cell only fails its row")
	require.Len(t, roster, 4)

	assert.NoError(t, roster[0].Err)
	assert.EqualError(t, roster[1].Err, `invalid class id "abc"`)
	assert.Equal(t, 3, roster[1].Row)
	assert.EqualError(t, roster[2].Err, `invalid enrollment date "26/08/2024"`)
	assert.NoError(t, roster[3].Err)
	assert.Equal(t, classroom.NewDate(2024, time.September, 3), roster[3].Student.EnrollmentDate)
}

func TestReadStudents_errors(t *testing.T) {
	_, err := spreadsheet.ReadStudents(workbook(t, [][]interface{}{{"First Name", "Email"}}), 0)
	assert.EqualError(t, err, `sheet "Sheet1" has no "lastname" column`)

	_, err = spreadsheet.ReadStudents(bytes.NewBufferString("not a workbook"), 0)
	assert.Error(t, err)
}

func TestStudentTemplate(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, spreadsheet.StudentTemplate(buf))

	students, err := spreadsheet.ReadStudents(buf, 0)
	require.NoError(t, err)
	assert.Empty(t, students)
}

func TestWriteReport(t *testing.T) {
	repo := inmemdb.NewRepository(inmemdb.OpenWithDataset(inmemdb.Options{}, testutil.Dataset()))
	validate, translator := classroom.NewValidator()
	svc := report.NewService(classroom.NewService(repo, validate, translator))
	ctx := context.Background()

	sum, err := svc.Summary(ctx, 1, report.DefaultTop)
	require.NoError(t, err)
	gb, err := svc.Gradebook(ctx, 1)
	require.NoError(t, err)
	month, err := report.ParseMonth("2024-10")
	require.NoError(t, err)
	sheet, err := svc.AttendanceSheet(ctx, 1, month)
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	require.NoError(t, spreadsheet.WriteReport(buf, spreadsheet.Export{Summary: sum, Gradebook: &gb, Attendance: &sheet}))

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{
		spreadsheet.SummarySheet, spreadsheet.StudentsSheet, spreadsheet.ClassesSheet,
		spreadsheet.GradebookSheet, spreadsheet.AttendanceSheet,
	}, f.GetSheetList())

	cell := func(sheet, axis string) string {
		v, err := f.GetCellValue(sheet, axis)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Algebra I", cell(spreadsheet.SummarySheet, "B2"))
	assert.Equal(t, "2", cell(spreadsheet.SummarySheet, "B3"))
	assert.Equal(t, "90", cell(spreadsheet.SummarySheet, "B5"))

	assert.Equal(t, "Emma Johnson", cell(spreadsheet.StudentsSheet, "B2"))
	assert.Equal(t, "A-", cell(spreadsheet.StudentsSheet, "F2"))

	assert.Equal(t, "Quiz", cell(spreadsheet.GradebookSheet, "B1"))
	assert.Equal(t, "45", cell(spreadsheet.GradebookSheet, "B2"))
	assert.Equal(t, "", cell(spreadsheet.GradebookSheet, "C2"))

	// Oct 14 is the 15th column (A holds the student)
	assert.Equal(t, "14", cell(spreadsheet.AttendanceSheet, "O1"))
	assert.Equal(t, "P", cell(spreadsheet.AttendanceSheet, "O2"))
	assert.Equal(t, "L", cell(spreadsheet.AttendanceSheet, "O3"))
}

func TestWriteReport_allClasses(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, spreadsheet.WriteReport(buf, spreadsheet.Export{}))

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Len(t, f.GetSheetList(), 3)
	v, err := f.GetCellValue(spreadsheet.SummarySheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "All Classes", v)
}
