// Package spreadsheet reads student rosters from and writes reports to xlsx workbooks.
package spreadsheet

import (
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/classbook/core/classroom"
)

// FirstDataRow is the workbook row number of the first student, right under the header.
const FirstDataRow = 2

// StudentColumns is the roster header, in the order written by StudentTemplate.
var StudentColumns = []string{"firstName", "lastName", "email", "grade", "classId", "enrollmentDate", "status"}

// header names are matched without case, spaces or underscores ("First Name", "first_name").
func headerKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

// ReadStudents reads the first sheet of an xlsx roster. Columns are located by their header;
// unknown columns are ignored. classID, when not 0, is used for rows that do not name a class.
// Every row under the header is returned, numbered as in the workbook. A cell that cannot be
// parsed fails its row only.
func ReadStudents(r io.Reader, classID int) ([]classroom.RosterRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "opening workbook")
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("workbook does not contain any sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "reading sheet %q", sheet)
	}
	if len(rows) == 0 {
		return nil, errors.Errorf("sheet %q is empty", sheet)
	}

	cols := make(map[string]int)
	for i, name := range rows[0] {
		cols[headerKey(name)] = i
	}
	for _, required := range []string{"firstname", "lastname", "email"} {
		if _, ok := cols[required]; !ok {
			return nil, errors.Errorf("sheet %q has no %q column", sheet, required)
		}
	}

	roster := make([]classroom.RosterRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		cell := func(key string) string {
			idx, ok := cols[key]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		rr := classroom.RosterRow{
			Row: i + FirstDataRow,
			Student: classroom.NewStudent{
				FirstName: cell("firstname"),
				LastName:  cell("lastname"),
				Email:     cell("email"),
				Grade:     cell("grade"),
				ClassID:   classID,
				Status:    cell("status"),
			},
		}
		if v := cell("classid"); v != "" {
			if id, err := strconv.Atoi(v); err != nil {
				rr.Err = errors.Errorf("invalid class id %q", v)
			} else {
				rr.Student.ClassID = id
			}
		}
		if v := cell("enrollmentdate"); v != "" && rr.Err == nil {
			if d, err := classroom.ParseDate(v); err != nil {
				rr.Err = errors.Errorf("invalid enrollment date %q", v)
			} else {
				rr.Student.EnrollmentDate = d
			}
		}
		roster = append(roster, rr)
	}
	return roster, nil
}

// StudentTemplate writes an empty roster holding only the header row.
func StudentTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if err := writeHeader(f, sheet, StudentColumns); err != nil {
		return err
	}
	return errors.Wrap(f.Write(w), "writing workbook")
}
