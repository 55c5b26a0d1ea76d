package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/classbook/core/report"
	"github.com/trezcool/classbook/storage/spreadsheet"
)

func orDash(v null.Int) string {
	if !v.Valid {
		return "-"
	}
	return fmt.Sprintf("%d%%", v.Int)
}

func (cli *commandLine) report(classID, top int, asJSON bool) error {
	sum, err := cli.backend.ReportSvc.Summary(context.Background(), classID, top)
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(cli.out)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}

	name := sum.ClassName
	if classID == 0 {
		name = "All Classes"
	}
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%s\n\n", name)
	fmt.Fprintf(w, "Students\t%d (%d active)\n", sum.TotalStudents, sum.ActiveStudents)
	fmt.Fprintf(w, "Average grade\t%s\n", orDash(sum.AverageGrade))
	fmt.Fprintf(w, "Attendance\t%s (%d present, %d absent, %d late, %d excused)\n",
		orDash(sum.Attendance.Rate), sum.Attendance.Present, sum.Attendance.Absent, sum.Attendance.Late, sum.Attendance.Excused)

	fmt.Fprintf(w, "\n#\tStudent\tAverage\tLetter\n")
	for i, st := range sum.TopStudents {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, st.Student.FullName(), orDash(st.Rounded), st.Letter.String)
	}

	fmt.Fprintf(w, "\n#\tClass\tAverage\tStudents\n")
	for i, cs := range sum.Classes {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", i+1, cs.Class.Name, orDash(cs.Average), cs.StudentCount)
	}
	return w.Flush()
}

func (cli *commandLine) export(path string, classID int, month string) error {
	m, err := report.ParseMonth(month)
	if err != nil {
		return err
	}
	exp, err := spreadsheet.BuildExport(context.Background(), cli.backend.ReportSvc, classID, m)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating export file")
	}
	if err = spreadsheet.WriteReport(f, exp); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return errors.Wrap(err, "closing export file")
	}
	fmt.Fprintf(cli.out, "report written to %s\n", path)
	return nil
}

func (cli *commandLine) importStudents(path string, classID int) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening roster")
	}
	defer func() { _ = f.Close() }()

	rows, err := spreadsheet.ReadStudents(f, classID)
	if err != nil {
		return err
	}
	res, err := cli.backend.ClassroomSvc.ImportStudents(context.Background(), rows)
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.out, "imported %d students\n", len(res.Created))
	for _, failure := range res.Failed {
		fmt.Fprintf(cli.out, "row %d: %s\n", failure.Row, failure.Error)
	}
	return nil
}
