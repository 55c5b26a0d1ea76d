// Package report assembles the read-only views served to the presentation layer
// from gateway reads and the grading aggregations.
package report

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/classbook/core/classroom"
	"github.com/trezcool/classbook/core/grading"
)

const (
	DefaultTop   = 5
	recentGrades = 5
	monthLayout  = "2006-01"
)

type (
	Dashboard struct {
		Date           classroom.Date            `json:"date"`
		TotalStudents  int                       `json:"totalStudents"`
		ActiveStudents int                       `json:"activeStudents"`
		TotalClasses   int                       `json:"totalClasses"`
		Attendance     grading.AttendanceSummary `json:"attendance"` // records dated Date
		AverageGrade   null.Int                  `json:"averageGrade"`
		Classes        []grading.ClassStanding   `json:"classes"`
		RecentGrades   []RecentGrade             `json:"recentGrades"`
	}

	RecentGrade struct {
		classroom.Grade
		StudentName     string      `json:"studentName"`
		AssignmentTitle string      `json:"assignmentTitle"`
		Percentage      null.Int    `json:"percentage"`
		Letter          null.String `json:"letter"`
	}

	Summary struct {
		ClassID        int                       `json:"classId"` // 0 for every class
		ClassName      string                    `json:"className"`
		TotalStudents  int                       `json:"totalStudents"`
		ActiveStudents int                       `json:"activeStudents"`
		Attendance     grading.AttendanceSummary `json:"attendance"`
		AverageGrade   null.Int                  `json:"averageGrade"`
		TopStudents    []grading.StudentStanding `json:"topStudents"`
		Classes        []grading.ClassStanding   `json:"classes"`
	}

	Gradebook struct {
		Class       classroom.Class        `json:"class"`
		Assignments []classroom.Assignment `json:"assignments"`
		Rows        []GradebookRow         `json:"rows"`
	}

	// GradebookRow holds one score per gradebook assignment, in the same order; no data when ungraded.
	GradebookRow struct {
		Student    classroom.Student `json:"student"`
		Scores     []null.Float64    `json:"scores"`
		Percentage null.Int          `json:"percentage"`
		Letter     null.String       `json:"letter"`
		Variant    string            `json:"variant"`
	}

	AttendanceSheet struct {
		Class classroom.Class  `json:"class"`
		Month string           `json:"month"` // YYYY-MM
		Days  []classroom.Date `json:"days"`
		Rows  []AttendanceRow  `json:"rows"`
	}

	// AttendanceRow holds one status per sheet day, in the same order; no data when unrecorded.
	// Rate and Summary cover every record of the student, not only the month.
	AttendanceRow struct {
		Student  classroom.Student         `json:"student"`
		Statuses []null.String             `json:"statuses"`
		Rate     int                       `json:"rate"`
		Summary  grading.AttendanceSummary `json:"summary"`
	}
)

// Service builds reports on top of the gateway.
type Service struct {
	gateway *classroom.Service
}

func NewService(gateway *classroom.Service) *Service {
	return &Service{gateway: gateway}
}

type snapshot struct {
	students    []classroom.Student
	classes     []classroom.Class
	assignments []classroom.Assignment
	grades      []classroom.Grade
	attendance  []classroom.AttendanceRecord
}

func (svc *Service) snapshot(ctx context.Context) (snapshot, error) {
	var (
		snap snapshot
		err  error
	)
	if snap.students, err = svc.gateway.QueryStudents(ctx, classroom.StudentFilter{}); err != nil {
		return snap, err
	}
	if snap.classes, err = svc.gateway.QueryClasses(ctx); err != nil {
		return snap, err
	}
	if snap.assignments, err = svc.gateway.QueryAssignments(ctx, classroom.AssignmentFilter{}); err != nil {
		return snap, err
	}
	if snap.grades, err = svc.gateway.QueryGrades(ctx, classroom.GradeFilter{}); err != nil {
		return snap, err
	}
	if snap.attendance, err = svc.gateway.QueryAttendance(ctx, classroom.AttendanceFilter{}); err != nil {
		return snap, err
	}
	return snap, nil
}

func countActive(students []classroom.Student) int {
	var n int
	for _, s := range students {
		if s.IsActive() {
			n++
		}
	}
	return n
}

// Dashboard reports the school-wide figures of the given day.
func (svc *Service) Dashboard(ctx context.Context, day classroom.Date) (Dashboard, error) {
	snap, err := svc.snapshot(ctx)
	if err != nil {
		return Dashboard{}, errors.Wrap(err, "building dashboard")
	}

	todays := make([]classroom.AttendanceRecord, 0)
	for _, a := range snap.attendance {
		if a.Date.Equal(day) {
			todays = append(todays, a)
		}
	}

	return Dashboard{
		Date:           day,
		TotalStudents:  len(snap.students),
		ActiveStudents: countActive(snap.students),
		TotalClasses:   len(snap.classes),
		Attendance:     grading.SummarizeAttendance(todays),
		AverageGrade:   grading.OverallAverage(snap.grades, snap.assignments),
		Classes:        grading.ClassStandings(snap.classes, snap.students, snap.grades, snap.assignments),
		RecentGrades:   recent(snap, recentGrades),
	}, nil
}

// recent returns the n latest submitted grades, newest first.
func recent(snap snapshot, n int) []RecentGrade {
	grades := append([]classroom.Grade(nil), snap.grades...)
	sort.SliceStable(grades, func(i, j int) bool {
		return grades[i].SubmittedDate.After(grades[j].SubmittedDate)
	})
	if len(grades) > n {
		grades = grades[:n]
	}

	students := make(map[int]classroom.Student, len(snap.students))
	for _, s := range snap.students {
		students[s.ID] = s
	}
	assignments := make(map[int]classroom.Assignment, len(snap.assignments))
	for _, a := range snap.assignments {
		assignments[a.ID] = a
	}

	out := make([]RecentGrade, 0, len(grades))
	for _, g := range grades {
		rg := RecentGrade{Grade: g}
		if s, ok := students[g.StudentID]; ok {
			rg.StudentName = s.FullName()
		}
		if a, ok := assignments[g.AssignmentID]; ok {
			rg.AssignmentTitle = a.Title
			pct := grading.StudentAverage(g.StudentID, []classroom.Grade{g}, []classroom.Assignment{a})
			rg.Percentage = grading.Round(pct)
			rg.Letter = grading.Letter(pct)
		}
		out = append(out, rg)
	}
	return out
}

// Summary reports the figures of one class (every class when classID is 0), with its top students.
// A negative top lists every student.
func (svc *Service) Summary(ctx context.Context, classID, top int) (Summary, error) {
	snap, err := svc.snapshot(ctx)
	if err != nil {
		return Summary{}, errors.Wrap(err, "building summary")
	}

	sum := Summary{ClassID: classID}
	students := snap.students
	if classID != 0 {
		class, err := svc.gateway.GetClass(ctx, classID)
		if err != nil {
			return Summary{}, errors.Wrap(err, "building summary")
		}
		sum.ClassName = class.Name

		filter := classroom.StudentFilter{ClassID: classID}
		students = make([]classroom.Student, 0)
		for _, s := range snap.students {
			if filter.Match(s) {
				students = append(students, s)
			}
		}
	}

	enrolled := make(map[int]bool, len(students))
	for _, s := range students {
		enrolled[s.ID] = true
	}
	attendance := snap.attendance
	grades := snap.grades
	if classID != 0 {
		attendance = make([]classroom.AttendanceRecord, 0)
		for _, a := range snap.attendance {
			if enrolled[a.StudentID] {
				attendance = append(attendance, a)
			}
		}
		grades = make([]classroom.Grade, 0)
		for _, g := range snap.grades {
			if enrolled[g.StudentID] {
				grades = append(grades, g)
			}
		}
	}

	sum.TotalStudents = len(students)
	sum.ActiveStudents = countActive(students)
	sum.Attendance = grading.SummarizeAttendance(attendance)
	sum.AverageGrade = grading.OverallAverage(grades, snap.assignments)
	sum.TopStudents = grading.Top(grading.RankStudents(grading.StudentStandings(students, snap.grades, snap.assignments)), top)
	sum.Classes = grading.RankClasses(grading.ClassStandings(snap.classes, snap.students, snap.grades, snap.assignments))
	return sum, nil
}

// Gradebook crosses the assignments of a class with its students.
func (svc *Service) Gradebook(ctx context.Context, classID int) (Gradebook, error) {
	class, err := svc.gateway.GetClass(ctx, classID)
	if err != nil {
		return Gradebook{}, errors.Wrap(err, "building gradebook")
	}
	students, err := svc.gateway.QueryStudents(ctx, classroom.StudentFilter{ClassID: classID})
	if err != nil {
		return Gradebook{}, errors.Wrap(err, "building gradebook")
	}
	assignments, err := svc.gateway.QueryAssignments(ctx, classroom.AssignmentFilter{ClassID: classID})
	if err != nil {
		return Gradebook{}, errors.Wrap(err, "building gradebook")
	}
	grades, err := svc.gateway.QueryGrades(ctx, classroom.GradeFilter{})
	if err != nil {
		return Gradebook{}, errors.Wrap(err, "building gradebook")
	}

	type cell struct{ student, assignment int }
	// the most recently submitted grade fills a cell; ties keep the first one stored
	latest := make(map[cell]classroom.Grade, len(grades))
	for _, g := range grades {
		k := cell{g.StudentID, g.AssignmentID}
		if cur, ok := latest[k]; !ok || g.SubmittedDate.After(cur.SubmittedDate) {
			latest[k] = g
		}
	}

	gb := Gradebook{Class: class, Assignments: assignments, Rows: make([]GradebookRow, 0, len(students))}
	for _, st := range grading.StudentStandings(students, grades, assignments) {
		row := GradebookRow{
			Student:    st.Student,
			Scores:     make([]null.Float64, 0, len(assignments)),
			Percentage: st.Rounded,
			Letter:     st.Letter,
			Variant:    st.Variant,
		}
		for _, a := range assignments {
			g, ok := latest[cell{st.Student.ID, a.ID}]
			row.Scores = append(row.Scores, null.NewFloat64(g.Score, ok))
		}
		gb.Rows = append(gb.Rows, row)
	}
	return gb, nil
}

// ParseMonth parses a YYYY-MM month, defaulting to the current one.
func ParseMonth(s string) (time.Time, error) {
	if s == "" {
		now := classroom.NowFunc().UTC()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	m, err := time.Parse(monthLayout, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parsing month %q", s)
	}
	return m, nil
}

// AttendanceSheet crosses the days of a month with the students of a class.
func (svc *Service) AttendanceSheet(ctx context.Context, classID int, month time.Time) (AttendanceSheet, error) {
	class, err := svc.gateway.GetClass(ctx, classID)
	if err != nil {
		return AttendanceSheet{}, errors.Wrap(err, "building attendance sheet")
	}
	students, err := svc.gateway.QueryStudents(ctx, classroom.StudentFilter{ClassID: classID})
	if err != nil {
		return AttendanceSheet{}, errors.Wrap(err, "building attendance sheet")
	}
	records, err := svc.gateway.QueryAttendance(ctx, classroom.AttendanceFilter{})
	if err != nil {
		return AttendanceSheet{}, errors.Wrap(err, "building attendance sheet")
	}

	first := classroom.NewDate(month.Year(), month.Month(), 1)
	days := make([]classroom.Date, 0, 31)
	for d := first.Time; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		days = append(days, classroom.Date{Time: d})
	}

	type cell struct {
		student int
		day     string
	}
	perStudent := make(map[int][]classroom.AttendanceRecord)
	statuses := make(map[cell]string)
	for _, r := range records {
		perStudent[r.StudentID] = append(perStudent[r.StudentID], r)
		if r.ClassID == classID {
			statuses[cell{r.StudentID, r.Date.String()}] = r.Status
		}
	}

	sheet := AttendanceSheet{
		Class: class,
		Month: first.Format(monthLayout),
		Days:  days,
		Rows:  make([]AttendanceRow, 0, len(students)),
	}
	for _, s := range students {
		row := AttendanceRow{
			Student:  s,
			Statuses: make([]null.String, 0, len(days)),
			Rate:     grading.AttendanceRate(perStudent[s.ID]),
			Summary:  grading.SummarizeAttendance(perStudent[s.ID]),
		}
		for _, d := range days {
			status, ok := statuses[cell{s.ID, d.String()}]
			row.Statuses = append(row.Statuses, null.NewString(status, ok))
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}
