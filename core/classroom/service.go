package classroom

import (
	"context"
	"fmt"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/classbook/core"
)

var NowFunc = time.Now // mockable

// Service is the gateway façade: it cleans, validates and defaults inputs before handing them to the Repository.
type Service struct {
	repo       Repository
	validate   *validator.Validate
	translator ut.Translator
}

func NewService(repo Repository, validate *validator.Validate, translator ut.Translator) *Service {
	return &Service{
		repo:       repo,
		validate:   validate,
		translator: translator,
	}
}

func (svc *Service) Translator() ut.Translator { return svc.translator }

// Today is the current UTC calendar date.
func Today() Date {
	return DateOf(NowFunc().UTC())
}

// Students

func (svc *Service) QueryStudents(ctx context.Context, filter StudentFilter) ([]Student, error) {
	students, err := svc.repo.QueryStudents(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	filter.Clean()
	if filter == (StudentFilter{}) {
		return students, nil
	}
	matched := make([]Student, 0, len(students))
	for _, s := range students {
		if filter.Match(s) {
			matched = append(matched, s)
		}
	}
	return matched, nil
}

// QueryStudentsWithClass returns the matching students along with their class name.
func (svc *Service) QueryStudentsWithClass(ctx context.Context, filter StudentFilter) ([]StudentWithClass, error) {
	students, err := svc.QueryStudents(ctx, filter)
	if err != nil {
		return nil, err
	}
	classes, err := svc.repo.QueryClasses(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	return WithClassNames(students, classes), nil
}

func (svc *Service) GetStudent(ctx context.Context, id int) (Student, error) {
	s, err := svc.repo.GetStudent(ctx, id)
	return s, errors.Wrap(err, "getting student")
}

func (svc *Service) GetStudentWithClass(ctx context.Context, id int) (StudentWithClass, error) {
	s, err := svc.GetStudent(ctx, id)
	if err != nil {
		return StudentWithClass{}, err
	}
	swc := StudentWithClass{Student: s, ClassName: NoClassName}
	if s.ClassID == 0 {
		return swc, nil
	}
	c, err := svc.repo.GetClass(ctx, s.ClassID)
	switch {
	case err == nil:
		swc.ClassName = c.Name
	case !errors.Is(err, core.ErrNotFound):
		return StudentWithClass{}, errors.Wrap(err, "getting student class")
	}
	return swc, nil
}

func (svc *Service) CreateStudent(ctx context.Context, ns NewStudent) (Student, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return Student{}, err
	}
	s := Student{
		FirstName:      ns.FirstName,
		LastName:       ns.LastName,
		Email:          ns.Email,
		Grade:          ns.Grade,
		ClassID:        ns.ClassID,
		EnrollmentDate: ns.EnrollmentDate,
		Status:         ns.Status,
	}
	if s.EnrollmentDate.IsZero() {
		s.EnrollmentDate = Today()
	}
	if s.Status == "" {
		s.Status = StatusActive
	}
	s, err := svc.repo.CreateStudent(ctx, s)
	return s, errors.Wrap(err, "creating student")
}

func (svc *Service) UpdateStudent(ctx context.Context, id int, su UpdateStudent) (Student, error) {
	if err := su.Validate(svc.validate); err != nil {
		return Student{}, err
	}
	s, err := svc.repo.UpdateStudent(ctx, id, su)
	return s, errors.Wrap(err, "updating student")
}

func (svc *Service) DeleteStudent(ctx context.Context, id int) (Student, error) {
	s, err := svc.repo.DeleteStudent(ctx, id)
	return s, errors.Wrap(err, "deleting student")
}

// ImportFailure describes a row that could not be imported.
type ImportFailure struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type ImportResult struct {
	Created []Student       `json:"created"`
	Failed  []ImportFailure `json:"failed"`
}

// RosterRow is one row of an imported roster: the student to create,
// or Err when the row could not be read.
type RosterRow struct {
	Row     int
	Student NewStudent
	Err     error
}

// ImportStudents creates the students of rows one by one, carrying on past unreadable or invalid rows.
func (svc *Service) ImportStudents(ctx context.Context, rows []RosterRow) (ImportResult, error) {
	res := ImportResult{Created: []Student{}, Failed: []ImportFailure{}}
	for _, row := range rows {
		if row.Err != nil {
			res.Failed = append(res.Failed, ImportFailure{Row: row.Row, Error: row.Err.Error()})
			continue
		}
		s, err := svc.CreateStudent(ctx, row.Student)
		if err != nil {
			var vErrs validator.ValidationErrors
			if errors.As(err, &vErrs) {
				res.Failed = append(res.Failed, ImportFailure{Row: row.Row, Error: describeValidation(vErrs, svc.translator)})
				continue
			}
			return res, errors.Wrapf(err, "importing row %d", row.Row)
		}
		res.Created = append(res.Created, s)
	}
	return res, nil
}

func describeValidation(errs validator.ValidationErrors, translator ut.Translator) string {
	if len(errs) == 0 {
		return ""
	}
	return fmt.Sprintf("%s: %s", errs[0].Field(), errs[0].Translate(translator))
}

// WithClassNames resolves each student's class name, defaulting to NoClassName.
func WithClassNames(students []Student, classes []Class) []StudentWithClass {
	names := make(map[int]string, len(classes))
	for _, c := range classes {
		names[c.ID] = c.Name
	}
	out := make([]StudentWithClass, 0, len(students))
	for _, s := range students {
		name, ok := names[s.ClassID]
		if !ok || name == "" {
			name = NoClassName
		}
		out = append(out, StudentWithClass{Student: s, ClassName: name})
	}
	return out
}

// Classes

func (svc *Service) QueryClasses(ctx context.Context) ([]Class, error) {
	classes, err := svc.repo.QueryClasses(ctx)
	return classes, errors.Wrap(err, "querying classes")
}

func (svc *Service) GetClass(ctx context.Context, id int) (Class, error) {
	c, err := svc.repo.GetClass(ctx, id)
	return c, errors.Wrap(err, "getting class")
}

func (svc *Service) CreateClass(ctx context.Context, nc NewClass) (Class, error) {
	if err := nc.Validate(svc.validate); err != nil {
		return Class{}, err
	}
	c, err := svc.repo.CreateClass(ctx, Class{
		Name:    nc.Name,
		Subject: nc.Subject,
		Period:  nc.Period,
		Room:    nc.Room,
	})
	return c, errors.Wrap(err, "creating class")
}

func (svc *Service) UpdateClass(ctx context.Context, id int, cu UpdateClass) (Class, error) {
	if err := cu.Validate(svc.validate); err != nil {
		return Class{}, err
	}
	c, err := svc.repo.UpdateClass(ctx, id, cu)
	return c, errors.Wrap(err, "updating class")
}

func (svc *Service) DeleteClass(ctx context.Context, id int) (Class, error) {
	c, err := svc.repo.DeleteClass(ctx, id)
	return c, errors.Wrap(err, "deleting class")
}

// Assignments

func (svc *Service) QueryAssignments(ctx context.Context, filter AssignmentFilter) ([]Assignment, error) {
	assignments, err := svc.repo.QueryAssignments(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	if filter == (AssignmentFilter{}) {
		return assignments, nil
	}
	matched := make([]Assignment, 0, len(assignments))
	for _, a := range assignments {
		if filter.Match(a) {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

func (svc *Service) GetAssignment(ctx context.Context, id int) (Assignment, error) {
	a, err := svc.repo.GetAssignment(ctx, id)
	return a, errors.Wrap(err, "getting assignment")
}

func (svc *Service) CreateAssignment(ctx context.Context, na NewAssignment) (Assignment, error) {
	if err := na.Validate(svc.validate); err != nil {
		return Assignment{}, err
	}
	a, err := svc.repo.CreateAssignment(ctx, Assignment{
		ClassID:     na.ClassID,
		Title:       na.Title,
		TotalPoints: na.TotalPoints,
		DueDate:     na.DueDate,
		Category:    na.Category,
	})
	return a, errors.Wrap(err, "creating assignment")
}

func (svc *Service) UpdateAssignment(ctx context.Context, id int, au UpdateAssignment) (Assignment, error) {
	if err := au.Validate(svc.validate); err != nil {
		return Assignment{}, err
	}
	a, err := svc.repo.UpdateAssignment(ctx, id, au)
	return a, errors.Wrap(err, "updating assignment")
}

func (svc *Service) DeleteAssignment(ctx context.Context, id int) (Assignment, error) {
	a, err := svc.repo.DeleteAssignment(ctx, id)
	return a, errors.Wrap(err, "deleting assignment")
}

// Grades

func (svc *Service) QueryGrades(ctx context.Context, filter GradeFilter) ([]Grade, error) {
	grades, err := svc.repo.QueryGrades(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying grades")
	}
	if filter == (GradeFilter{}) {
		return grades, nil
	}
	matched := make([]Grade, 0, len(grades))
	for _, g := range grades {
		if filter.Match(g) {
			matched = append(matched, g)
		}
	}
	return matched, nil
}

func (svc *Service) GetGrade(ctx context.Context, id int) (Grade, error) {
	g, err := svc.repo.GetGrade(ctx, id)
	return g, errors.Wrap(err, "getting grade")
}

func (svc *Service) CreateGrade(ctx context.Context, ng NewGrade) (Grade, error) {
	if err := ng.Validate(svc.validate); err != nil {
		return Grade{}, err
	}
	g := Grade{
		StudentID:     ng.StudentID,
		AssignmentID:  ng.AssignmentID,
		Score:         *ng.Score,
		SubmittedDate: ng.SubmittedDate.UTC().Truncate(time.Second),
	}
	if ng.SubmittedDate.IsZero() {
		g.SubmittedDate = NowFunc().UTC().Truncate(time.Second)
	}
	g, err := svc.repo.CreateGrade(ctx, g)
	return g, errors.Wrap(err, "creating grade")
}

func (svc *Service) UpdateGrade(ctx context.Context, id int, gu UpdateGrade) (Grade, error) {
	if err := gu.Validate(svc.validate); err != nil {
		return Grade{}, err
	}
	if gu.SubmittedDate != nil {
		ts := gu.SubmittedDate.UTC().Truncate(time.Second)
		gu.SubmittedDate = &ts
	}
	g, err := svc.repo.UpdateGrade(ctx, id, gu)
	return g, errors.Wrap(err, "updating grade")
}

func (svc *Service) DeleteGrade(ctx context.Context, id int) (Grade, error) {
	g, err := svc.repo.DeleteGrade(ctx, id)
	return g, errors.Wrap(err, "deleting grade")
}

// Attendance

func (svc *Service) QueryAttendance(ctx context.Context, filter AttendanceFilter) ([]AttendanceRecord, error) {
	records, err := svc.repo.QueryAttendance(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying attendance")
	}
	if filter == (AttendanceFilter{}) {
		return records, nil
	}
	matched := make([]AttendanceRecord, 0, len(records))
	for _, a := range records {
		if filter.Match(a) {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

func (svc *Service) GetAttendance(ctx context.Context, id int) (AttendanceRecord, error) {
	a, err := svc.repo.GetAttendance(ctx, id)
	return a, errors.Wrap(err, "getting attendance record")
}

func (svc *Service) CreateAttendance(ctx context.Context, na NewAttendanceRecord) (AttendanceRecord, error) {
	if err := na.Validate(svc.validate); err != nil {
		return AttendanceRecord{}, err
	}
	a := AttendanceRecord{
		StudentID: na.StudentID,
		ClassID:   na.ClassID,
		Date:      na.Date,
		Status:    na.Status,
	}
	if a.Date.IsZero() {
		a.Date = Today()
	}
	a, err := svc.repo.CreateAttendance(ctx, a)
	return a, errors.Wrap(err, "creating attendance record")
}

func (svc *Service) UpdateAttendance(ctx context.Context, id int, au UpdateAttendanceRecord) (AttendanceRecord, error) {
	if err := au.Validate(svc.validate); err != nil {
		return AttendanceRecord{}, err
	}
	a, err := svc.repo.UpdateAttendance(ctx, id, au)
	return a, errors.Wrap(err, "updating attendance record")
}

func (svc *Service) DeleteAttendance(ctx context.Context, id int) (AttendanceRecord, error) {
	a, err := svc.repo.DeleteAttendance(ctx, id)
	return a, errors.Wrap(err, "deleting attendance record")
}
