package classroom

import (
	"time"

	"github.com/trezcool/classbook/core/record"
)

// Canonical field names.
const (
	FieldFirstName      = "firstName"
	FieldLastName       = "lastName"
	FieldEmail          = "email"
	FieldGrade          = "grade"
	FieldClassID        = "classId"
	FieldEnrollmentDate = "enrollmentDate"
	FieldStatus         = "status"
	FieldName           = "name"
	FieldSubject        = "subject"
	FieldPeriod         = "period"
	FieldRoom           = "room"
	FieldTitle          = "title"
	FieldTotalPoints    = "totalPoints"
	FieldDueDate        = "dueDate"
	FieldCategory       = "category"
	FieldStudentID      = "studentId"
	FieldAssignmentID   = "assignmentId"
	FieldScore          = "score"
	FieldSubmittedDate  = "submittedDate"
	FieldDate           = "date"
)

// Fields projected for each entity.
var (
	StudentFields    = []string{FieldFirstName, FieldLastName, FieldEmail, FieldGrade, FieldClassID, FieldEnrollmentDate, FieldStatus}
	ClassFields      = []string{FieldName, FieldSubject, FieldPeriod, FieldRoom}
	AssignmentFields = []string{FieldClassID, FieldTitle, FieldTotalPoints, FieldDueDate, FieldCategory}
	GradeFields      = []string{FieldStudentID, FieldAssignmentID, FieldScore, FieldSubmittedDate}
	AttendanceFields = []string{FieldStudentID, FieldClassID, FieldDate, FieldStatus}
)

func str(r record.Raw, field string) string {
	s, _ := r.String(field)
	return s
}

func integer(r record.Raw, field string) int {
	i, _ := r.Int(field)
	return i
}

func date(r record.Raw, field string) Date {
	d, _ := r.Date(field)
	return Date{d}
}

func dateValue(d Date) interface{} {
	if d.IsZero() {
		return nil
	}
	return d.String()
}

func timeValue(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// StudentFromRecord decodes a Student from either naming convention. status defaults to Active.
func StudentFromRecord(r record.Raw) Student {
	id, _ := r.ID()
	s := Student{
		ID:             id,
		FirstName:      str(r, FieldFirstName),
		LastName:       str(r, FieldLastName),
		Email:          str(r, FieldEmail),
		Grade:          str(r, FieldGrade),
		ClassID:        integer(r, FieldClassID),
		EnrollmentDate: date(r, FieldEnrollmentDate),
		Status:         str(r, FieldStatus),
	}
	if s.Status == "" {
		s.Status = StatusActive
	}
	return s
}

func (s Student) Record() record.Raw {
	return record.Raw{
		record.IDField:      s.ID,
		FieldFirstName:      s.FirstName,
		FieldLastName:       s.LastName,
		FieldEmail:          s.Email,
		FieldGrade:          s.Grade,
		FieldClassID:        s.ClassID,
		FieldEnrollmentDate: dateValue(s.EnrollmentDate),
		FieldStatus:         s.Status,
	}
}

func ClassFromRecord(r record.Raw) Class {
	id, _ := r.ID()
	return Class{
		ID:      id,
		Name:    str(r, FieldName),
		Subject: str(r, FieldSubject),
		Period:  str(r, FieldPeriod),
		Room:    str(r, FieldRoom),
	}
}

func (c Class) Record() record.Raw {
	return record.Raw{
		record.IDField: c.ID,
		FieldName:      c.Name,
		FieldSubject:   c.Subject,
		FieldPeriod:    c.Period,
		FieldRoom:      c.Room,
	}
}

func AssignmentFromRecord(r record.Raw) Assignment {
	id, _ := r.ID()
	return Assignment{
		ID:          id,
		ClassID:     integer(r, FieldClassID),
		Title:       str(r, FieldTitle),
		TotalPoints: integer(r, FieldTotalPoints),
		DueDate:     date(r, FieldDueDate),
		Category:    str(r, FieldCategory),
	}
}

func (a Assignment) Record() record.Raw {
	return record.Raw{
		record.IDField:   a.ID,
		FieldClassID:     a.ClassID,
		FieldTitle:       a.Title,
		FieldTotalPoints: a.TotalPoints,
		FieldDueDate:     dateValue(a.DueDate),
		FieldCategory:    a.Category,
	}
}

func GradeFromRecord(r record.Raw) Grade {
	id, _ := r.ID()
	score, _ := r.Float(FieldScore)
	submitted, _ := r.Time(FieldSubmittedDate)
	return Grade{
		ID:            id,
		StudentID:     integer(r, FieldStudentID),
		AssignmentID:  integer(r, FieldAssignmentID),
		Score:         score,
		SubmittedDate: submitted,
	}
}

func (g Grade) Record() record.Raw {
	return record.Raw{
		record.IDField:     g.ID,
		FieldStudentID:     g.StudentID,
		FieldAssignmentID:  g.AssignmentID,
		FieldScore:         g.Score,
		FieldSubmittedDate: timeValue(g.SubmittedDate),
	}
}

func AttendanceFromRecord(r record.Raw) AttendanceRecord {
	id, _ := r.ID()
	return AttendanceRecord{
		ID:        id,
		StudentID: integer(r, FieldStudentID),
		ClassID:   integer(r, FieldClassID),
		Date:      date(r, FieldDate),
		Status:    str(r, FieldStatus),
	}
}

func (a AttendanceRecord) Record() record.Raw {
	return record.Raw{
		record.IDField: a.ID,
		FieldStudentID: a.StudentID,
		FieldClassID:   a.ClassID,
		FieldDate:      dateValue(a.Date),
		FieldStatus:    a.Status,
	}
}

// Record returns the fields set on the partial update.
func (su UpdateStudent) Record() record.Raw {
	r := make(record.Raw)
	if su.FirstName != nil {
		r[FieldFirstName] = *su.FirstName
	}
	if su.LastName != nil {
		r[FieldLastName] = *su.LastName
	}
	if su.Email != nil {
		r[FieldEmail] = *su.Email
	}
	if su.Grade != nil {
		r[FieldGrade] = *su.Grade
	}
	if su.ClassID != nil {
		r[FieldClassID] = *su.ClassID
	}
	if su.EnrollmentDate != nil {
		r[FieldEnrollmentDate] = dateValue(*su.EnrollmentDate)
	}
	if su.Status != nil {
		r[FieldStatus] = *su.Status
	}
	return r
}

func (cu UpdateClass) Record() record.Raw {
	r := make(record.Raw)
	if cu.Name != nil {
		r[FieldName] = *cu.Name
	}
	if cu.Subject != nil {
		r[FieldSubject] = *cu.Subject
	}
	if cu.Period != nil {
		r[FieldPeriod] = *cu.Period
	}
	if cu.Room != nil {
		r[FieldRoom] = *cu.Room
	}
	return r
}

func (au UpdateAssignment) Record() record.Raw {
	r := make(record.Raw)
	if au.ClassID != nil {
		r[FieldClassID] = *au.ClassID
	}
	if au.Title != nil {
		r[FieldTitle] = *au.Title
	}
	if au.TotalPoints != nil {
		r[FieldTotalPoints] = *au.TotalPoints
	}
	if au.DueDate != nil {
		r[FieldDueDate] = dateValue(*au.DueDate)
	}
	if au.Category != nil {
		r[FieldCategory] = *au.Category
	}
	return r
}

func (gu UpdateGrade) Record() record.Raw {
	r := make(record.Raw)
	if gu.StudentID != nil {
		r[FieldStudentID] = *gu.StudentID
	}
	if gu.AssignmentID != nil {
		r[FieldAssignmentID] = *gu.AssignmentID
	}
	if gu.Score != nil {
		r[FieldScore] = *gu.Score
	}
	if gu.SubmittedDate != nil {
		r[FieldSubmittedDate] = timeValue(*gu.SubmittedDate)
	}
	return r
}

func (au UpdateAttendanceRecord) Record() record.Raw {
	r := make(record.Raw)
	if au.StudentID != nil {
		r[FieldStudentID] = *au.StudentID
	}
	if au.ClassID != nil {
		r[FieldClassID] = *au.ClassID
	}
	if au.Date != nil {
		r[FieldDate] = dateValue(*au.Date)
	}
	if au.Status != nil {
		r[FieldStatus] = *au.Status
	}
	return r
}
