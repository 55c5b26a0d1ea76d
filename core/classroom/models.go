package classroom

import (
	"strings"
	"time"
)

// Student statuses
const (
	StatusActive    = "Active"
	StatusInactive  = "Inactive"
	StatusSuspended = "Suspended"
)

// Attendance statuses
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLate    = "late"
	AttendanceExcused = "excused"
)

// NoClassName is displayed for students whose class cannot be resolved.
const NoClassName = "No Class"

var (
	StudentStatuses    = []string{StatusActive, StatusInactive, StatusSuspended}
	AttendanceStatuses = []string{AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused}
)

type Student struct {
	ID             int    `json:"Id" db:"id"`
	FirstName      string `json:"firstName" db:"first_name"`
	LastName       string `json:"lastName" db:"last_name"`
	Email          string `json:"email" db:"email"`
	Grade          string `json:"grade" db:"grade"` // grade band, eg. "10th Grade"
	ClassID        int    `json:"classId" db:"class_id"`
	EnrollmentDate Date   `json:"enrollmentDate" db:"enrollment_date"`
	Status         string `json:"status" db:"status"`
}

func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

func (s Student) IsActive() bool {
	return s.Status == StatusActive
}

// StudentWithClass is a Student along with its class name, resolved at read time.
type StudentWithClass struct {
	Student
	ClassName string `json:"className"`
}

type Class struct {
	ID      int    `json:"Id" db:"id"`
	Name    string `json:"name" db:"name"`
	Subject string `json:"subject" db:"subject"`
	Period  string `json:"period" db:"period"`
	Room    string `json:"room" db:"room"`
}

type Assignment struct {
	ID          int    `json:"Id" db:"id"`
	ClassID     int    `json:"classId" db:"class_id"`
	Title       string `json:"title" db:"title"`
	TotalPoints int    `json:"totalPoints" db:"total_points"`
	DueDate     Date   `json:"dueDate" db:"due_date"`
	Category    string `json:"category" db:"category"`
}

type Grade struct {
	ID            int       `json:"Id" db:"id"`
	StudentID     int       `json:"studentId" db:"student_id"`
	AssignmentID  int       `json:"assignmentId" db:"assignment_id"`
	Score         float64   `json:"score" db:"score"`
	SubmittedDate time.Time `json:"submittedDate" db:"submitted_date"` // UTC
}

type AttendanceRecord struct {
	ID        int    `json:"Id" db:"id"`
	StudentID int    `json:"studentId" db:"student_id"`
	ClassID   int    `json:"classId" db:"class_id"`
	Date      Date   `json:"date" db:"date"`
	Status    string `json:"status" db:"status"`
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	FirstName      string `json:"firstName" validate:"required"`
	LastName       string `json:"lastName" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Grade          string `json:"grade" validate:"required"`
	ClassID        int    `json:"classId" validate:"omitempty,min=1"`
	EnrollmentDate Date   `json:"enrollmentDate"`
	Status         string `json:"status" validate:"omitempty,student_status"`
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// nil fields are left untouched.
type UpdateStudent struct {
	FirstName      *string `json:"firstName" validate:"omitempty,min=1"`
	LastName       *string `json:"lastName" validate:"omitempty,min=1"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Grade          *string `json:"grade" validate:"omitempty,min=1"`
	ClassID        *int    `json:"classId" validate:"omitempty,min=0"`
	EnrollmentDate *Date   `json:"enrollmentDate"`
	Status         *string `json:"status" validate:"omitempty,student_status"`
}

type NewClass struct {
	Name    string `json:"name" validate:"required"`
	Subject string `json:"subject" validate:"required"`
	Period  string `json:"period"`
	Room    string `json:"room"`
}

type UpdateClass struct {
	Name    *string `json:"name" validate:"omitempty,min=1"`
	Subject *string `json:"subject" validate:"omitempty,min=1"`
	Period  *string `json:"period"`
	Room    *string `json:"room"`
}

type NewAssignment struct {
	ClassID     int    `json:"classId" validate:"required,min=1"`
	Title       string `json:"title" validate:"required"`
	TotalPoints int    `json:"totalPoints" validate:"required,min=1"`
	DueDate     Date   `json:"dueDate"`
	Category    string `json:"category"`
}

type UpdateAssignment struct {
	ClassID     *int    `json:"classId" validate:"omitempty,min=1"`
	Title       *string `json:"title" validate:"omitempty,min=1"`
	TotalPoints *int    `json:"totalPoints" validate:"omitempty,min=1"`
	DueDate     *Date   `json:"dueDate"`
	Category    *string `json:"category"`
}

type NewGrade struct {
	StudentID     int       `json:"studentId" validate:"required,min=1"`
	AssignmentID  int       `json:"assignmentId" validate:"required,min=1"`
	Score         *float64  `json:"score" validate:"required,min=0"`
	SubmittedDate time.Time `json:"submittedDate"`
}

type UpdateGrade struct {
	StudentID     *int       `json:"studentId" validate:"omitempty,min=1"`
	AssignmentID  *int       `json:"assignmentId" validate:"omitempty,min=1"`
	Score         *float64   `json:"score" validate:"omitempty,min=0"`
	SubmittedDate *time.Time `json:"submittedDate"`
}

type NewAttendanceRecord struct {
	StudentID int    `json:"studentId" validate:"required,min=1"`
	ClassID   int    `json:"classId" validate:"required,min=1"`
	Date      Date   `json:"date"`
	Status    string `json:"status" validate:"required,attendance_status"`
}

type UpdateAttendanceRecord struct {
	StudentID *int    `json:"studentId" validate:"omitempty,min=1"`
	ClassID   *int    `json:"classId" validate:"omitempty,min=1"`
	Date      *Date   `json:"date"`
	Status    *string `json:"status" validate:"omitempty,attendance_status"`
}

// StudentFilter narrows QueryStudents results; zero values match everything.
type StudentFilter struct {
	Search  string `query:"search"` // case-insensitive match on full name, email or grade band
	ClassID int    `query:"class_id"`
	Status  string `query:"status"`
}

func (f *StudentFilter) Clean() {
	f.Search = strings.ToLower(strings.TrimSpace(f.Search))
	f.Status = strings.TrimSpace(f.Status)
}

func (f StudentFilter) Match(s Student) bool {
	if f.ClassID != 0 && s.ClassID != f.ClassID {
		return false
	}
	if f.Status != "" && !strings.EqualFold(s.Status, f.Status) {
		return false
	}
	if f.Search != "" {
		search := strings.ToLower(f.Search)
		return strings.Contains(strings.ToLower(s.FullName()), search) ||
			strings.Contains(strings.ToLower(s.Email), search) ||
			strings.Contains(strings.ToLower(s.Grade), search)
	}
	return true
}

type AssignmentFilter struct {
	ClassID  int    `query:"class_id"`
	Category string `query:"category"`
}

func (f AssignmentFilter) Match(a Assignment) bool {
	return (f.ClassID == 0 || a.ClassID == f.ClassID) &&
		(f.Category == "" || strings.EqualFold(a.Category, f.Category))
}

type GradeFilter struct {
	StudentID    int `query:"student_id"`
	AssignmentID int `query:"assignment_id"`
}

func (f GradeFilter) Match(g Grade) bool {
	return (f.StudentID == 0 || g.StudentID == f.StudentID) &&
		(f.AssignmentID == 0 || g.AssignmentID == f.AssignmentID)
}

type AttendanceFilter struct {
	StudentID int    `query:"student_id"`
	ClassID   int    `query:"class_id"`
	Status    string `query:"status"`
	From      Date   `query:"from"` // inclusive
	To        Date   `query:"to"`   // inclusive
}

func (f AttendanceFilter) Match(a AttendanceRecord) bool {
	if f.StudentID != 0 && a.StudentID != f.StudentID {
		return false
	}
	if f.ClassID != 0 && a.ClassID != f.ClassID {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if !f.From.IsZero() && a.Date.Before(f.From.Time) {
		return false
	}
	if !f.To.IsZero() && a.Date.After(f.To.Time) {
		return false
	}
	return true
}
