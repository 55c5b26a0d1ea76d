package classroom

import "context"

// Resource names, used in NotFound errors.
const (
	ResourceStudent    = "student"
	ResourceClass      = "class"
	ResourceAssignment = "assignment"
	ResourceGrade      = "grade"
	ResourceAttendance = "attendance record"
)

// The per-entity gateway contract. Every backend must honor it identically:
//   - Query* returns every record, in storage order
//   - Get*, Update* and Delete* fail with a *core.NotFoundError when the id is absent
//   - Create* ignores the ID it is given and returns the record with its assigned ID
//   - Update* only changes the fields set on the partial update
//   - Delete* returns the removed record and leaves the record set untouched on failure
type (
	StudentRepository interface {
		QueryStudents(ctx context.Context) ([]Student, error)
		GetStudent(ctx context.Context, id int) (Student, error)
		CreateStudent(ctx context.Context, s Student) (Student, error)
		UpdateStudent(ctx context.Context, id int, su UpdateStudent) (Student, error)
		DeleteStudent(ctx context.Context, id int) (Student, error)
	}

	ClassRepository interface {
		QueryClasses(ctx context.Context) ([]Class, error)
		GetClass(ctx context.Context, id int) (Class, error)
		CreateClass(ctx context.Context, c Class) (Class, error)
		UpdateClass(ctx context.Context, id int, cu UpdateClass) (Class, error)
		DeleteClass(ctx context.Context, id int) (Class, error)
	}

	AssignmentRepository interface {
		QueryAssignments(ctx context.Context) ([]Assignment, error)
		GetAssignment(ctx context.Context, id int) (Assignment, error)
		CreateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		UpdateAssignment(ctx context.Context, id int, au UpdateAssignment) (Assignment, error)
		DeleteAssignment(ctx context.Context, id int) (Assignment, error)
	}

	GradeRepository interface {
		QueryGrades(ctx context.Context) ([]Grade, error)
		GetGrade(ctx context.Context, id int) (Grade, error)
		CreateGrade(ctx context.Context, g Grade) (Grade, error)
		UpdateGrade(ctx context.Context, id int, gu UpdateGrade) (Grade, error)
		DeleteGrade(ctx context.Context, id int) (Grade, error)
	}

	AttendanceRepository interface {
		QueryAttendance(ctx context.Context) ([]AttendanceRecord, error)
		GetAttendance(ctx context.Context, id int) (AttendanceRecord, error)
		CreateAttendance(ctx context.Context, a AttendanceRecord) (AttendanceRecord, error)
		UpdateAttendance(ctx context.Context, id int, au UpdateAttendanceRecord) (AttendanceRecord, error)
		DeleteAttendance(ctx context.Context, id int) (AttendanceRecord, error)
	}

	// Repository is the Data Access Gateway: one implementation per backend.
	Repository interface {
		StudentRepository
		ClassRepository
		AssignmentRepository
		GradeRepository
		AttendanceRepository
	}
)

// Apply returns s with the fields set on su.
func (su UpdateStudent) Apply(s Student) Student {
	if su.FirstName != nil {
		s.FirstName = *su.FirstName
	}
	if su.LastName != nil {
		s.LastName = *su.LastName
	}
	if su.Email != nil {
		s.Email = *su.Email
	}
	if su.Grade != nil {
		s.Grade = *su.Grade
	}
	if su.ClassID != nil {
		s.ClassID = *su.ClassID
	}
	if su.EnrollmentDate != nil {
		s.EnrollmentDate = *su.EnrollmentDate
	}
	if su.Status != nil {
		s.Status = *su.Status
	}
	return s
}

func (cu UpdateClass) Apply(c Class) Class {
	if cu.Name != nil {
		c.Name = *cu.Name
	}
	if cu.Subject != nil {
		c.Subject = *cu.Subject
	}
	if cu.Period != nil {
		c.Period = *cu.Period
	}
	if cu.Room != nil {
		c.Room = *cu.Room
	}
	return c
}

func (au UpdateAssignment) Apply(a Assignment) Assignment {
	if au.ClassID != nil {
		a.ClassID = *au.ClassID
	}
	if au.Title != nil {
		a.Title = *au.Title
	}
	if au.TotalPoints != nil {
		a.TotalPoints = *au.TotalPoints
	}
	if au.DueDate != nil {
		a.DueDate = *au.DueDate
	}
	if au.Category != nil {
		a.Category = *au.Category
	}
	return a
}

func (gu UpdateGrade) Apply(g Grade) Grade {
	if gu.StudentID != nil {
		g.StudentID = *gu.StudentID
	}
	if gu.AssignmentID != nil {
		g.AssignmentID = *gu.AssignmentID
	}
	if gu.Score != nil {
		g.Score = *gu.Score
	}
	if gu.SubmittedDate != nil {
		g.SubmittedDate = gu.SubmittedDate.UTC()
	}
	return g
}

func (au UpdateAttendanceRecord) Apply(a AttendanceRecord) AttendanceRecord {
	if au.StudentID != nil {
		a.StudentID = *au.StudentID
	}
	if au.ClassID != nil {
		a.ClassID = *au.ClassID
	}
	if au.Date != nil {
		a.Date = *au.Date
	}
	if au.Status != nil {
		a.Status = *au.Status
	}
	return a
}
