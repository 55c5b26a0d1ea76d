package recordsapi

import (
	"context"

	"github.com/trezcool/classbook/core"
	"github.com/trezcool/classbook/core/classroom"
	"github.com/trezcool/classbook/core/record"
)

type collection[T any] struct {
	client   *Client
	name     string
	resource string
	fields   []string
	decode   func(record.Raw) T
	encode   func(T) record.Raw
}

// outbound converts a new canonical record to the backend naming, leaving out unset values.
// Partial updates keep their nil values: they are sent as JSON null to clear the field.
func outbound(r record.Raw) record.Raw {
	clean := make(record.Raw, len(r))
	for k, v := range r {
		if v != nil {
			clean[k] = v
		}
	}
	return record.Suffixed(clean)
}

func (col collection[T]) notFound(err error, id int) error {
	if err == errNoRecord {
		return core.NewNotFoundError(col.resource, id)
	}
	return err
}

func (col collection[T]) query(ctx context.Context) ([]T, error) {
	raws, err := col.client.Query(ctx, col.name, col.fields)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raws))
	for _, r := range raws {
		out = append(out, col.decode(r))
	}
	return out, nil
}

func (col collection[T]) get(ctx context.Context, id int) (T, error) {
	var zero T
	r, err := col.client.Get(ctx, col.name, id, col.fields)
	if err != nil {
		return zero, col.notFound(err, id)
	}
	return col.decode(r), nil
}

func (col collection[T]) create(ctx context.Context, v T) (T, error) {
	var zero T
	r := col.encode(v)
	delete(r, record.IDField)
	created, err := col.client.Create(ctx, col.name, outbound(r))
	if err != nil {
		return zero, err
	}
	if created == nil {
		return zero, core.NewBackendError("creating "+col.name, 0, "no record returned")
	}
	return col.decode(created), nil
}

func (col collection[T]) update(ctx context.Context, id int, partial record.Raw) (T, error) {
	var zero T
	r := record.Suffixed(partial)
	r[record.IDField] = id
	updated, err := col.client.Update(ctx, col.name, r)
	if err != nil {
		return zero, col.notFound(err, id)
	}
	if updated == nil {
		return col.get(ctx, id)
	}
	return col.decode(updated), nil
}

// remove fetches the record first so that it can be returned once deleted.
func (col collection[T]) remove(ctx context.Context, id int) (T, error) {
	var zero T
	v, err := col.get(ctx, id)
	if err != nil {
		return zero, err
	}
	if err = col.client.Delete(ctx, col.name, id); err != nil {
		return zero, col.notFound(err, id)
	}
	return v, nil
}

type repository struct {
	student    collection[classroom.Student]
	class      collection[classroom.Class]
	assignment collection[classroom.Assignment]
	grade      collection[classroom.Grade]
	attendance collection[classroom.AttendanceRecord]
}

var _ classroom.Repository = (*repository)(nil) // interface compliance check

func NewRepository(client *Client) classroom.Repository {
	return &repository{
		student: collection[classroom.Student]{
			client: client, name: StudentCollection, resource: classroom.ResourceStudent,
			fields: classroom.StudentFields, decode: classroom.StudentFromRecord,
			encode: func(s classroom.Student) record.Raw { return s.Record() },
		},
		class: collection[classroom.Class]{
			client: client, name: ClassCollection, resource: classroom.ResourceClass,
			fields: classroom.ClassFields, decode: classroom.ClassFromRecord,
			encode: func(c classroom.Class) record.Raw { return c.Record() },
		},
		assignment: collection[classroom.Assignment]{
			client: client, name: AssignmentCollection, resource: classroom.ResourceAssignment,
			fields: classroom.AssignmentFields, decode: classroom.AssignmentFromRecord,
			encode: func(a classroom.Assignment) record.Raw { return a.Record() },
		},
		grade: collection[classroom.Grade]{
			client: client, name: GradeCollection, resource: classroom.ResourceGrade,
			fields: classroom.GradeFields, decode: classroom.GradeFromRecord,
			encode: func(g classroom.Grade) record.Raw { return g.Record() },
		},
		attendance: collection[classroom.AttendanceRecord]{
			client: client, name: AttendanceCollection, resource: classroom.ResourceAttendance,
			fields: classroom.AttendanceFields, decode: classroom.AttendanceFromRecord,
			encode: func(a classroom.AttendanceRecord) record.Raw { return a.Record() },
		},
	}
}

// Students

func (repo *repository) QueryStudents(ctx context.Context) ([]classroom.Student, error) {
	return repo.student.query(ctx)
}

func (repo *repository) GetStudent(ctx context.Context, id int) (classroom.Student, error) {
	return repo.student.get(ctx, id)
}

func (repo *repository) CreateStudent(ctx context.Context, s classroom.Student) (classroom.Student, error) {
	return repo.student.create(ctx, s)
}

func (repo *repository) UpdateStudent(ctx context.Context, id int, su classroom.UpdateStudent) (classroom.Student, error) {
	return repo.student.update(ctx, id, su.Record())
}

func (repo *repository) DeleteStudent(ctx context.Context, id int) (classroom.Student, error) {
	return repo.student.remove(ctx, id)
}

// Classes

func (repo *repository) QueryClasses(ctx context.Context) ([]classroom.Class, error) {
	return repo.class.query(ctx)
}

func (repo *repository) GetClass(ctx context.Context, id int) (classroom.Class, error) {
	return repo.class.get(ctx, id)
}

func (repo *repository) CreateClass(ctx context.Context, c classroom.Class) (classroom.Class, error) {
	return repo.class.create(ctx, c)
}

func (repo *repository) UpdateClass(ctx context.Context, id int, cu classroom.UpdateClass) (classroom.Class, error) {
	return repo.class.update(ctx, id, cu.Record())
}

func (repo *repository) DeleteClass(ctx context.Context, id int) (classroom.Class, error) {
	return repo.class.remove(ctx, id)
}

// Assignments

func (repo *repository) QueryAssignments(ctx context.Context) ([]classroom.Assignment, error) {
	return repo.assignment.query(ctx)
}

func (repo *repository) GetAssignment(ctx context.Context, id int) (classroom.Assignment, error) {
	return repo.assignment.get(ctx, id)
}

func (repo *repository) CreateAssignment(ctx context.Context, a classroom.Assignment) (classroom.Assignment, error) {
	return repo.assignment.create(ctx, a)
}

func (repo *repository) UpdateAssignment(ctx context.Context, id int, au classroom.UpdateAssignment) (classroom.Assignment, error) {
	return repo.assignment.update(ctx, id, au.Record())
}

func (repo *repository) DeleteAssignment(ctx context.Context, id int) (classroom.Assignment, error) {
	return repo.assignment.remove(ctx, id)
}

// Grades

func (repo *repository) QueryGrades(ctx context.Context) ([]classroom.Grade, error) {
	return repo.grade.query(ctx)
}

func (repo *repository) GetGrade(ctx context.Context, id int) (classroom.Grade, error) {
	return repo.grade.get(ctx, id)
}

func (repo *repository) CreateGrade(ctx context.Context, g classroom.Grade) (classroom.Grade, error) {
	return repo.grade.create(ctx, g)
}

func (repo *repository) UpdateGrade(ctx context.Context, id int, gu classroom.UpdateGrade) (classroom.Grade, error) {
	return repo.grade.update(ctx, id, gu.Record())
}

func (repo *repository) DeleteGrade(ctx context.Context, id int) (classroom.Grade, error) {
	return repo.grade.remove(ctx, id)
}

// Attendance

func (repo *repository) QueryAttendance(ctx context.Context) ([]classroom.AttendanceRecord, error) {
	return repo.attendance.query(ctx)
}

func (repo *repository) GetAttendance(ctx context.Context, id int) (classroom.AttendanceRecord, error) {
	return repo.attendance.get(ctx, id)
}

func (repo *repository) CreateAttendance(ctx context.Context, a classroom.AttendanceRecord) (classroom.AttendanceRecord, error) {
	return repo.attendance.create(ctx, a)
}

func (repo *repository) UpdateAttendance(ctx context.Context, id int, au classroom.UpdateAttendanceRecord) (classroom.AttendanceRecord, error) {
	return repo.attendance.update(ctx, id, au.Record())
}

func (repo *repository) DeleteAttendance(ctx context.Context, id int) (classroom.AttendanceRecord, error) {
	return repo.attendance.remove(ctx, id)
}
