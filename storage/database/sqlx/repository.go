package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/classbook/core"
	"github.com/trezcool/classbook/core/classroom"
)

// table maps one entity onto a postgres table. columns excludes "id".
type table[T any] struct {
	db       *sqlx.DB
	name     string
	resource string
	columns  []string
	clean    func(T) T // normalizes scanned rows; may be nil
}

func (t table[T]) selectCols() string {
	return "id, " + strings.Join(t.columns, ", ")
}

func (t table[T]) fix(v T) T {
	if t.clean == nil {
		return v
	}
	return t.clean(v)
}

func (t table[T]) notFound(err error, id int) error {
	if errors.Is(err, sql.ErrNoRows) {
		return core.NewNotFoundError(t.resource, id)
	}
	return errors.Wrapf(err, "%s %d", t.resource, id)
}

func (t table[T]) query(ctx context.Context) ([]T, error) {
	rows := make([]T, 0)
	q := fmt.Sprintf("SELECT %s FROM %s ORDER BY id", t.selectCols(), t.name)
	if err := t.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrapf(err, "querying %s", t.name)
	}
	for i := range rows {
		rows[i] = t.fix(rows[i])
	}
	return rows, nil
}

func (t table[T]) get(ctx context.Context, q sqlx.QueryerContext, id int, lock bool) (T, error) {
	var v T
	stmt := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", t.selectCols(), t.name)
	if lock {
		stmt += " FOR UPDATE"
	}
	if err := sqlx.GetContext(ctx, q, &v, stmt, id); err != nil {
		return v, t.notFound(err, id)
	}
	return t.fix(v), nil
}

// insert assigns max(id) + 1 under a table lock, like every other backend.
func (t table[T]) insert(ctx context.Context, v T) (created T, err error) {
	placeholders := make([]string, len(t.columns))
	for i, col := range t.columns {
		placeholders[i] = ":" + col
	}
	q := fmt.Sprintf("INSERT INTO %s (id, %s) VALUES ((SELECT COALESCE(MAX(id), 0) + 1 FROM %s), %s) RETURNING %s",
		t.name, strings.Join(t.columns, ", "), t.name, strings.Join(placeholders, ", "), t.selectCols())

	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return created, errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, fmt.Sprintf("LOCK TABLE %s IN EXCLUSIVE MODE", t.name)); err != nil {
		return created, errors.Wrapf(err, "locking %s", t.name)
	}
	q, args, err := tx.BindNamed(q, v)
	if err != nil {
		return created, errors.Wrapf(err, "binding %s insert", t.name)
	}
	if err = tx.GetContext(ctx, &created, q, args...); err != nil {
		return created, errors.Wrapf(err, "inserting %s", t.resource)
	}
	if err = tx.Commit(); err != nil {
		return created, errors.Wrap(err, "committing transaction")
	}
	return t.fix(created), nil
}

// update locks the row, applies the partial update and writes every column back.
func (t table[T]) update(ctx context.Context, id int, apply func(T) T) (updated T, err error) {
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return updated, errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	current, err := t.get(ctx, tx, id, true)
	if err != nil {
		return updated, err
	}

	sets := make([]string, len(t.columns))
	for i, col := range t.columns {
		sets[i] = col + " = :" + col
	}
	q := fmt.Sprintf("UPDATE %s SET %s WHERE id = :id RETURNING %s", t.name, strings.Join(sets, ", "), t.selectCols())
	q, args, err := tx.BindNamed(q, apply(current))
	if err != nil {
		return updated, errors.Wrapf(err, "binding %s update", t.name)
	}
	if err = tx.GetContext(ctx, &updated, q, args...); err != nil {
		return updated, t.notFound(err, id)
	}
	if err = tx.Commit(); err != nil {
		return updated, errors.Wrap(err, "committing transaction")
	}
	return t.fix(updated), nil
}

func (t table[T]) remove(ctx context.Context, id int) (T, error) {
	var v T
	q := fmt.Sprintf("DELETE FROM %s WHERE id = $1 RETURNING %s", t.name, t.selectCols())
	if err := t.db.GetContext(ctx, &v, q, id); err != nil {
		return v, t.notFound(err, id)
	}
	return t.fix(v), nil
}

type repository struct {
	student    table[classroom.Student]
	class      table[classroom.Class]
	assignment table[classroom.Assignment]
	grade      table[classroom.Grade]
	attendance table[classroom.AttendanceRecord]
}

var _ classroom.Repository = (*repository)(nil) // interface compliance check

func NewRepository(db *sqlx.DB) classroom.Repository {
	return &repository{
		student: table[classroom.Student]{
			db: db, name: "student", resource: classroom.ResourceStudent,
			columns: []string{"first_name", "last_name", "email", "grade", "class_id", "enrollment_date", "status"},
		},
		class: table[classroom.Class]{
			db: db, name: `"class"`, resource: classroom.ResourceClass,
			columns: []string{"name", "subject", "period", "room"},
		},
		assignment: table[classroom.Assignment]{
			db: db, name: "assignment", resource: classroom.ResourceAssignment,
			columns: []string{"class_id", "title", "total_points", "due_date", "category"},
		},
		grade: table[classroom.Grade]{
			db: db, name: "grade", resource: classroom.ResourceGrade,
			columns: []string{"student_id", "assignment_id", "score", "submitted_date"},
			clean: func(g classroom.Grade) classroom.Grade {
				g.SubmittedDate = g.SubmittedDate.UTC()
				return g
			},
		},
		attendance: table[classroom.AttendanceRecord]{
			db: db, name: "attendance", resource: classroom.ResourceAttendance,
			columns: []string{"student_id", "class_id", "date", "status"},
		},
	}
}

// Students

func (repo *repository) QueryStudents(ctx context.Context) ([]classroom.Student, error) {
	return repo.student.query(ctx)
}

func (repo *repository) GetStudent(ctx context.Context, id int) (classroom.Student, error) {
	return repo.student.get(ctx, repo.student.db, id, false)
}

func (repo *repository) CreateStudent(ctx context.Context, s classroom.Student) (classroom.Student, error) {
	return repo.student.insert(ctx, s)
}

func (repo *repository) UpdateStudent(ctx context.Context, id int, su classroom.UpdateStudent) (classroom.Student, error) {
	return repo.student.update(ctx, id, su.Apply)
}

func (repo *repository) DeleteStudent(ctx context.Context, id int) (classroom.Student, error) {
	return repo.student.remove(ctx, id)
}

// Classes

func (repo *repository) QueryClasses(ctx context.Context) ([]classroom.Class, error) {
	return repo.class.query(ctx)
}

func (repo *repository) GetClass(ctx context.Context, id int) (classroom.Class, error) {
	return repo.class.get(ctx, repo.class.db, id, false)
}

func (repo *repository) CreateClass(ctx context.Context, c classroom.Class) (classroom.Class, error) {
	return repo.class.insert(ctx, c)
}

func (repo *repository) UpdateClass(ctx context.Context, id int, cu classroom.UpdateClass) (classroom.Class, error) {
	return repo.class.update(ctx, id, cu.Apply)
}

func (repo *repository) DeleteClass(ctx context.Context, id int) (classroom.Class, error) {
	return repo.class.remove(ctx, id)
}

// Assignments

func (repo *repository) QueryAssignments(ctx context.Context) ([]classroom.Assignment, error) {
	return repo.assignment.query(ctx)
}

func (repo *repository) GetAssignment(ctx context.Context, id int) (classroom.Assignment, error) {
	return repo.assignment.get(ctx, repo.assignment.db, id, false)
}

func (repo *repository) CreateAssignment(ctx context.Context, a classroom.Assignment) (classroom.Assignment, error) {
	return repo.assignment.insert(ctx, a)
}

func (repo *repository) UpdateAssignment(ctx context.Context, id int, au classroom.UpdateAssignment) (classroom.Assignment, error) {
	return repo.assignment.update(ctx, id, au.Apply)
}

func (repo *repository) DeleteAssignment(ctx context.Context, id int) (classroom.Assignment, error) {
	return repo.assignment.remove(ctx, id)
}

// Grades

func (repo *repository) QueryGrades(ctx context.Context) ([]classroom.Grade, error) {
	return repo.grade.query(ctx)
}

func (repo *repository) GetGrade(ctx context.Context, id int) (classroom.Grade, error) {
	return repo.grade.get(ctx, repo.grade.db, id, false)
}

func (repo *repository) CreateGrade(ctx context.Context, g classroom.Grade) (classroom.Grade, error) {
	return repo.grade.insert(ctx, g)
}

func (repo *repository) UpdateGrade(ctx context.Context, id int, gu classroom.UpdateGrade) (classroom.Grade, error) {
	return repo.grade.update(ctx, id, gu.Apply)
}

func (repo *repository) DeleteGrade(ctx context.Context, id int) (classroom.Grade, error) {
	return repo.grade.remove(ctx, id)
}

// Attendance

func (repo *repository) QueryAttendance(ctx context.Context) ([]classroom.AttendanceRecord, error) {
	return repo.attendance.query(ctx)
}

func (repo *repository) GetAttendance(ctx context.Context, id int) (classroom.AttendanceRecord, error) {
	return repo.attendance.get(ctx, repo.attendance.db, id, false)
}

func (repo *repository) CreateAttendance(ctx context.Context, a classroom.AttendanceRecord) (classroom.AttendanceRecord, error) {
	return repo.attendance.insert(ctx, a)
}

func (repo *repository) UpdateAttendance(ctx context.Context, id int, au classroom.UpdateAttendanceRecord) (classroom.AttendanceRecord, error) {
	return repo.attendance.update(ctx, id, au.Apply)
}

func (repo *repository) DeleteAttendance(ctx context.Context, id int) (classroom.AttendanceRecord, error) {
	return repo.attendance.remove(ctx, id)
}
