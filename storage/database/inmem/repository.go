package inmemdb

import (
	"context"

	"github.com/trezcool/classbook/core/classroom"
)

type repository struct {
	db *DB
}

var _ classroom.Repository = (*repository)(nil) // interface compliance check

func NewRepository(db *DB) classroom.Repository {
	return &repository{db: db}
}

// Students

func (repo *repository) QueryStudents(ctx context.Context) ([]classroom.Student, error) {
	if err := repo.db.wait(ctx); err != nil {
		return nil, err
	}
	return repo.db.student.all(), nil
}

func (repo *repository) GetStudent(ctx context.Context, id int) (classroom.Student, error) {
	if err := repo.db.wait(ctx); err != nil {
		return classroom.Student{}, err
	}
	return repo.db.student.get(id)
}

func (repo *repository) CreateStudent(ctx context.Context, s classroom.Student) (classroom.Student, error) {
	if err := repo.db.wait(ctx); err != nil {
		return classroom.Student{}, err
	}
	return repo.db.student.insert(s), nil
}

func (repo *repository) UpdateStudent(ctx context.Context, id int, su classroom.UpdateStudent) (classroom.Student, error) {
	if err := repo.db.wait(ctx); err != nil {
		return classroom.Student{}, err
	}
	return repo.db.student.update(id, su.Apply)
}

func (repo *repository) DeleteStudent(ctx context.Context, id int) (classroom.Student, error) {
	if err := repo.db.wait(ctx); err != nil {
		return classroom.Student{}, err
	}
	return repo.db.student.remove(id)
}

// Classes

func (repo *repository) QueryClasses(ctx context.Context) ([]classroom.Class, error) {
	if err := repo.db.wait(ctx); err != nil {
		return nil, err
	}
	return repo.db.class.all(), nil
}

func (repo *repository) GetClass(ctx context.Context, id int) (classroom.Class, error) {
	if err := repo.db.wait(ctx); err != nil {
		return classroom.Class{}, err
	}
	return repo.db.class.get(id)
}

func (repo *repository) CreateClass(ctx context.Context, c classroom.Class) (classroom.Class, error) {
	if err := repo.db.wait(ctx); err != nil {
		return classroom.Class{}, err
	}
	return repo.db.class.insert(c), nil
}

func (repo *repository) UpdateClass(ctx context.Context, id int, cu classroom.UpdateClass) (classroom.Class, error) {
	if err := repo.db.wait(ctx); err != nil {
		return classroom.Class{}, err
	}
	return repo.db.class.update(id, cu.Apply)
}

func (repo *repository) DeleteClass(ctx context.Context, id int) (classroom.Class, error) {
	if err := repo.db.wait(ctx); err != nil {
		return classroom.Class{}, err
	}
	return repo.db.class.remove(id)
}

// Assignments

func (repo *repository) QueryAssignments(ctx context.Context) ([]classroom.Assignment, error) {
	if err := repo.db.wait(ctx); err != nil {
		return nil, err
	}
	return repo.db.assignment.all(), nil
}

func (repo *repository) GetAssignment(ctx context.Context, id int) (classroom.Assignment, error) {
	if err := repo.db.wait(ctx); err != nil {
		return classroom.Assignment{}, err
	}
	return repo.db.assignment.get(id)
}

func (repo *repository) CreateAssignment(ctx context.Context, a classroom.Assignment) (classroom.Assignment, error) {
	if err := repo.db.wait(ctx); err != nil {
		return classroom.Assignment{}, err
	}
	return repo.db.assignment.insert(a), nil
}

func (repo *repository) UpdateAssignment(ctx context.Context, id int, au classroom.UpdateAssignment) (classroom.Assignment, error) {
	if err := repo.db.wait(ctx); err != nil {
		return classroom.Assignment{}, err
	}
	return repo.db.assignment.update(id, au.Apply)
}

func (repo *repository) DeleteAssignment(ctx context.Context, id int) (classroom.Assignment, error) {
	if err := repo.db.wait(ctx); err != nil {
		return classroom.Assignment{}, err
	}
	return repo.db.assignment.remove(id)
}

// Grades

func (repo *repository) QueryGrades(ctx context.Context) ([]classroom.Grade, error) {
	if err := repo.db.wait(ctx); err != nil {
		return nil, err
	}
	return repo.db.grade.all(), nil
}

func (repo *repository) GetGrade(ctx context.Context, id int) (classroom.Grade, error) {
	if err := repo.db.wait(ctx); err != nil {
		return classroom.Grade{}, err
	}
	return repo.db.grade.get(id)
}

func (repo *repository) CreateGrade(ctx context.Context, g classroom.Grade) (classroom.Grade, error) {
	if err := repo.db.wait(ctx); err != nil {
		return classroom.Grade{}, err
	}
	return repo.db.grade.insert(g), nil
}

func (repo *repository) UpdateGrade(ctx context.Context, id int, gu classroom.UpdateGrade) (classroom.Grade, error) {
	if err := repo.db.wait(ctx); err != nil {
		return classroom.Grade{}, err
	}
	return repo.db.grade.update(id, gu.Apply)
}

func (repo *repository) DeleteGrade(ctx context.Context, id int) (classroom.Grade, error) {
	if err := repo.db.wait(ctx); err != nil {
		return classroom.Grade{}, err
	}
	return repo.db.grade.remove(id)
}

// Attendance

func (repo *repository) QueryAttendance(ctx context.Context) ([]classroom.AttendanceRecord, error) {
	if err := repo.db.wait(ctx); err != nil {
		return nil, err
	}
	return repo.db.attendance.all(), nil
}

func (repo *repository) GetAttendance(ctx context.Context, id int) (classroom.AttendanceRecord, error) {
	if err := repo.db.wait(ctx); err != nil {
		return classroom.AttendanceRecord{}, err
	}
	return repo.db.attendance.get(id)
}

func (repo *repository) CreateAttendance(ctx context.Context, a classroom.AttendanceRecord) (classroom.AttendanceRecord, error) {
	if err := repo.db.wait(ctx); err != nil {
		return classroom.AttendanceRecord{}, err
	}
	return repo.db.attendance.insert(a), nil
}

func (repo *repository) UpdateAttendance(ctx context.Context, id int, au classroom.UpdateAttendanceRecord) (classroom.AttendanceRecord, error) {
	if err := repo.db.wait(ctx); err != nil {
		return classroom.AttendanceRecord{}, err
	}
	return repo.db.attendance.update(id, au.Apply)
}

func (repo *repository) DeleteAttendance(ctx context.Context, id int) (classroom.AttendanceRecord, error) {
	if err := repo.db.wait(ctx); err != nil {
		return classroom.AttendanceRecord{}, err
	}
	return repo.db.attendance.remove(id)
}
