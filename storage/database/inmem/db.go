package inmemdb

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/classbook/core"
	"github.com/trezcool/classbook/core/classroom"
	"github.com/trezcool/classbook/fs"
)

type (
	// DB is the fixture store: one ordered table per entity, shared by every repository built on it.
	DB struct {
		latency time.Duration

		student    *table[classroom.Student]
		class      *table[classroom.Class]
		assignment *table[classroom.Assignment]
		grade      *table[classroom.Grade]
		attendance *table[classroom.AttendanceRecord]
	}

	table[T any] struct {
		sync.RWMutex
		resource string
		rows     []T
		id       func(T) int
		setID    func(*T, int)
	}

	Options struct {
		Latency time.Duration // artificial delay applied to every call
	}
)

func newTable[T any](resource string, id func(T) int, setID func(*T, int)) *table[T] {
	return &table[T]{resource: resource, rows: make([]T, 0), id: id, setID: setID}
}

// Open creates an empty store.
func Open(opts Options) *DB {
	return &DB{
		latency: opts.Latency,
		student: newTable(classroom.ResourceStudent,
			func(s classroom.Student) int { return s.ID },
			func(s *classroom.Student, id int) { s.ID = id }),
		class: newTable(classroom.ResourceClass,
			func(c classroom.Class) int { return c.ID },
			func(c *classroom.Class, id int) { c.ID = id }),
		assignment: newTable(classroom.ResourceAssignment,
			func(a classroom.Assignment) int { return a.ID },
			func(a *classroom.Assignment, id int) { a.ID = id }),
		grade: newTable(classroom.ResourceGrade,
			func(g classroom.Grade) int { return g.ID },
			func(g *classroom.Grade, id int) { g.ID = id }),
		attendance: newTable(classroom.ResourceAttendance,
			func(a classroom.AttendanceRecord) int { return a.ID },
			func(a *classroom.AttendanceRecord, id int) { a.ID = id }),
	}
}

// OpenWithDataset creates a store seeded with ds.
func OpenWithDataset(opts Options, ds classroom.Dataset) *DB {
	db := Open(opts)
	db.Load(ds)
	return db
}

// OpenFixtures creates a store seeded with the embedded fixtures.
func OpenFixtures(opts Options) (*DB, error) {
	ds, err := classroom.LoadDataset(appfs.FS, appfs.FixturesDir)
	if err != nil {
		return nil, errors.Wrap(err, "loading fixtures")
	}
	return OpenWithDataset(opts, ds), nil
}

// Load replaces the content of every table with ds.
func (db *DB) Load(ds classroom.Dataset) {
	db.student.reset(ds.Students)
	db.class.reset(ds.Classes)
	db.assignment.reset(ds.Assignments)
	db.grade.reset(ds.Grades)
	db.attendance.reset(ds.Attendance)
}

// Dump returns a copy of every table.
func (db *DB) Dump() classroom.Dataset {
	return classroom.Dataset{
		Students:    db.student.all(),
		Classes:     db.class.all(),
		Assignments: db.assignment.all(),
		Grades:      db.grade.all(),
		Attendance:  db.attendance.all(),
	}
}

// wait simulates a network round trip.
func (db *DB) wait(ctx context.Context) error {
	if db.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(db.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (t *table[T]) reset(rows []T) {
	t.Lock()
	defer t.Unlock()
	t.rows = append(make([]T, 0, len(rows)), rows...)
}

func (t *table[T]) all() []T {
	t.RLock()
	defer t.RUnlock()
	return append(make([]T, 0, len(t.rows)), t.rows...)
}

// index returns the position of id; the caller holds the lock.
func (t *table[T]) index(id int) int {
	for i, row := range t.rows {
		if t.id(row) == id {
			return i
		}
	}
	return -1
}

func (t *table[T]) get(id int) (T, error) {
	t.RLock()
	defer t.RUnlock()
	if i := t.index(id); i >= 0 {
		return t.rows[i], nil
	}
	var zero T
	return zero, core.NewNotFoundError(t.resource, id)
}

// insert assigns max(id)+1 to row and appends it.
func (t *table[T]) insert(row T) T {
	t.Lock()
	defer t.Unlock()
	next := 1
	for _, r := range t.rows {
		if id := t.id(r); id >= next {
			next = id + 1
		}
	}
	t.setID(&row, next)
	t.rows = append(t.rows, row)
	return row
}

func (t *table[T]) update(id int, apply func(T) T) (T, error) {
	t.Lock()
	defer t.Unlock()
	i := t.index(id)
	if i < 0 {
		var zero T
		return zero, core.NewNotFoundError(t.resource, id)
	}
	row := apply(t.rows[i])
	t.setID(&row, id)
	t.rows[i] = row
	return row, nil
}

func (t *table[T]) remove(id int) (T, error) {
	t.Lock()
	defer t.Unlock()
	i := t.index(id)
	if i < 0 {
		var zero T
		return zero, core.NewNotFoundError(t.resource, id)
	}
	row := t.rows[i]
	t.rows = append(t.rows[:i:i], t.rows[i+1:]...)
	return row, nil
}
