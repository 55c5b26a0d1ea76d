package classroom

import (
	"encoding/json"
	"io/fs"
	"path"

	"github.com/pkg/errors"

	"github.com/trezcool/classbook/core/record"
)

// Fixture file names, one JSON array of records per entity.
const (
	StudentsFile    = "students.json"
	ClassesFile     = "classes.json"
	AssignmentsFile = "assignments.json"
	GradesFile      = "grades.json"
	AttendanceFile  = "attendance.json"
)

// Dataset is a full snapshot of the classroom records.
type Dataset struct {
	Students    []Student
	Classes     []Class
	Assignments []Assignment
	Grades      []Grade
	Attendance  []AttendanceRecord
}

func readRecords(fsys fs.FS, name string) ([]record.Raw, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	var records []record.Raw
	if err = json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", name)
	}
	return records, nil
}

// LoadDataset reads the fixture files found in dir. Records may use either naming convention; missing files yield empty tables.
func LoadDataset(fsys fs.FS, dir string) (Dataset, error) {
	var ds Dataset

	raws, err := readRecords(fsys, path.Join(dir, StudentsFile))
	if err != nil {
		return ds, err
	}
	for _, r := range raws {
		ds.Students = append(ds.Students, StudentFromRecord(r))
	}

	if raws, err = readRecords(fsys, path.Join(dir, ClassesFile)); err != nil {
		return ds, err
	}
	for _, r := range raws {
		ds.Classes = append(ds.Classes, ClassFromRecord(r))
	}

	if raws, err = readRecords(fsys, path.Join(dir, AssignmentsFile)); err != nil {
		return ds, err
	}
	for _, r := range raws {
		ds.Assignments = append(ds.Assignments, AssignmentFromRecord(r))
	}

	if raws, err = readRecords(fsys, path.Join(dir, GradesFile)); err != nil {
		return ds, err
	}
	for _, r := range raws {
		ds.Grades = append(ds.Grades, GradeFromRecord(r))
	}

	if raws, err = readRecords(fsys, path.Join(dir, AttendanceFile)); err != nil {
		return ds, err
	}
	for _, r := range raws {
		ds.Attendance = append(ds.Attendance, AttendanceFromRecord(r))
	}
	return ds, nil
}
