package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classbook/core"
	"github.com/trezcool/classbook/core/classroom"
)

// OpenFunc returns a repository holding exactly ds.
type OpenFunc func(t *testing.T, ds classroom.Dataset) classroom.Repository

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func requireNotFound(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

// RunRepositoryTests checks that a backend honors the gateway contract.
// Every backend must pass it with identical results.
func RunRepositoryTests(t *testing.T, open OpenFunc) {
	ctx := context.Background()

	t.Run("query returns every record in order", func(t *testing.T) {
		ds := Dataset()
		repo := open(t, ds)

		students, err := repo.QueryStudents(ctx)
		require.NoError(t, err)
		assert.Equal(t, ds.Students, students)

		classes, err := repo.QueryClasses(ctx)
		require.NoError(t, err)
		assert.Equal(t, ds.Classes, classes)

		assignments, err := repo.QueryAssignments(ctx)
		require.NoError(t, err)
		assert.Equal(t, ds.Assignments, assignments)

		grades, err := repo.QueryGrades(ctx)
		require.NoError(t, err)
		assert.Equal(t, ds.Grades, grades)

		attendance, err := repo.QueryAttendance(ctx)
		require.NoError(t, err)
		assert.Equal(t, ds.Attendance, attendance)
	})

	t.Run("query of an empty store", func(t *testing.T) {
		repo := open(t, classroom.Dataset{})

		students, err := repo.QueryStudents(ctx)
		require.NoError(t, err)
		assert.Empty(t, students)
	})

	t.Run("get", func(t *testing.T) {
		ds := Dataset()
		repo := open(t, ds)

		s, err := repo.GetStudent(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, ds.Students[1], s)

		g, err := repo.GetGrade(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, ds.Grades[0], g)

		_, err = repo.GetStudent(ctx, 99)
		requireNotFound(t, err)
		_, err = repo.GetClass(ctx, 99)
		requireNotFound(t, err)
		_, err = repo.GetAssignment(ctx, 99)
		requireNotFound(t, err)
		_, err = repo.GetGrade(ctx, 99)
		requireNotFound(t, err)
		_, err = repo.GetAttendance(ctx, 99)
		requireNotFound(t, err)
	})

	t.Run("create assigns max id + 1", func(t *testing.T) {
		ds := Dataset()
		repo := open(t, ds)

		s := CreateStudent(t, repo, "Noah", "Davis", 2, classroom.StatusActive)
		assert.Equal(t, len(ds.Students)+1, s.ID)

		got, err := repo.GetStudent(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, s, got)

		c := CreateClass(t, repo, "Chemistry", "Science")
		assert.Equal(t, 3, c.ID)

		a := CreateAssignment(t, repo, c.ID, "Titration", 30)
		assert.Equal(t, 4, a.ID)

		g := CreateGrade(t, repo, s.ID, a.ID, 27.5)
		assert.Equal(t, 4, g.ID)
		got2, err := repo.GetGrade(ctx, g.ID)
		require.NoError(t, err)
		assert.Equal(t, 27.5, got2.Score)

		att := CreateAttendance(t, repo, s.ID, c.ID, classroom.NewDate(2024, time.October, 16), classroom.AttendanceExcused)
		assert.Equal(t, 5, att.ID)
	})

	t.Run("create in an empty store starts at 1", func(t *testing.T) {
		repo := open(t, classroom.Dataset{})
		c := CreateClass(t, repo, "Chemistry", "Science")
		assert.Equal(t, 1, c.ID)
	})

	t.Run("create after deleting the highest id reuses max id + 1", func(t *testing.T) {
		ds := Dataset()
		repo := open(t, ds)

		_, err := repo.DeleteStudent(ctx, 3)
		require.NoError(t, err)

		s := CreateStudent(t, repo, "Noah", "Davis", 2, classroom.StatusActive)
		assert.Equal(t, 3, s.ID)

		_, err = repo.DeleteAttendance(ctx, 4)
		require.NoError(t, err)
		att := CreateAttendance(t, repo, 1, 1, classroom.NewDate(2024, time.October, 16), classroom.AttendancePresent)
		assert.Equal(t, 4, att.ID)
	})

	t.Run("update only changes the given fields", func(t *testing.T) {
		ds := Dataset()
		repo := open(t, ds)

		s, err := repo.UpdateStudent(ctx, 1, classroom.UpdateStudent{
			Status:  strPtr(classroom.StatusSuspended),
			ClassID: intPtr(2),
		})
		require.NoError(t, err)

		want := ds.Students[0]
		want.Status = classroom.StatusSuspended
		want.ClassID = 2
		assert.Equal(t, want, s)

		got, err := repo.GetStudent(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, want, got)

		c, err := repo.UpdateClass(ctx, 2, classroom.UpdateClass{Room: strPtr("Lab 3")})
		require.NoError(t, err)
		assert.Equal(t, "Lab 3", c.Room)
		assert.Equal(t, ds.Classes[1].Name, c.Name)

		score := 50.0
		g, err := repo.UpdateGrade(ctx, 1, classroom.UpdateGrade{Score: &score})
		require.NoError(t, err)
		assert.Equal(t, 50.0, g.Score)
		assert.Equal(t, ds.Grades[0].AssignmentID, g.AssignmentID)

		_, err = repo.UpdateStudent(ctx, 99, classroom.UpdateStudent{Status: strPtr(classroom.StatusActive)})
		requireNotFound(t, err)
		_, err = repo.UpdateAttendance(ctx, 99, classroom.UpdateAttendanceRecord{Status: strPtr(classroom.AttendanceLate)})
		requireNotFound(t, err)
	})

	t.Run("update can clear an optional date", func(t *testing.T) {
		ds := Dataset()
		repo := open(t, ds)

		s, err := repo.UpdateStudent(ctx, 1, classroom.UpdateStudent{EnrollmentDate: &classroom.Date{}})
		require.NoError(t, err)
		want := ds.Students[0]
		want.EnrollmentDate = classroom.Date{}
		assert.Equal(t, want, s)

		got, err := repo.GetStudent(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, want, got)

		a, err := repo.UpdateAssignment(ctx, 2, classroom.UpdateAssignment{DueDate: &classroom.Date{}})
		require.NoError(t, err)
		assert.True(t, a.DueDate.IsZero(), "due date still %s", a.DueDate)
		assert.Equal(t, ds.Assignments[1].Title, a.Title)

		gotA, err := repo.GetAssignment(ctx, 2)
		require.NoError(t, err)
		assert.True(t, gotA.DueDate.IsZero())
	})

	t.Run("delete returns the removed record", func(t *testing.T) {
		ds := Dataset()
		repo := open(t, ds)

		a, err := repo.DeleteAttendance(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, ds.Attendance[1], a)

		_, err = repo.GetAttendance(ctx, 2)
		requireNotFound(t, err)

		records, err := repo.QueryAttendance(ctx)
		require.NoError(t, err)
		assert.Equal(t, []classroom.AttendanceRecord{ds.Attendance[0], ds.Attendance[2], ds.Attendance[3]}, records)
	})

	t.Run("delete of a missing id leaves the set unchanged", func(t *testing.T) {
		ds := Dataset()
		repo := open(t, ds)

		_, err := repo.DeleteStudent(ctx, 99)
		requireNotFound(t, err)
		_, err = repo.DeleteClass(ctx, 99)
		requireNotFound(t, err)
		_, err = repo.DeleteAssignment(ctx, 99)
		requireNotFound(t, err)
		_, err = repo.DeleteGrade(ctx, 99)
		requireNotFound(t, err)

		students, err := repo.QueryStudents(ctx)
		require.NoError(t, err)
		assert.Equal(t, ds.Students, students)
	})
}
