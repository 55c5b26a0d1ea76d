package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/classbook/core/classroom"
)

func CreateClass(t *testing.T, repo classroom.ClassRepository, name, subject string) classroom.Class {
	c, err := repo.CreateClass(context.Background(), classroom.Class{
		Name:    name,
		Subject: subject,
		Period:  "1st",
		Room:    "101",
	})
	if err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
	return c
}

func CreateStudent(
	t *testing.T,
	repo classroom.StudentRepository,
	firstName, lastName string,
	classID int,
	status string,
	enrolledAt ...classroom.Date,
) classroom.Student {
	enrollment := classroom.NewDate(2024, time.August, 26)
	if len(enrolledAt) > 0 {
		enrollment = enrolledAt[0]
	}
	s, err := repo.CreateStudent(context.Background(), classroom.Student{
		FirstName:      firstName,
		LastName:       lastName,
		Email:          firstName + "." + lastName + "@school.test",
		Grade:          "10th Grade",
		ClassID:        classID,
		EnrollmentDate: enrollment,
		Status:         status,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return s
}

func CreateAssignment(t *testing.T, repo classroom.AssignmentRepository, classID int, title string, totalPoints int) classroom.Assignment {
	a, err := repo.CreateAssignment(context.Background(), classroom.Assignment{
		ClassID:     classID,
		Title:       title,
		TotalPoints: totalPoints,
		DueDate:     classroom.NewDate(2024, time.September, 13),
		Category:    "Quiz",
	})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	return a
}

func CreateGrade(t *testing.T, repo classroom.GradeRepository, studentID, assignmentID int, score float64) classroom.Grade {
	g, err := repo.CreateGrade(context.Background(), classroom.Grade{
		StudentID:     studentID,
		AssignmentID:  assignmentID,
		Score:         score,
		SubmittedDate: time.Date(2024, time.September, 12, 14, 5, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateGrade() failed: %v", err)
	}
	return g
}

func CreateAttendance(t *testing.T, repo classroom.AttendanceRepository, studentID, classID int, day classroom.Date, status string) classroom.AttendanceRecord {
	a, err := repo.CreateAttendance(context.Background(), classroom.AttendanceRecord{
		StudentID: studentID,
		ClassID:   classID,
		Date:      day,
		Status:    status,
	})
	if err != nil {
		t.Fatalf("CreateAttendance() failed: %v", err)
	}
	return a
}

// Dataset returns a small, consistent classroom snapshot:
// two classes, three students (one without class), three assignments, grades & attendance.
func Dataset() classroom.Dataset {
	day1 := classroom.NewDate(2024, time.October, 14)
	day2 := classroom.NewDate(2024, time.October, 15)
	submitted := time.Date(2024, time.September, 12, 14, 5, 0, 0, time.UTC)

	return classroom.Dataset{
		Classes: []classroom.Class{
			{ID: 1, Name: "Algebra I", Subject: "Mathematics", Period: "1st", Room: "101"},
			{ID: 2, Name: "Biology", Subject: "Science", Period: "3rd", Room: "Lab 2"},
		},
		Students: []classroom.Student{
			{
				ID: 1, FirstName: "Emma", LastName: "Johnson", Email: "emma.johnson@school.test", Grade: "9th Grade",
				ClassID: 1, EnrollmentDate: classroom.NewDate(2024, time.August, 26), Status: classroom.StatusActive,
			},
			{
				ID: 2, FirstName: "Liam", LastName: "Smith", Email: "liam.smith@school.test", Grade: "9th Grade",
				ClassID: 1, EnrollmentDate: classroom.NewDate(2024, time.August, 26), Status: classroom.StatusSuspended,
			},
			{
				ID: 3, FirstName: "Ava", LastName: "Miller", Email: "ava.miller@school.test", Grade: "11th Grade",
				ClassID: 0, EnrollmentDate: classroom.NewDate(2024, time.September, 3), Status: classroom.StatusInactive,
			},
		},
		Assignments: []classroom.Assignment{
			{ID: 1, ClassID: 1, Title: "Quiz", TotalPoints: 50, DueDate: classroom.NewDate(2024, time.September, 13), Category: "Quiz"},
			{ID: 2, ClassID: 1, Title: "Homework", TotalPoints: 20, DueDate: classroom.NewDate(2024, time.September, 20), Category: "Homework"},
			{ID: 3, ClassID: 2, Title: "Lab", TotalPoints: 40, DueDate: classroom.NewDate(2024, time.September, 18), Category: "Lab"},
		},
		Grades: []classroom.Grade{
			{ID: 1, StudentID: 1, AssignmentID: 1, Score: 45, SubmittedDate: submitted},
			{ID: 2, StudentID: 2, AssignmentID: 2, Score: 18, SubmittedDate: submitted},
			{ID: 3, StudentID: 2, AssignmentID: 9, Score: 5, SubmittedDate: submitted}, // unresolved assignment
		},
		Attendance: []classroom.AttendanceRecord{
			{ID: 1, StudentID: 1, ClassID: 1, Date: day1, Status: classroom.AttendancePresent},
			{ID: 2, StudentID: 2, ClassID: 1, Date: day1, Status: classroom.AttendanceLate},
			{ID: 3, StudentID: 1, ClassID: 1, Date: day2, Status: classroom.AttendancePresent},
			{ID: 4, StudentID: 2, ClassID: 1, Date: day2, Status: classroom.AttendanceAbsent},
		},
	}
}
