package grading

import (
	"sort"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/classbook/core/classroom"
)

// StudentStanding is a student with their average, letter and display variant.
type StudentStanding struct {
	Student    classroom.Student `json:"student"`
	Average    null.Float64      `json:"average"`
	Rounded    null.Int          `json:"percentage"`
	Letter     null.String       `json:"letter"`
	Variant    string            `json:"variant"`
	GradeCount int               `json:"gradeCount"`
}

// ClassStanding is a class with its rounded average and enrolled student count.
type ClassStanding struct {
	Class        classroom.Class `json:"class"`
	Average      null.Int        `json:"average"`
	StudentCount int             `json:"studentCount"`
}

// StudentStandings computes the standing of each student, in input order.
func StudentStandings(students []classroom.Student, grades []classroom.Grade, assignments []classroom.Assignment) []StudentStanding {
	counts := make(map[int]int)
	idx := indexAssignments(assignments)
	for _, g := range grades {
		if _, ok := idx[g.AssignmentID]; ok {
			counts[g.StudentID]++
		}
	}
	out := make([]StudentStanding, 0, len(students))
	for _, s := range students {
		avg := StudentAverage(s.ID, grades, assignments)
		letter := Letter(avg)
		out = append(out, StudentStanding{
			Student:    s,
			Average:    avg,
			Rounded:    Round(avg),
			Letter:     letter,
			Variant:    LetterVariant(letter.String),
			GradeCount: counts[s.ID],
		})
	}
	return out
}

// ClassStandings computes the standing of each class, in input order.
func ClassStandings(classes []classroom.Class, students []classroom.Student, grades []classroom.Grade, assignments []classroom.Assignment) []ClassStanding {
	counts := make(map[int]int)
	for _, s := range students {
		counts[s.ClassID]++
	}
	out := make([]ClassStanding, 0, len(classes))
	for _, c := range classes {
		out = append(out, ClassStanding{
			Class:        c,
			Average:      ClassAverage(c.ID, students, grades, assignments),
			StudentCount: counts[c.ID],
		})
	}
	return out
}

// before orders valid averages by descending value, "no data" last.
func before(a, b null.Float64) bool {
	if a.Valid != b.Valid {
		return a.Valid
	}
	return a.Valid && a.Float64 > b.Float64
}

// RankStudents sorts standings by descending average; ties keep their input order and "no data" ranks last.
// The input slice is left untouched.
func RankStudents(standings []StudentStanding) []StudentStanding {
	ranked := make([]StudentStanding, len(standings))
	copy(ranked, standings)
	sort.SliceStable(ranked, func(i, j int) bool {
		return before(ranked[i].Average, ranked[j].Average)
	})
	return ranked
}

// RankClasses sorts standings by descending average; ties keep their input order and "no data" ranks last.
// The input slice is left untouched.
func RankClasses(standings []ClassStanding) []ClassStanding {
	ranked := make([]ClassStanding, len(standings))
	copy(ranked, standings)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].Average, ranked[j].Average
		return before(null.NewFloat64(float64(a.Int), a.Valid), null.NewFloat64(float64(b.Int), b.Valid))
	})
	return ranked
}

// Top returns at most n of the ranked standings.
func Top(ranked []StudentStanding, n int) []StudentStanding {
	if n < 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}
