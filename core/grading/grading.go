// Package grading holds the pure aggregation functions derived from gateway records:
// letter bands, grade averages, attendance rates, rankings and display variants.
//
// Averages that cannot be computed (no matching grades, no records) are "no data":
// an invalid null value, serialized as JSON null and never conflated with 0.
package grading

import (
	"math"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/classbook/core/classroom"
)

type band struct {
	min    float64
	letter string
}

// bands are inclusive lower bounds, highest first.
var bands = []band{
	{97, "A+"}, {93, "A"}, {90, "A-"},
	{87, "B+"}, {83, "B"}, {80, "B-"},
	{77, "C+"}, {73, "C"}, {70, "C-"},
	{67, "D+"}, {63, "D"}, {60, "D-"},
}

const LetterF = "F"

// LetterGrade bands a percentage score.
func LetterGrade(pct float64) string {
	for _, b := range bands {
		if pct >= b.min {
			return b.letter
		}
	}
	return LetterF
}

// Letter bands an average; "no data" has no letter.
func Letter(avg null.Float64) null.String {
	if !avg.Valid {
		return null.String{}
	}
	return null.StringFrom(LetterGrade(avg.Float64))
}

// Round rounds half away from zero.
func Round(avg null.Float64) null.Int {
	if !avg.Valid {
		return null.Int{}
	}
	return null.IntFrom(int(math.Round(avg.Float64)))
}

// ratio returns sum(score)/sum(totalPoints)*100 over the grades whose assignment resolves.
func ratio(grades []classroom.Grade, assignments map[int]classroom.Assignment) null.Float64 {
	var score, points float64
	var matched int
	for _, g := range grades {
		a, ok := assignments[g.AssignmentID]
		if !ok {
			continue
		}
		score += g.Score
		points += float64(a.TotalPoints)
		matched++
	}
	if matched == 0 || points <= 0 {
		return null.Float64{}
	}
	return null.Float64From(score / points * 100)
}

func indexAssignments(assignments []classroom.Assignment) map[int]classroom.Assignment {
	idx := make(map[int]classroom.Assignment, len(assignments))
	for _, a := range assignments {
		idx[a.ID] = a
	}
	return idx
}

// StudentAverage is the points-weighted percentage of a student's grades.
// Grades whose assignment cannot be resolved are skipped.
func StudentAverage(studentID int, grades []classroom.Grade, assignments []classroom.Assignment) null.Float64 {
	own := make([]classroom.Grade, 0)
	for _, g := range grades {
		if g.StudentID == studentID {
			own = append(own, g)
		}
	}
	return ratio(own, indexAssignments(assignments))
}

// ClassAverage is the rounded points-weighted percentage of all grades of the students enrolled in the class.
func ClassAverage(classID int, students []classroom.Student, grades []classroom.Grade, assignments []classroom.Assignment) null.Int {
	enrolled := make(map[int]bool)
	for _, s := range students {
		if s.ClassID == classID {
			enrolled[s.ID] = true
		}
	}
	own := make([]classroom.Grade, 0)
	for _, g := range grades {
		if enrolled[g.StudentID] {
			own = append(own, g)
		}
	}
	return Round(ratio(own, indexAssignments(assignments)))
}

// OverallAverage is the rounded points-weighted percentage of all grades.
func OverallAverage(grades []classroom.Grade, assignments []classroom.Assignment) null.Int {
	return Round(ratio(grades, indexAssignments(assignments)))
}
