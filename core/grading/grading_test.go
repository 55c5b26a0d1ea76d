package grading

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/classbook/core/classroom"
)

func TestLetterGrade(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{pct: 100, want: "A+"},
		{pct: 97, want: "A+"},
		{pct: 96.99, want: "A"},
		{pct: 96, want: "A"},
		{pct: 93, want: "A"},
		{pct: 90, want: "A-"},
		{pct: 89.5, want: "B+"},
		{pct: 83, want: "B"},
		{pct: 80, want: "B-"},
		{pct: 77, want: "C+"},
		{pct: 73, want: "C"},
		{pct: 70, want: "C-"},
		{pct: 67, want: "D+"},
		{pct: 63, want: "D"},
		{pct: 60, want: "D-"},
		{pct: 59.9, want: "F"},
		{pct: 0, want: "F"},
		{pct: -5, want: "F"},
	}
	for _, tt := range tests {
		if got := LetterGrade(tt.pct); got != tt.want {
			t.Errorf("LetterGrade(%v) = %q; want %q", tt.pct, got, tt.want)
		}
	}
}

func TestLetterGrade_nonIncreasing(t *testing.T) {
	order := map[string]int{
		"A+": 12, "A": 11, "A-": 10, "B+": 9, "B": 8, "B-": 7,
		"C+": 6, "C": 5, "C-": 4, "D+": 3, "D": 2, "D-": 1, "F": 0,
	}
	prev := order[LetterGrade(110)]
	for pct := 110.0; pct >= -10; pct -= 0.25 {
		cur := order[LetterGrade(pct)]
		if cur > prev {
			t.Fatalf("LetterGrade(%v) ranks higher than a greater percentage", pct)
		}
		prev = cur
	}
}

var (
	quiz  = classroom.Assignment{ID: 1, ClassID: 1, Title: "Quiz", TotalPoints: 50}
	essay = classroom.Assignment{ID: 2, ClassID: 1, Title: "Essay", TotalPoints: 20}
	lab   = classroom.Assignment{ID: 3, ClassID: 2, Title: "Lab", TotalPoints: 10}
)

func grade(id, studentID, assignmentID int, score float64) classroom.Grade {
	return classroom.Grade{ID: id, StudentID: studentID, AssignmentID: assignmentID, Score: score}
}

func TestStudentAverage(t *testing.T) {
	assignments := []classroom.Assignment{quiz, essay}

	tests := []struct {
		name   string
		grades []classroom.Grade
		want   null.Float64
	}{
		{name: "no grades", want: null.Float64{}},
		{name: "other student only", grades: []classroom.Grade{grade(1, 2, 1, 40)}, want: null.Float64{}},
		{name: "single grade", grades: []classroom.Grade{grade(1, 1, 1, 45)}, want: null.Float64From(90)},
		{
			name:   "points weighted",
			grades: []classroom.Grade{grade(1, 1, 1, 45), grade(2, 1, 2, 18)},
			want:   null.Float64From(63.0 / 70.0 * 100),
		},
		{
			name:   "unresolved assignment skipped",
			grades: []classroom.Grade{grade(1, 1, 1, 45), grade(2, 1, 99, 3)},
			want:   null.Float64From(90),
		},
		{name: "only unresolved", grades: []classroom.Grade{grade(1, 1, 99, 3)}, want: null.Float64{}},
		{name: "zero score", grades: []classroom.Grade{grade(1, 1, 1, 0)}, want: null.Float64From(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StudentAverage(1, tt.grades, assignments)
			assert.Equal(t, tt.want.Valid, got.Valid)
			assert.InDelta(t, tt.want.Float64, got.Float64, 1e-9)
		})
	}
}

func TestClassAverage(t *testing.T) {
	students := []classroom.Student{
		{ID: 1, ClassID: 1},
		{ID: 2, ClassID: 1},
		{ID: 3, ClassID: 2},
	}
	assignments := []classroom.Assignment{quiz, essay, lab}

	tests := []struct {
		name    string
		classID int
		grades  []classroom.Grade
		want    null.Int
	}{
		{name: "no grades", classID: 1, want: null.Int{}},
		{
			name:    "weighted over students",
			classID: 1,
			grades:  []classroom.Grade{grade(1, 1, 1, 45), grade(2, 2, 2, 18), grade(3, 3, 3, 1)},
			want:    null.IntFrom(90),
		},
		{
			name:    "zero credit is not no data",
			classID: 2,
			grades:  []classroom.Grade{grade(1, 3, 3, 0)},
			want:    null.IntFrom(0),
		},
		{name: "empty class", classID: 7, grades: []classroom.Grade{grade(1, 1, 1, 45)}, want: null.Int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassAverage(tt.classID, students, tt.grades, assignments))
		})
	}
}

func TestOverallAverage(t *testing.T) {
	assignments := []classroom.Assignment{quiz, essay}
	assert.Equal(t, null.Int{}, OverallAverage(nil, assignments))
	assert.Equal(t, null.IntFrom(90), OverallAverage([]classroom.Grade{grade(1, 1, 1, 45), grade(2, 2, 2, 18)}, assignments))
}

func TestLetterAndRound(t *testing.T) {
	assert.Equal(t, null.String{}, Letter(null.Float64{}))
	assert.Equal(t, null.StringFrom("A-"), Letter(null.Float64From(90)))
	assert.Equal(t, null.Int{}, Round(null.Float64{}))
	assert.Equal(t, null.IntFrom(90), Round(null.Float64From(89.5)))
	assert.Equal(t, null.IntFrom(89), Round(null.Float64From(89.49)))
}

func TestNoDataSerializesAsNull(t *testing.T) {
	data, err := json.Marshal(struct {
		Avg  null.Int     `json:"avg"`
		Rate null.Float64 `json:"rate"`
	}{})
	if err != nil {
		t.Fatalf("json.Marshal() failed: %v", err)
	}
	assert.JSONEq(t, `{"avg":null,"rate":null}`, string(data))
}

func TestAttendanceRate(t *testing.T) {
	rec := func(status string) classroom.AttendanceRecord {
		return classroom.AttendanceRecord{Status: status}
	}

	tests := []struct {
		name    string
		records []classroom.AttendanceRecord
		want    int
	}{
		{name: "empty", want: 0},
		{
			name:    "half present",
			records: []classroom.AttendanceRecord{rec("present"), rec("present"), rec("absent"), rec("late")},
			want:    50,
		},
		{name: "all present", records: []classroom.AttendanceRecord{rec("present")}, want: 100},
		{name: "rounded", records: []classroom.AttendanceRecord{rec("present"), rec("present"), rec("excused")}, want: 67},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AttendanceRate(tt.records); got != tt.want {
				t.Errorf("AttendanceRate() = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestSummarizeAttendance(t *testing.T) {
	assert.Equal(t, AttendanceSummary{}, SummarizeAttendance(nil))

	sum := SummarizeAttendance([]classroom.AttendanceRecord{
		{Status: classroom.AttendancePresent},
		{Status: classroom.AttendanceAbsent},
		{Status: classroom.AttendanceLate},
		{Status: classroom.AttendanceExcused},
	})
	assert.Equal(t, AttendanceSummary{Present: 1, Absent: 1, Late: 1, Excused: 1, Total: 4, Rate: null.IntFrom(25)}, sum)
}

func TestRankStudents(t *testing.T) {
	standings := []StudentStanding{
		{Student: classroom.Student{ID: 1}, Average: null.Float64{}},
		{Student: classroom.Student{ID: 2}, Average: null.Float64From(80)},
		{Student: classroom.Student{ID: 3}, Average: null.Float64From(95)},
		{Student: classroom.Student{ID: 4}, Average: null.Float64From(80)},
		{Student: classroom.Student{ID: 5}, Average: null.Float64From(0)},
		{Student: classroom.Student{ID: 6}, Average: null.Float64{}},
	}

	ranked := RankStudents(standings)

	ids := make([]int, 0, len(ranked))
	for _, s := range ranked {
		ids = append(ids, s.Student.ID)
	}
	assert.Equal(t, []int{3, 2, 4, 5, 1, 6}, ids)
	assert.Equal(t, 1, standings[0].Student.ID, "input must be left untouched")

	assert.Len(t, Top(ranked, 2), 2)
	assert.Len(t, Top(ranked, 20), 6)
	assert.Len(t, Top(ranked, -1), 6)
}

func TestRankClasses(t *testing.T) {
	standings := []ClassStanding{
		{Class: classroom.Class{ID: 1}, Average: null.Int{}},
		{Class: classroom.Class{ID: 2}, Average: null.IntFrom(70)},
		{Class: classroom.Class{ID: 3}, Average: null.IntFrom(88)},
		{Class: classroom.Class{ID: 4}, Average: null.IntFrom(70)},
	}

	ranked := RankClasses(standings)

	ids := make([]int, 0, len(ranked))
	for _, c := range ranked {
		ids = append(ids, c.Class.ID)
	}
	assert.Equal(t, []int{3, 2, 4, 1}, ids)
}

func TestStandings(t *testing.T) {
	students := []classroom.Student{{ID: 1, ClassID: 1}, {ID: 2, ClassID: 1}}
	classes := []classroom.Class{{ID: 1}, {ID: 2}}
	grades := []classroom.Grade{grade(1, 1, 1, 45), grade(2, 1, 99, 10)}
	assignments := []classroom.Assignment{quiz}

	sts := StudentStandings(students, grades, assignments)
	if assert.Len(t, sts, 2) {
		assert.Equal(t, null.IntFrom(90), sts[0].Rounded)
		assert.Equal(t, null.StringFrom("A-"), sts[0].Letter)
		assert.Equal(t, VariantSuccess, sts[0].Variant)
		assert.Equal(t, 1, sts[0].GradeCount)

		assert.False(t, sts[1].Average.Valid)
		assert.False(t, sts[1].Letter.Valid)
		assert.Equal(t, VariantDefault, sts[1].Variant)
	}

	cls := ClassStandings(classes, students, grades, assignments)
	if assert.Len(t, cls, 2) {
		assert.Equal(t, ClassStanding{Class: classes[0], Average: null.IntFrom(90), StudentCount: 2}, cls[0])
		assert.Equal(t, ClassStanding{Class: classes[1]}, cls[1])
	}
}

func TestVariants(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"active", StudentStatusVariant, classroom.StatusActive, VariantSuccess},
		{"inactive", StudentStatusVariant, classroom.StatusInactive, VariantError},
		{"suspended", StudentStatusVariant, classroom.StatusSuspended, VariantWarning},
		{"unknown status", StudentStatusVariant, "Graduated", VariantDefault},
		{"present", AttendanceVariant, classroom.AttendancePresent, VariantSuccess},
		{"absent", AttendanceVariant, classroom.AttendanceAbsent, VariantError},
		{"late", AttendanceVariant, classroom.AttendanceLate, VariantWarning},
		{"excused", AttendanceVariant, classroom.AttendanceExcused, VariantInfo},
		{"unknown attendance", AttendanceVariant, "", VariantDefault},
		{"A+", LetterVariant, "A+", VariantSuccess},
		{"B-", LetterVariant, "B-", VariantInfo},
		{"C", LetterVariant, "C", VariantWarning},
		{"D+", LetterVariant, "D+", VariantAccent},
		{"F", LetterVariant, "F", VariantError},
		{"no letter", LetterVariant, "", VariantDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.in))
		})
	}
}
