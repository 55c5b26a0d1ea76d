package grading

import (
	"math"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/classbook/core/classroom"
)

// AttendanceRate is round(present/total*100); 0 when there is no record.
func AttendanceRate(records []classroom.AttendanceRecord) int {
	return int(SummarizeAttendance(records).Rate.Int)
}

// AttendanceSummary counts records per status.
type AttendanceSummary struct {
	Present int      `json:"present"`
	Absent  int      `json:"absent"`
	Late    int      `json:"late"`
	Excused int      `json:"excused"`
	Total   int      `json:"total"`
	Rate    null.Int `json:"rate"` // no data when Total is 0
}

// SummarizeAttendance tallies records; Rate is no data for an empty set.
func SummarizeAttendance(records []classroom.AttendanceRecord) AttendanceSummary {
	var sum AttendanceSummary
	for _, r := range records {
		switch r.Status {
		case classroom.AttendancePresent:
			sum.Present++
		case classroom.AttendanceAbsent:
			sum.Absent++
		case classroom.AttendanceLate:
			sum.Late++
		case classroom.AttendanceExcused:
			sum.Excused++
		}
		sum.Total++
	}
	if sum.Total > 0 {
		sum.Rate = null.IntFrom(int(math.Round(float64(sum.Present) / float64(sum.Total) * 100)))
	}
	return sum
}
