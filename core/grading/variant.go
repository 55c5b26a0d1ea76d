package grading

import "github.com/trezcool/classbook/core/classroom"

// Display variants
const (
	VariantDefault = "default"
	VariantSuccess = "success"
	VariantError   = "error"
	VariantWarning = "warning"
	VariantInfo    = "info"
	VariantAccent  = "accent"
)

func StudentStatusVariant(status string) string {
	switch status {
	case classroom.StatusActive:
		return VariantSuccess
	case classroom.StatusInactive:
		return VariantError
	case classroom.StatusSuspended:
		return VariantWarning
	default:
		return VariantDefault
	}
}

func AttendanceVariant(status string) string {
	switch status {
	case classroom.AttendancePresent:
		return VariantSuccess
	case classroom.AttendanceAbsent:
		return VariantError
	case classroom.AttendanceLate:
		return VariantWarning
	case classroom.AttendanceExcused:
		return VariantInfo
	default:
		return VariantDefault
	}
}

func LetterVariant(letter string) string {
	switch letter {
	case "A+", "A", "A-":
		return VariantSuccess
	case "B+", "B", "B-":
		return VariantInfo
	case "C+", "C", "C-":
		return VariantWarning
	case "D+", "D", "D-":
		return VariantAccent
	case LetterF:
		return VariantError
	default:
		return VariantDefault
	}
}
