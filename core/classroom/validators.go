package classroom

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classbook/core"
)

var (
	studentStatusTag  = "student_status"
	studentStatusText = "status must be one of Active, Inactive or Suspended"

	attendanceStatusTag  = "attendance_status"
	attendanceStatusText = "status must be one of present, absent, late or excused"

	requiredText = "this field is required"
)

// RegisterValidators registers the classroom validation tags & texts.
func RegisterValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(studentStatusTag, oneOfValidation(StudentStatuses))
	core.RegisterCustomTranslation(validate, translator, studentStatusTag, studentStatusText)

	_ = validate.RegisterValidation(attendanceStatusTag, oneOfValidation(AttendanceStatuses))
	core.RegisterCustomTranslation(validate, translator, attendanceStatusTag, attendanceStatusText)
}

// NewValidator returns a core validator with the classroom tags registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate, translator := core.NewValidator()
	RegisterValidators(validate, translator)
	return validate, translator
}

func oneOfValidation(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		val := fl.Field().String()
		for _, a := range allowed {
			if val == a {
				return true
			}
		}
		return false
	}
}

func cleanPtr(s *string, lower ...bool) {
	if s != nil {
		*s = core.CleanString(*s, lower...)
	}
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.LastName = core.CleanString(ns.LastName)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Grade = core.CleanString(ns.Grade)
	ns.Status = core.CleanString(ns.Status)
	return validate.Struct(ns)
}

func (su *UpdateStudent) Validate(validate *validator.Validate) error {
	cleanPtr(su.FirstName)
	cleanPtr(su.LastName)
	cleanPtr(su.Email, true /* lower */)
	cleanPtr(su.Grade)
	cleanPtr(su.Status)
	return validate.Struct(su)
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Subject = core.CleanString(nc.Subject)
	nc.Period = core.CleanString(nc.Period)
	nc.Room = core.CleanString(nc.Room)
	return validate.Struct(nc)
}

func (cu *UpdateClass) Validate(validate *validator.Validate) error {
	cleanPtr(cu.Name)
	cleanPtr(cu.Subject)
	cleanPtr(cu.Period)
	cleanPtr(cu.Room)
	return validate.Struct(cu)
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.Category = core.CleanString(na.Category)
	return validate.Struct(na)
}

func (au *UpdateAssignment) Validate(validate *validator.Validate) error {
	cleanPtr(au.Title)
	cleanPtr(au.Category)
	return validate.Struct(au)
}

func (ng *NewGrade) Validate(validate *validator.Validate) error {
	return validate.Struct(ng)
}

func (gu *UpdateGrade) Validate(validate *validator.Validate) error {
	if err := validate.Struct(gu); err != nil {
		return err
	}
	if gu.SubmittedDate != nil && gu.SubmittedDate.IsZero() {
		return core.NewValidationError(nil, core.FieldError{Field: FieldSubmittedDate, Error: requiredText})
	}
	return nil
}

func (na *NewAttendanceRecord) Validate(validate *validator.Validate) error {
	na.Status = core.CleanString(na.Status, true /* lower */)
	return validate.Struct(na)
}

func (au *UpdateAttendanceRecord) Validate(validate *validator.Validate) error {
	cleanPtr(au.Status, true /* lower */)
	if err := validate.Struct(au); err != nil {
		return err
	}
	// optional dates (enrollment, due) may be cleared; an attendance record always has one
	if au.Date != nil && au.Date.IsZero() {
		return core.NewValidationError(nil, core.FieldError{Field: FieldDate, Error: requiredText})
	}
	return nil
}
