package store

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-builder/internal/types"
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(validateGrade, types.Education{})
	return v
}

// validateGrade enforces the range of gradeValue for its grade type.
// A missing grade type is treated as CGPA, the editor default.
func validateGrade(sl validator.StructLevel) {
	edu, ok := sl.Current().Interface().(types.Education)
	if !ok || edu.GradeValue == nil {
		return
	}

	gradeType := edu.GradeType
	if gradeType == "" {
		gradeType = types.GradeCGPA
	}
	if value := *edu.GradeValue; math.IsNaN(value) || value < 0 || value > gradeType.MaxGrade() {
		sl.ReportError(edu.GradeValue, "gradeValue", "GradeValue", "grade_range", string(gradeType))
	}
}

// check validates v and converts validator failures into a ValidationError
func (s *Store) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Message: "invalid value", Cause: err}
	}

	fe := fieldErrs[0]
	return &ValidationError{
		Field:   fe.Field(),
		Message: describe(fe),
	}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "grade_range":
		gradeType := types.GradeType(fe.Param())
		return fmt.Sprintf("%s must be between 0 and %g", gradeType.Label(), gradeType.MaxGrade())
	default:
		return fe.Tag()
	}
}
