package validator

import (
	"reflect"
	"strings"
	"time"

	"go-dental-clinic/pkg/timezone"

	"github.com/go-playground/validator/v10"
)

var clockLayouts = []string{"15:04:05", "15:04"}

// parseClock returns the offset from midnight of HH:MM or HH:MM:SS
func parseClock(s string) (time.Duration, bool) {
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second, true
		}
	}
	return 0, false
}

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()

	// report json field names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	v.RegisterValidation("clock", validateClock)
	v.RegisterValidation("clock_after", validateClockAfter)
	v.RegisterValidation("weekday", validateWeekday)
	v.RegisterValidation("date", validateDate)
	v.RegisterValidation("fdi_tooth", validateFDITooth)
	v.RegisterValidation("timezone", validateTimezone)

	return &CustomValidator{
		validator: v,
	}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func validateClock(fl validator.FieldLevel) bool {
	_, ok := parseClock(fl.Field().String())
	return ok
}

// validateClockAfter checks the field is a time of day later than the named sibling field
func validateClockAfter(fl validator.FieldLevel) bool {
	to, ok := parseClock(fl.Field().String())
	if !ok {
		return false
	}
	other := fl.Parent().FieldByName(fl.Param())
	if !other.IsValid() || other.Kind() != reflect.String {
		return false
	}
	from, ok := parseClock(other.String())
	if !ok {
		return false
	}
	return from < to
}

func validateWeekday(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		d := fl.Field().Int()
		return d >= 0 && d <= 6
	case reflect.Ptr:
		if fl.Field().IsNil() {
			return true
		}
		d := fl.Field().Elem().Int()
		return d >= 0 && d <= 6
	}
	return false
}

func validateDate(fl validator.FieldLevel) bool {
	_, err := timezone.ParseDate(fl.Field().String(), time.UTC)
	return err == nil
}

// validateFDITooth accepts FDI notation: permanent quadrants 1-4 with teeth 1-8,
// deciduous quadrants 5-8 with teeth 1-5
func validateFDITooth(fl validator.FieldLevel) bool {
	n := fl.Field().Int()
	quadrant, tooth := n/10, n%10
	switch {
	case quadrant >= 1 && quadrant <= 4:
		return tooth >= 1 && tooth <= 8
	case quadrant >= 5 && quadrant <= 8:
		return tooth >= 1 && tooth <= 5
	}
	return false
}

func validateTimezone(fl validator.FieldLevel) bool {
	return timezone.IsValid(fl.Field().String())
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = field + " is required"
			case "email":
				errors[field] = field + " must be a valid email address"
			case "min":
				errors[field] = field + " must be at least " + e.Param() + " characters"
			case "max":
				errors[field] = field + " must be at most " + e.Param() + " characters"
			case "gte":
				errors[field] = field + " must be greater than or equal to " + e.Param()
			case "lte":
				errors[field] = field + " must be less than or equal to " + e.Param()
			case "gtefield":
				errors[field] = field + " must be greater than or equal to " + e.Param()
			case "required_without", "required_with":
				errors[field] = field + " is required"
			case "oneof":
				errors[field] = field + " must be one of: " + e.Param()
			case "clock":
				errors[field] = field + " must be HH:MM or HH:MM:SS"
			case "clock_after":
				errors[field] = field + " must be after " + e.Param()
			case "weekday":
				errors[field] = field + " must be a weekday between 0 (Sunday) and 6 (Saturday)"
			case "date":
				errors[field] = field + " must be a date in YYYY-MM-DD format"
			case "fdi_tooth":
				errors[field] = field + " must be an FDI tooth number"
			case "timezone":
				errors[field] = field + " must be an IANA timezone"
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}
