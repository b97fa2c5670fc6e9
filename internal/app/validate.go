package app

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/eeturonkko/putter/internal/domain"
)

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return isoDate.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

type sessionInput struct {
	Name string `json:"name" validate:"required"`
	Date string `json:"date" validate:"isodate"`
}

// puttInput is checked on create and against the effective pair on update.
// Counts are capped at the int32 range the stores use.
type puttInput struct {
	DistanceM int `json:"distance_m" validate:"gt=0,lte=2147483647"`
	Attempts  int `json:"attempts" validate:"gte=0,lte=2147483647"`
	Makes     int `json:"makes" validate:"gte=0,ltefield=Attempts"`
}

// check runs struct validation and reports the first failure as a
// *domain.ValidationError.
func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	return domain.NewValidationError(fe.Field(), message(fe))
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "isodate":
		return field + " must be formatted as YYYY-MM-DD"
	case "gt":
		return field + " must be a positive integer"
	case "gte":
		return field + " must be >= 0"
	case "ltefield":
		return "makes cannot exceed attempts"
	case "lte":
		return field + " is too large"
	}
	return fmt.Sprintf("%s is invalid", field)
}
