package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/cgmis/guidance/internal/pkg/apperrors"
)

// Custom rule tags
const (
	TagNotBlank     = "notblank"
	TagISODate      = "isodate"
	TagEmailOrEmpty = "emailorempty"
)

// ISODateLayout is the calendar date format accepted by the isodate rule
const ISODateLayout = "2006-01-02"

// Register installs the custom rules and reports JSON field names in errors
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)

	if err := v.RegisterValidation(TagNotBlank, validators.NotBlank); err != nil {
		return fmt.Errorf("register %s: %w", TagNotBlank, err)
	}
	if err := v.RegisterValidation(TagISODate, isISODate); err != nil {
		return fmt.Errorf("register %s: %w", TagISODate, err)
	}
	if err := v.RegisterValidation(TagEmailOrEmpty, emailOrEmpty(v)); err != nil {
		return fmt.Errorf("register %s: %w", TagEmailOrEmpty, err)
	}
	return nil
}

// emailOrEmpty accepts a blank string, which clears an optional address, or a valid email
func emailOrEmpty(v *validator.Validate) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := strings.TrimSpace(fl.Field().String())
		return s == "" || v.Var(s, "email") == nil
	}
}

// New returns a validator with the custom rules installed
func New() *validator.Validate {
	v := validator.New()
	if err := Register(v); err != nil {
		panic(err)
	}
	return v
}

func jsonFieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// IsISODate accepts YYYY-MM-DD or a full RFC3339 timestamp
func IsISODate(s string) bool {
	if _, err := time.Parse(ISODateLayout, s); err == nil {
		return true
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}

func isISODate(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return IsISODate(field.String())
}

// FieldMessage creates a human-readable validation error message
func FieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case TagNotBlank:
		return "must not be blank"
	case "min":
		if e.Kind() == reflect.String {
			return "must be at least " + e.Param() + " characters"
		}
		return "must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "must be at most " + e.Param() + " characters"
		}
		return "must be at most " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "email":
		return "must be a valid email address"
	case TagEmailOrEmpty:
		return "must be a valid email address or empty"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(e.Param(), " ", ", ")
	case TagISODate:
		return "must be a date in YYYY-MM-DD format"
	default:
		return "failed on the '" + e.Tag() + "' rule"
	}
}

// FromBindError converts a binding or validation failure into a ValidationError
// listing every failing field.
func FromBindError(err error) *apperrors.ValidationError {
	verr := apperrors.NewValidationError("Invalid request")

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			verr.Add(fe.Field(), FieldMessage(fe))
		}
		return verr
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return verr.Add(typeErr.Field, "must be of type "+typeErr.Type.String())
	}

	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return verr.Add("query", "invalid number "+strconv.Quote(numErr.Num))
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		verr.Message = "Malformed JSON body"
		return verr
	}

	verr.Message = "Invalid request body"
	return verr
}
