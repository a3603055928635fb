// Package validation checks request schemas declared with validator struct
// tags and reports every failing field with a readable message.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names so the field paths match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Decimals are validated as their exact text, never through float64.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	mustRegister(v, "dgt", decimalGreaterThan)
	mustRegister(v, "money", isMoney)

	return v
}

// Money columns are NUMERIC(10,2).
const (
	moneyPlaces      = 2
	moneyWholeDigits = 8
)

var moneyLimit = decimal.New(1, moneyWholeDigits)

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

func fieldDecimal(fl validator.FieldLevel) (decimal.Decimal, bool) {
	if fl.Field().Kind() != reflect.String {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(fl.Field().String())
	return d, err == nil
}

// decimalGreaterThan implements dgt=N for decimal.Decimal fields.
func decimalGreaterThan(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl)
	if !ok {
		return false
	}
	bound, err := decimal.NewFromString(fl.Param())
	if err != nil {
		panic(fmt.Sprintf("validation: dgt=%q is not a decimal", fl.Param()))
	}
	return d.GreaterThan(bound)
}

// isMoney accepts decimals that fit the money columns exactly: at most two
// decimal places and eight whole digits.
func isMoney(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl)
	return ok && moneyPlacesOK(d) && d.Abs().LessThan(moneyLimit)
}

func moneyPlacesOK(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(moneyPlaces))
}

func moneyMessage(value any) string {
	var d decimal.Decimal
	switch v := value.(type) {
	case decimal.Decimal:
		d = v
	case string:
		d, _ = decimal.NewFromString(v)
	}
	if !moneyPlacesOK(d) {
		return fmt.Sprintf("Decimal input should have no more than %d decimal places", moneyPlaces)
	}
	return fmt.Sprintf("Decimal input should have no more than %d digits before the decimal point", moneyWholeDigits)
}

// FieldViolation describes one failing field.
type FieldViolation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Error carries all the violations found in a value.
type Error struct {
	Fields []FieldViolation
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewError builds an Error for a single field. Handlers use it for inputs that
// are not struct fields, such as query parameters.
func NewError(field, rule, message string) *Error {
	return &Error{Fields: []FieldViolation{{Field: field, Rule: rule, Message: message}}}
}

// Validate checks v against its validate tags. It returns nil or an *Error
// listing every violation.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validation: %w", err)
	}

	out := &Error{Fields: make([]FieldViolation, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldViolation{
			Field:   fieldPath(fe.Namespace()),
			Rule:    fe.Tag(),
			Message: message(fe),
		})
	}
	return out
}

// fieldPath drops the struct name validator puts in front of the namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func message(fe validator.FieldError) string {
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return "Field required"
	case "email":
		return "value is not a valid email address"
	case "oneof":
		return fmt.Sprintf("String should match pattern '^(%s)$'", strings.ReplaceAll(param, " ", "|"))
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("String should have at least %s %s", param, characters(param))
		}
		return "Input should be greater than or equal to " + param
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("String should have at most %s %s", param, characters(param))
		}
		return "Input should be less than or equal to " + param
	case "gte":
		return "Input should be greater than or equal to " + param
	case "gt", "dgt":
		return "Input should be greater than " + param
	case "money":
		return moneyMessage(fe.Value())
	case "lte":
		return "Input should be less than or equal to " + param
	case "lt":
		return "Input should be less than " + param
	case "url", "http_url":
		return "Input should be a valid URL"
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}

func characters(n string) string {
	if n == "1" {
		return "character"
	}
	return "characters"
}
