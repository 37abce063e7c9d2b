package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"storefront/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Storage limits for NUMERIC(10,2) amounts.
const (
	moneyScale = 2
	maxMoney   = 99999999.99
)

// RequestValidator checks request payloads against their validate tags and
// reports every failure in one *model.ValidationError, each naming the JSON
// path of the offending field.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator creates a validator that understands decimal amounts
// and reports fields by their JSON names.
func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// decimals reach validators as float64 through the custom type above
	_ = v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return f <= maxMoney && decimal.NewFromFloat(f).Exponent() >= -moneyScale
	})

	return &RequestValidator{validate: v}
}

// Struct validates s. A nil pointer is reported as a missing body.
func (rv *RequestValidator) Struct(s any) error {
	if s == nil || (reflect.ValueOf(s).Kind() == reflect.Ptr && reflect.ValueOf(s).IsNil()) {
		return model.NewValidationError("", "request body is required")
	}

	err := rv.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return model.NewValidationError("", err.Error())
	}

	violations := make([]model.FieldViolation, len(fieldErrs))
	for i, fe := range fieldErrs {
		violations[i] = model.FieldViolation{Field: fieldPath(fe), Message: fieldMessage(fe)}
	}
	return model.NewValidationErrors(violations)
}

// fieldPath drops the root struct name from the namespace, leaving e.g.
// "items[1].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "min":
		switch fe.Kind() {
		case reflect.Slice:
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		case reflect.String:
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "money":
		return "must have at most 2 decimal places and not exceed 99999999.99"
	default:
		return "is invalid"
	}
}
