package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground struct validation plus the custom rules the
// wallet and catalog need.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	validate := validator.New()

	// Report field names from json tags so clients see the names they sent.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v := &Validator{validate: validate}
	v.registerCustomRules()
	return v
}

// Validate validates any struct and returns nil when it passes.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	if err := v.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

func (v *Validator) registerCustomRules() {
	// Card numbers arrive as "dddd dddd dddd dddd".
	_ = v.validate.RegisterValidation("card_number", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) != 19 {
			return false
		}
		for i, r := range s {
			if (i+1)%5 == 0 {
				if r != ' ' {
					return false
				}
				continue
			}
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	})

	// Wallet PINs are exactly three digits, matching the card CVV.
	_ = v.validate.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) != 3 {
			return false
		}
		for _, r := range s {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	})
}

// ===== VALIDATION ERROR TYPES =====

type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value"`
	Rule    string      `json:"rule"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(ve))
	for i, e := range ve {
		parts[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ToValidationErrors converts go-playground errors into the service-level
// representation.
func ToValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{
			Field:   "",
			Message: err.Error(),
			Rule:    "struct",
		}}
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: messageForTag(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return out
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "card_number":
		return "must be a card number in the form dddd dddd dddd dddd"
	case "pincode":
		return "must be a three digit pin"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
