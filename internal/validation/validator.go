// Package validation wraps go-playground/validator and translates its
// failures into field errors keyed by JSON field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/0xcro3dile/makanapa-go/internal/domain/entities"
)

// Validator validates request DTOs.
type Validator struct {
	v        *validator.Validate
	messages map[string]string
}

// New creates a Validator that reports JSON field names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	return &Validator{v: v, messages: make(map[string]string)}
}

// RegisterRule adds a struct-level rule for the given types. messages maps
// the tags the rule reports to their user-facing text.
func (v *Validator) RegisterRule(fn validator.StructLevelFunc, messages map[string]string, types ...interface{}) {
	for tag, msg := range messages {
		v.messages[tag] = msg
	}
	v.v.RegisterStructValidation(fn, types...)
}

// Struct validates s and returns nil when it passes.
func (v *Validator) Struct(s interface{}) []entities.FieldError {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []entities.FieldError{{Field: "unknown", Message: err.Error()}}
	}

	out := make([]entities.FieldError, 0, len(validationErrs))
	seen := make(map[entities.FieldError]bool, len(validationErrs))
	for _, fe := range validationErrs {
		item := entities.FieldError{Field: fe.Field(), Message: v.translate(fe)}
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

var errorMessageTemplates = map[string]string{
	"required":  "%s is required",
	"latitude":  "%s must be a valid latitude (-90 to 90)",
	"longitude": "%s must be a valid longitude (-180 to 180)",
}

var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"min":   "%s must be at least %s",
	"max":   "%s must be at most %s",
}

func (v *Validator) translate(fe validator.FieldError) string {
	if msg, ok := v.messages[fe.Tag()]; ok {
		return msg
	}
	field := capitalize(fe.Field())
	if template, ok := errorMessageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(template, field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
