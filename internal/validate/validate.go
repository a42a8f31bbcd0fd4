// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package validate checks request payloads against their struct tags before they are sent to the
// API. Besides the stock rules of go-playground/validator it knows the password, phone and usertype
// rules of the rental platform.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	minPasswordLength = 8
	minPhoneLength    = 10
)

var phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]+$`)

// FieldError describes a single failed rule. Field is the JSON path of the value, e.g.
// "applicationForm.employment.income".
type FieldError struct {
	Field   string
	Message string
}

// Error is returned when a payload fails one or more rules.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields {
		parts = append(parts, field.Field+" "+field.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator wraps the go-playground validator with the custom rules registered.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator that reports fields by their JSON names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("password", validatePassword)
	_ = v.RegisterValidation("phone", validatePhone)
	_ = v.RegisterValidation("usertype", validateUserType)
	return &Validator{v: v}
}

// Struct validates s. Failed rules are returned as *Error.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate payload: %w", err)
	}

	verr := &Error{Fields: make([]FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		verr.Fields = append(verr.Fields, FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: message(fe),
		})
	}
	return verr
}

// validatePassword requires at least 8 characters with an upper case letter, a lower case letter
// and a digit.
func validatePassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if utf8.RuneCountInString(password) < minPasswordLength {
		return false
	}

	var hasUpper, hasLower, hasDigit bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}

func validatePhone(fl validator.FieldLevel) bool {
	phone := fl.Field().String()
	return utf8.RuneCountInString(phone) >= minPhoneLength && phonePattern.MatchString(phone)
}

func validateUserType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "owner", "tenant":
		return true
	default:
		return false
	}
}

// fieldPath drops the name of the top level struct from the namespace.
func fieldPath(namespace string) string {
	_, path, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return path
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "password":
		return "must be at least 8 characters and contain an upper case letter, a lower case letter and a number"
	case "phone":
		return "must be a valid phone number"
	case "usertype":
		return "must be either owner or tenant"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("must contain at least %s entries", fe.Param())
		default:
			return "must be at least " + fe.Param()
		}
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must not be less than " + fe.Param()
	case "gtfield":
		return "must be after " + words(fe.Param())
	default:
		return fmt.Sprintf("failed the %q rule", fe.Tag())
	}
}

// words splits a Go field name into lower case words, "StartDate" becomes "start date".
func words(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte(' ')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
