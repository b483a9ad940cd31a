// File: internal/validation/validation.go
package validation

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"pocaswap-api/internal/errs"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	validate *validator.Validate
	policy   *bluemonday.Policy

	alphaNumRegex = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
)

func init() {
	validate = validator.New()

	// Report json field names instead of Go field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return strings.ToLower(fld.Name)
		}
		return name
	})

	// Register custom validators
	validate.RegisterValidation("password", validatePassword)
	validate.RegisterValidation("alphanum", validateAlphaNum)
	validate.RegisterValidation("nickname", validateNickname)

	// StrictPolicy() strips all HTML tags.
	policy = bluemonday.StrictPolicy()
}

// ValidateStruct validates a struct and returns a user-friendly error wrapping errs.ErrInvalidInput.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %v", errs.ErrInvalidInput, err)
	}

	var errorMessages []string
	for _, fe := range validationErrors {
		errorMessages = append(errorMessages, getErrorMessage(fe))
	}

	return fmt.Errorf("%w: %s", errs.ErrInvalidInput, strings.Join(errorMessages, "; "))
}

// getErrorMessage returns a user-friendly error message for validation errors
func getErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	isText := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid id", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		if isText {
			return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if isText {
			return fmt.Sprintf("%s must not exceed %s characters", field, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must not contain more than %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s must not exceed %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "alphanum":
		return fmt.Sprintf("%s must contain only letters and numbers", field)
	case "nickname":
		return fmt.Sprintf("%s may contain only letters, numbers, '_' and '.'", field)
	case "password":
		return fmt.Sprintf("%s must contain at least one uppercase letter, one lowercase letter, one number, and one special character", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// validatePassword checks if password meets security requirements
func validatePassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()

	if len(password) < 8 {
		return false
	}

	var (
		hasUpper   = false
		hasLower   = false
		hasNumber  = false
		hasSpecial = false
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	return hasUpper && hasLower && hasNumber && hasSpecial
}

func validateAlphaNum(fl validator.FieldLevel) bool {
	return alphaNumRegex.MatchString(fl.Field().String())
}

// validateNickname accepts letters of any script (Hangul nicknames are common),
// digits, underscore and dot.
func validateNickname(fl validator.FieldLevel) bool {
	return IsValidNickname(fl.Field().String())
}

// IsValidNickname reports whether s is usable as a nickname.
func IsValidNickname(s string) bool {
	n := utf8.RuneCountInString(s)
	if n < 2 || n > 30 {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '.' {
			return false
		}
	}
	return true
}

// SanitizeString removes potentially dangerous characters from user input
func SanitizeString(input string) string {
	// Remove null bytes
	cleaned := strings.ReplaceAll(input, "\x00", "")

	// Sanitize using our strict allow-list policy
	// This will strip all HTML tags, leaving only the text. Clients render
	// plain text, so entities escaped by the policy are decoded again.
	sanitized := html.UnescapeString(policy.Sanitize(cleaned))

	return strings.TrimSpace(sanitized)
}

// SanitizePtr sanitizes the value behind p in place.
func SanitizePtr(p *string) {
	if p != nil {
		*p = SanitizeString(*p)
	}
}

// SanitizeAll sanitizes every entry and drops the ones that become empty.
func SanitizeAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = SanitizeString(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
