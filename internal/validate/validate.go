// Package validate holds the field validators used by handlers and services.
//
// Every validator takes the raw value and a human readable field name and
// returns either the typed value or a validation failure naming the field.
// Callers stop at the first failure.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"go-membership-api/pkg/apierror"
)

// DateLayout is the only accepted calendar date shape.
const DateLayout = "2006-01-02"

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+\-]+@[a-zA-Z0-9\-]+\.[a-zA-Z0-9.\-]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
	uuidPattern  = regexp.MustCompile(`^[0-9A-F]{8}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{12}$`)

	engine = validator.New()
)

// EarliestDate is the lower bound for birth dates.
var EarliestDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

func failure(field string) *apierror.APIError {
	return apierror.Validation(field, fmt.Sprintf("%s validation failed", field))
}

// RequiredString fails when the trimmed value has no characters. The trimmed
// value is returned.
func RequiredString(value string, field string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if utf8.RuneCountInString(trimmed) == 0 {
		return "", failure(field)
	}
	return trimmed, nil
}

func Email(value string, field string) (string, error) {
	if !emailPattern.MatchString(value) {
		return "", failure(field)
	}
	return value, nil
}

// MinPasswordLength is counted in characters, not bytes.
const MinPasswordLength = 8

// Password requires at least MinPasswordLength characters. Surrounding
// whitespace is significant and kept.
func Password(value string, field string) (string, error) {
	if utf8.RuneCountInString(value) < MinPasswordLength || strings.TrimSpace(value) == "" {
		return "", failure(field)
	}
	return value, nil
}

// OptionalEmail treats nil and blank input as absent.
func OptionalEmail(value *string, field string) (*string, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}

	email, err := Email(strings.TrimSpace(*value), field)
	if err != nil {
		return nil, err
	}
	return &email, nil
}

// Phone accepts exactly ten ASCII digits.
func Phone(value string, field string) (string, error) {
	if !phonePattern.MatchString(value) {
		return "", failure(field)
	}
	return value, nil
}

// UUID accepts the 8-4-4-4-12 hex grouping in either case and returns the
// value lower-cased.
func UUID(value string, field string) (string, error) {
	if !uuidPattern.MatchString(strings.ToUpper(value)) {
		return "", failure(field)
	}
	return strings.ToLower(value), nil
}

// Date parses a YYYY-MM-DD calendar date. Range checks live in DateBetween.
func Date(value string, field string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, failure(field)
	}
	return parsed, nil
}

// DateBetween fails unless min <= date <= max, compared by calendar day.
func DateBetween(date time.Time, field string, min time.Time, max time.Time) (time.Time, error) {
	day := truncateDay(date)
	if day.Before(truncateDay(min)) || day.After(truncateDay(max)) {
		return time.Time{}, failure(field)
	}
	return day, nil
}

// BirthDate parses value and requires it to fall between 1900-01-01 and today.
func BirthDate(value string, field string, today time.Time) (time.Time, error) {
	parsed, err := Date(value, field)
	if err != nil {
		return time.Time{}, err
	}
	return DateBetween(parsed, field, EarliestDate, today)
}

// PastDate parses value and requires it to be no later than today.
func PastDate(value string, field string, today time.Time) (time.Time, error) {
	parsed, err := Date(value, field)
	if err != nil {
		return time.Time{}, err
	}
	return DateBetween(parsed, field, time.Time{}, today)
}

// OneOf fails unless value is one of allowed. Matching is exact.
func OneOf(value string, field string, allowed ...string) (string, error) {
	if len(allowed) == 0 || strings.ContainsAny(value, " \t") {
		return "", failure(field)
	}
	if err := engine.Var(value, "required,oneof="+strings.Join(allowed, " ")); err != nil {
		return "", failure(field)
	}
	return value, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
