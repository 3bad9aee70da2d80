// Package validate checks variable values against their declared type.
package validate

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/opencode-ai/mailassist/internal/catalog"
)

// Reason explains why a value was rejected.
type Reason string

// Validation reasons. ReasonNone accompanies every valid result.
const (
	ReasonNone          Reason = ""
	ReasonRequired      Reason = "REQUIRED"
	ReasonInvalidEmail  Reason = "INVALID_EMAIL"
	ReasonInvalidPhone  Reason = "INVALID_PHONE"
	ReasonInvalidDate   Reason = "INVALID_DATE"
	ReasonInvalidTime   Reason = "INVALID_TIME"
	ReasonInvalidNumber Reason = "INVALID_NUMBER"
)

// Result is the verdict for a single value.
type Result struct {
	Valid  bool   `json:"valid"`
	Reason Reason `json:"reason,omitempty"`
}

// MinPhoneDigits is the minimum number of digits in a phone number.
const MinPhoneDigits = 10

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern  = regexp.MustCompile(`^[0-9+\-().]+$`)
	timePattern   = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)
	numberPattern = regexp.MustCompile(`^[+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)([eE][+-]?[0-9]+)?$`)
)

// DateLayouts are the calendar date forms accepted for date variables.
var DateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02T15:04:05Z07:00",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

var valid = Result{Valid: true}

func invalid(reason Reason) Result {
	return Result{Valid: false, Reason: reason}
}

// Validate checks raw against typ. Empty or all-whitespace values are valid
// unless required. Unknown types accept any value.
func Validate(typ catalog.VariableType, required bool, raw string) Result {
	if strings.TrimSpace(raw) == "" {
		if required {
			return invalid(ReasonRequired)
		}
		return valid
	}

	switch typ {
	case catalog.TypeEmail:
		if !IsEmail(raw) {
			return invalid(ReasonInvalidEmail)
		}
	case catalog.TypePhone:
		if !IsPhone(raw) {
			return invalid(ReasonInvalidPhone)
		}
	case catalog.TypeDate:
		if _, ok := ParseDate(raw); !ok {
			return invalid(ReasonInvalidDate)
		}
	case catalog.TypeTime:
		if !IsTime(raw) {
			return invalid(ReasonInvalidTime)
		}
	case catalog.TypeNumber:
		if !IsNumber(raw) {
			return invalid(ReasonInvalidNumber)
		}
	}
	return valid
}

// IsEmail reports whether value has the local@domain.tld shape.
func IsEmail(value string) bool {
	return emailPattern.MatchString(value)
}

// IsPhone reports whether value, with whitespace removed, uses only digits and
// +-(). and carries at least MinPhoneDigits digits.
func IsPhone(value string) bool {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, value)
	if !phonePattern.MatchString(compact) {
		return false
	}

	digits := 0
	for _, r := range compact {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= MinPhoneDigits
}

// ParseDate parses value as a calendar date using DateLayouts.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range DateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// IsTime reports whether value is an HH:MM 24-hour time.
func IsTime(value string) bool {
	return timePattern.MatchString(strings.TrimSpace(value))
}

// IsNumber reports whether value is a finite decimal number.
func IsNumber(value string) bool {
	value = strings.TrimSpace(value)
	if !numberPattern.MatchString(value) {
		return false
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return false
	}
	return !math.IsInf(parsed, 0) && !math.IsNaN(parsed)
}
