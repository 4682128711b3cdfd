package schema

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// FormatFunc reports whether s satisfies a named format.
type FormatFunc func(s string) bool

var (
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRe    = regexp.MustCompile(`^\+?[\d\s()-]{10,}$`)
	urlRe      = regexp.MustCompile(`^https?://[^\s/$.?#].[^\s]*$`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9._-]{3,30}$`)
)

// dateTimeLayouts are the ISO-8601 shapes accepted by the datetime format.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04-07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

const passwordSymbols = "@$!%*?&"

func builtinFormats() map[string]FormatFunc {
	return map[string]FormatFunc{
		"email":    emailRe.MatchString,
		"phone":    phoneRe.MatchString,
		"url":      urlRe.MatchString,
		"date":     IsDate,
		"datetime": IsDateTime,
		"uuid":     IsUUID,
		"password": IsStrongPassword,
		"username": usernameRe.MatchString,
	}
}

// IsDate accepts calendar dates in YYYY-MM-DD form.
// Month and day may drop their leading zero.
func IsDate(s string) bool {
	_, err := time.Parse("2006-1-2", s)
	return err == nil
}

// IsDateTime accepts ISO-8601 timestamps. A trailing "Z" is read as UTC.
func IsDateTime(s string) bool {
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}
	for _, layout := range dateTimeLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// IsUUID accepts the canonical hyphenated form only, in either case.
func IsUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// IsStrongPassword requires at least 8 characters drawn only from ASCII
// letters, digits and @$!%*?&, with at least one of each class.
func IsStrongPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case r > unicode.MaxASCII:
			return false
		case 'a' <= r && r <= 'z':
			lower = true
		case 'A' <= r && r <= 'Z':
			upper = true
		case '0' <= r && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		default:
			return false
		}
	}
	return lower && upper && digit && symbol
}
