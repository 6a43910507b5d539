package instagram

import (
	"regexp"
	"strings"

	errs "instaviewer/pkg/errors"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._]{1,30}$`)

// Validation errors are shown next to the input, never as notifications
var (
	ErrEmptyUsername   = errs.New(errs.ErrorTypeValidation, 0, "Please enter a username")
	ErrInvalidUsername = errs.New(errs.ErrorTypeValidation, 0, "Invalid username. Only letters, numbers, periods and underscores are allowed.")
)

// IsValidUsername reports whether s is an acceptable username as-is
func IsValidUsername(s string) bool {
	return usernamePattern.MatchString(s)
}

// ParseUsername trims raw, strips one leading @ and validates the result
func ParseUsername(raw string) (string, error) {
	username := strings.TrimSpace(raw)
	username = strings.TrimPrefix(username, "@")

	if username == "" {
		return "", ErrEmptyUsername
	}
	if !IsValidUsername(username) {
		return "", ErrInvalidUsername
	}
	return username, nil
}
