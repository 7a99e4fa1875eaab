package config

import (
	"fmt"
	"strings"
)

// ValidationError reports a setting or argument that cannot be used.
// Flag and Env name where a loader-backed setting can be supplied; they are
// empty for plain command arguments.
type ValidationError struct {
	Field   string
	Message string
	Flag    string
	Env     string
}

// Hint tells the user how to supply the setting, or "" when there is no
// flag or environment variable for it.
func (e *ValidationError) Hint() string {
	var sources []string
	if e.Flag != "" {
		sources = append(sources, "--"+e.Flag)
	}
	if e.Env != "" {
		sources = append(sources, e.Env)
	}
	if len(sources) == 0 {
		return ""
	}
	return "set " + strings.Join(sources, " or ")
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	if hint := e.Hint(); hint != "" {
		msg += " (" + hint + ")"
	}
	return msg
}

// ConflictError reports command options that exclude each other.
type ConflictError struct {
	Left  string
	Right string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("options %s and %s cannot be used together", e.Left, e.Right)
}

// NewValidationError reports an invalid command argument.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewConflictError reports two options that cannot be combined.
func NewConflictError(left, right string) error {
	return &ConflictError{Left: left, Right: right}
}

func missingSetting(s setting) error {
	return &ValidationError{Field: s.flag, Message: "is required", Flag: s.flag, Env: s.env}
}

func invalidSetting(s setting, message string) error {
	return &ValidationError{Field: s.flag, Message: message, Flag: s.flag, Env: s.env}
}

// WrapError prefixes a loader step to err.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("config %s: %w", op, err)
}
