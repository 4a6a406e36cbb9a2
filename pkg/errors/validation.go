package errors

import "strings"

// ValidateRequired rejects an empty or whitespace-only request parameter.
// The value's format is otherwise the backend's concern; name is used only
// in the returned message.
func ValidateRequired(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", name)
	}
	return nil
}
