package gitea

import (
	"errors"
	"net/http"
	"strings"
)

// StatusCode extracts the wrapped HTTP status code when available.
func StatusCode(err error) (int, bool) {
	var stErr *statusError
	if errors.As(err, &stErr) {
		return stErr.StatusCode, true
	}
	return 0, false
}

// IsConfigError reports whether err stems from a missing client setting.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}

// IsNotFound reports whether the server answered 404.
func IsNotFound(err error) bool {
	status, ok := StatusCode(err)
	return ok && status == http.StatusNotFound
}

// IsAuthError reports whether an error is an authentication or authorization failure.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}

	if status, ok := StatusCode(err); ok {
		return status == http.StatusUnauthorized || status == http.StatusForbidden
	}

	text := strings.ToLower(err.Error())
	return strings.Contains(text, "status 401") ||
		strings.Contains(text, "status 403") ||
		strings.Contains(text, "unauthorized") ||
		strings.Contains(text, "forbidden")
}
