package apiclient

import (
	"errors"
	"strconv"
	"strings"
)

// StatusError is returned when the agent API answers with a non-2xx status.
// Its message is the response body, verbatim apart from surrounding space.
type StatusError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if msg := strings.TrimSpace(e.Body); msg != "" {
		return msg
	}
	return "status " + strconv.Itoa(e.StatusCode)
}

// IsStatus reports whether err carries a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
