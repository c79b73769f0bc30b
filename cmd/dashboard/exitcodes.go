package main

import (
	"errors"
	"strings"

	"github.com/capitalize-ai/agent-dashboard/internal/service"
)

type cliError struct {
	code int
	msg  string
	err  error
}

func (e *cliError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK         = 0
	exitFailure    = 1
	exitValidation = 2
	exitUsage      = 3
	exitRemote     = 4
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

// widgetError turns a service failure into the operator message and the
// matching exit code.
func widgetError(action string, err error) error {
	if err == nil {
		return nil
	}
	code := exitRemote
	switch {
	case service.IsValidation(err) || errors.Is(err, service.ErrSettingsNotLoaded):
		code = exitValidation
	case errors.Is(err, service.ErrActivityDisabled):
		code = exitUsage
	}
	return &cliError{code: code, msg: service.OperatorMessage(action, err), err: err}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	// cobra reports unmatched commands before any of ours run
	if strings.HasPrefix(err.Error(), "unknown command ") {
		return exitUsage
	}
	return exitFailure
}
