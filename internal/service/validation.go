package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/capitalize-ai/agent-dashboard/internal/apiclient"
	"github.com/capitalize-ai/agent-dashboard/internal/model"
	"github.com/capitalize-ai/agent-dashboard/pkg/metrics"
)

// ErrSettingsNotLoaded is returned by settings operations that need a
// previously fetched document.
var ErrSettingsNotLoaded = errors.New("settings not loaded, fetch them first")

// ValidationError is a local validation failure. No request was made.
type ValidationError struct {
	Widget  string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func invalid(widget, format string, args ...any) error {
	metrics.RecordValidationFailure(widget)
	return &ValidationError{Widget: widget, Message: fmt.Sprintf(format, args...)}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("sop_step", func(fl validator.FieldLevel) bool {
		return model.IsSopStep(fl.Field().String())
	})
	return v
}

// validateStruct runs the struct tags of v and turns failures into a single
// ValidationError for widget.
func validateStruct(widget string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return invalid(widget, "%s", err.Error())
	}

	msgs := make([]string, 0, len(verrs))
	seen := make(map[string]bool, len(verrs))
	for _, fe := range verrs {
		msg := fieldMessage(fe)
		if !seen[msg] {
			seen[msg] = true
			msgs = append(msgs, msg)
		}
	}
	return invalid(widget, "%s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "required_without":
		return "contact_id or user_id is required"
	case "sop_step":
		return fmt.Sprintf("unknown SOP step %q, expected one of: %s", fe.Value(), strings.Join(model.SopSteps, ", "))
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

// OperatorMessage turns err into the single line shown to the operator.
// Validation failures are shown as they are; transport, status and decode
// failures become "failed to <action>: <detail>", where a non-2xx detail is
// the response body verbatim.
func OperatorMessage(action string, err error) string {
	if err == nil {
		return ""
	}
	if IsValidation(err) || errors.Is(err, ErrSettingsNotLoaded) {
		return err.Error()
	}
	var se *apiclient.StatusError
	if errors.As(err, &se) {
		return fmt.Sprintf("failed to %s: %s", action, se.Error())
	}
	return fmt.Sprintf("failed to %s: %s", action, err.Error())
}
