// Package validation binds request payloads and turns validation failures
// into client-facing errors.
//
// Rules live in `validate` struct tags and are enforced with
// go-playground/validator; each failure becomes an errs.FieldError.
package validation

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/shop-microservices/internal/errs"
)

// Validatable is implemented by request payloads.
type Validatable interface {
	Validate() error
}

// CustomValidationError is a failure that cannot be expressed as a tag,
// such as a price that does not fit its store.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is returned from Validate for non-tag failures.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// BindAndValidate binds the request into payload (a pointer) and runs its
// Validate method. Malformed bodies yield a 400 carrying echo's bind
// message; other bind failures such as 415 keep echo's status.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			if echoErr.Code != http.StatusBadRequest {
				return echoErr
			}
			if msg, ok := echoErr.Message.(string); ok {
				return errs.NewBadRequestError(msg, false, nil, nil, nil)
			}
		}
		return errs.NewBadRequestError("Invalid request body", false, nil, nil, nil)
	}

	if msg, fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewBadRequestError(msg, true, nil, fieldErrors, nil)
	}

	return nil
}

func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var validationErrors validator.ValidationErrors
	var customErrors CustomValidationErrors
	switch {
	case errors.As(err, &validationErrors):
	case errors.As(err, &customErrors):
		for _, ce := range customErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: ce.Field,
				Error: ce.Message,
			})
		}
		return "Validation failed", fieldErrors
	default:
		return "Validation failed", []errs.FieldError{{Field: "body", Error: err.Error()}}
	}

	for _, fe := range validationErrors {
		msg := "failed on " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: strings.ToLower(fe.Field()),
			Error: msg,
		})
	}

	return "Validation failed", fieldErrors
}
