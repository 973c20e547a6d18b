package v1

import (
	"errors"
	"fmt"
	"net/http"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var errInvalidRequestBody = errors.New("invalid request body")

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newForbiddenError(message string) apiError {
	return newAPIError(http.StatusForbidden, message)
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// abortBindingError renders binding failures as field-level messages
// when the validator produced them, falling back to a generic bad
// request for malformed JSON.
func abortBindingError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	fields := make([]fieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, fieldError{
			Field:   jsonFieldName(fe.Field()),
			Message: fieldErrorMessage(fe),
		})
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":  "validation failed",
		"fields": fields,
	})
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed validation on %q", fe.Tag())
	}
}

func jsonFieldName(structField string) string {
	runes := []rune(structField)
	if len(runes) == 0 {
		return structField
	}
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
