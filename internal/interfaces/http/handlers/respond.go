// internal/interfaces/http/handlers/respond.go
package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/zonagamer/zonagamer-backend/internal/pkg/apperror"
)

// respondOK writes the standard success envelope.
func respondOK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{
		"message": message,
		"data":    data,
	})
}

// respondError maps a service error to the standard error body. The
// HTTP status comes from the error code, never from string matching.
func respondError(c *gin.Context, err error) {
	code := apperror.CodeOf(err)
	status := apperror.HTTPStatus(code)

	message := err.Error()
	var details map[string]string
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		message = appErr.Message()
		details = appErr.Details()
	}

	body := gin.H{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"status":    status,
		"error":     apperror.Reason(code),
		"message":   message,
	}
	if len(details) > 0 {
		body["details"] = details
	}
	c.JSON(status, body)
}

// respondBindError translates a request binding failure into a
// validation error body with per-field messages.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[strings.ToLower(fe.Field())] = bindErrorMessage(fe)
		}
		respondError(c, apperror.New(apperror.CodeValidation, "invalid request data").
			WithDetails(details))
		return
	}
	respondError(c, apperror.Wrap(err, apperror.CodeValidation, "invalid request data"))
}

func bindErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be %s or greater", fe.Param())
	default:
		return fmt.Sprintf("failed validation on '%s'", fe.Tag())
	}
}

var errInvalidID = apperror.New(apperror.CodeValidation, "invalid id parameter")

// parseIDParam reads a positive integer path parameter.
func parseIDParam(c *gin.Context, name string) (uint, error) {
	var id uint
	if _, err := fmt.Sscanf(c.Param(name), "%d", &id); err != nil || id == 0 {
		return 0, errInvalidID
	}
	return id, nil
}
