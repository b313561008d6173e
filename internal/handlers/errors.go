package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/staybook/hotel-reservation-backend/internal/middleware"
	"github.com/staybook/hotel-reservation-backend/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// MessageResponse is returned by endpoints with nothing else to report
type MessageResponse struct {
	Message string `json:"message"`
}

var errorKeys = map[services.ErrorKind]struct {
	status int
	key    string
}{
	services.KindValidation:     {http.StatusBadRequest, "validation_error"},
	services.KindAuthentication: {http.StatusUnauthorized, "unauthorized"},
	services.KindAuthorization:  {http.StatusForbidden, "forbidden"},
	services.KindNotFound:       {http.StatusNotFound, "not_found"},
	services.KindConflict:       {http.StatusConflict, "conflict"},
}

// respondError is the single place domain errors become HTTP responses.
// Anything that is not a DomainError is a 500; its detail goes to the
// request log only.
func respondError(c *gin.Context, err error) {
	var de *services.DomainError
	if errors.As(err, &de) {
		if mapping, ok := errorKeys[de.Kind]; ok {
			c.JSON(mapping.status, ErrorResponse{
				Error:   mapping.key,
				Message: de.Message,
				Code:    string(de.Kind),
			})
			return
		}
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An unexpected error occurred",
		Code:    "INTERNAL_ERROR",
	})
}

// respondBindError reports a request body or query that failed binding
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: describeBindError(err),
		Code:    string(services.KindValidation),
	})
}

func describeBindError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body"
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, describeField(fe))
	}
	return strings.Join(messages, "; ")
}

func describeField(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email", "trimmed_email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "phone":
		return fmt.Sprintf("%s must be a valid phone number", field)
	case "user_role", "room_status", "reservation_status":
		return fmt.Sprintf("%s has an unknown value %q", field, fe.Value())
	}
	return fmt.Sprintf("%s failed the %s check", field, fe.Tag())
}

// uuidParam parses a UUID path parameter, replying 400 when it is malformed
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, services.ValidationError("Invalid %s", name))
		return uuid.Nil, false
	}
	return id, true
}

// currentActor returns the authenticated caller, replying 401 when the
// route was mounted without AuthMiddleware
func currentActor(c *gin.Context) (services.Actor, bool) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User context not found",
			Code:    "MISSING_USER_CONTEXT",
		})
		return services.Actor{}, false
	}
	return userCtx.Actor(), true
}
