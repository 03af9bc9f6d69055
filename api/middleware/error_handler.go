// api/middleware/error_handler.go
package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/myfood/myfood-backend/internal/auth"
	"github.com/myfood/myfood-backend/internal/core"
	"github.com/myfood/myfood-backend/internal/nutrition"
	"github.com/myfood/myfood-backend/internal/services"
	"github.com/myfood/myfood-backend/internal/storage"
)

// ErrForbidden is attached by handlers when a user acts on another account.
var ErrForbidden = errors.New("forbidden")

// ErrorHandler creates a Gin middleware for centralized error handling.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		// Only the last error decides the response.
		err := c.Errors.Last().Err
		customLog.Printf("[ErrorHandler] Detected error: %v | Type: %T", err, err)

		statusCode, userMessage := classify(err)

		if !c.Writer.Written() {
			c.AbortWithStatusJSON(statusCode, gin.H{"error": userMessage})
		} else {
			customLog.Debugf("[ErrorHandler] Response already written before handling error.")
		}
	}
}

func classify(err error) (int, string) {
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrNoCurrentUser):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, storage.ErrEmailExists),
		errors.Is(err, services.ErrUserExists),
		errors.Is(err, services.ErrEmailInUse):
		return http.StatusConflict, err.Error()
	case errors.Is(err, storage.ErrConstraintViolation):
		// The wrapped driver message names tables and columns.
		return http.StatusConflict, "The request references data that does not exist or is still in use."
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, auth.ErrTokenExpired):
		return http.StatusUnauthorized, "Authentication token has expired."
	case errors.Is(err, auth.ErrTokenMalformed),
		errors.Is(err, auth.ErrTokenInvalid),
		errors.Is(err, auth.ErrTokenClaimsInvalid),
		errors.Is(err, auth.ErrUnexpectedSigningMethod):
		return http.StatusUnauthorized, "Invalid or malformed authentication token."
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.As(err, &validationErrs):
		for _, fe := range validationErrs {
			customLog.Debugf("Validation Error: Field %s failed on %s", fe.Field(), fe.Tag())
		}
		return http.StatusBadRequest, "Validation failed. Please check your input."
	case errors.Is(err, core.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrNoFoodIdentified):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, nutrition.ErrUpstream),
		errors.Is(err, nutrition.ErrMalformedPayload),
		errors.Is(err, nutrition.ErrNotConfigured):
		return http.StatusBadGateway, "The food recognition service is unavailable."
	}

	customLog.Warnf("Unhandled error type: %T, Error: %v", err, err)
	return http.StatusInternalServerError, "An unexpected internal server error occurred."
}
