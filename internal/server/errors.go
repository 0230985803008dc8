package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	accountdomain "github.com/gatherhq/gatherpay/internal/account/domain"
	catalogdomain "github.com/gatherhq/gatherpay/internal/catalog/domain"
	checkoutdomain "github.com/gatherhq/gatherpay/internal/checkout/domain"
	gatewaydomain "github.com/gatherhq/gatherpay/internal/gateway/domain"
	revenuedomain "github.com/gatherhq/gatherpay/internal/revenue/domain"
	webhookdomain "github.com/gatherhq/gatherpay/internal/webhook/domain"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var ErrInvalidRequest = errors.New("invalid_request")

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case isAuthenticationError(err):
		// The response never says which part of the check failed.
		return http.StatusBadRequest, errorPayload{
			Type:    "authentication_error",
			Message: "request could not be authenticated",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: err.Error(),
		}
	case errors.Is(err, gatewaydomain.ErrGatewayUnavailable):
		return http.StatusInternalServerError, errorPayload{
			Type:    "gateway_error",
			Message: "payment gateway request failed",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, accountdomain.ErrInvalidHostUser),
		errors.Is(err, accountdomain.ErrInvalidAccount),
		errors.Is(err, catalogdomain.ErrInvalidEvent),
		errors.Is(err, catalogdomain.ErrInvalidName),
		errors.Is(err, catalogdomain.ErrInvalidPrice),
		errors.Is(err, catalogdomain.ErrInvalidAccount),
		errors.Is(err, checkoutdomain.ErrInvalidSession),
		errors.Is(err, revenuedomain.ErrInvalidAccount),
		errors.Is(err, webhookdomain.ErrInvalidPayload),
		errors.Is(err, webhookdomain.ErrInvalidEvent):
		return true
	default:
		return false
	}
}

func isAuthenticationError(err error) bool {
	return errors.Is(err, webhookdomain.ErrInvalidSignature)
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, accountdomain.ErrAccountNotFound),
		errors.Is(err, catalogdomain.ErrNotFound),
		errors.Is(err, checkoutdomain.ErrSessionNotFound):
		return true
	default:
		return false
	}
}

// classifyErrorForLog labels request errors for the access log without
// mutating the response.
func classifyErrorForLog(err error) (string, string) {
	switch {
	case isValidationError(err):
		return "validation_error", err.Error()
	case isAuthenticationError(err):
		return "authentication_error", "invalid_signature"
	case isNotFoundError(err):
		return "not_found", err.Error()
	case errors.Is(err, gatewaydomain.ErrGatewayUnavailable):
		return "gateway_error", "gateway_unavailable"
	default:
		return "internal_error", ""
	}
}
