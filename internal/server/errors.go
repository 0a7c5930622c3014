package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	authdomain "github.com/vendora/vendora/internal/auth/domain"
	billingdomain "github.com/vendora/vendora/internal/billing/domain"
	coindomain "github.com/vendora/vendora/internal/coinpayment/domain"
	invoicedomain "github.com/vendora/vendora/internal/invoice/domain"
	machinedomain "github.com/vendora/vendora/internal/machine/domain"
	organizationdomain "github.com/vendora/vendora/internal/organization/domain"
	paymentdomain "github.com/vendora/vendora/internal/payment/domain"
	productdomain "github.com/vendora/vendora/internal/product/domain"
	profiledomain "github.com/vendora/vendora/internal/profile/domain"
	transactiondomain "github.com/vendora/vendora/internal/transaction/domain"
)

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not_found")
	ErrInvalidRequest  = errors.New("invalid_request")
	ErrTooManyRequests = errors.New("too_many_requests")
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

// ErrorHandlingMiddleware converts errors attached to the context into
// the JSON error envelope. Handlers that already wrote a body win.
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
	case err == nil:
		return http.StatusInternalServerError, errorPayload{Type: "internal_error", Message: "internal server error"}

	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidSession),
		errors.Is(err, authdomain.ErrSessionExpired),
		errors.Is(err, authdomain.ErrSessionRevoked):
		return http.StatusUnauthorized, errorPayload{Type: "unauthorized", Message: err.Error()}

	case errors.Is(err, ErrForbidden),
		errors.Is(err, invoicedomain.ErrForbidden),
		errors.Is(err, organizationdomain.ErrForbidden):
		return http.StatusForbidden, errorPayload{Type: "forbidden", Message: "forbidden"}

	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests, errorPayload{Type: "rate_limited", Message: "too many requests"}

	case errors.Is(err, invoicedomain.ErrDuplicatePeriod):
		return http.StatusConflict, errorPayload{Type: "conflict", Message: err.Error()}

	case errors.Is(err, profiledomain.ErrEmailTaken),
		errors.Is(err, productdomain.ErrSKUTaken),
		errors.Is(err, machinedomain.ErrMachineIDTaken),
		errors.Is(err, paymentdomain.ErrAlreadySettled):
		return http.StatusConflict, errorPayload{Type: "conflict", Message: err.Error()}

	case errors.Is(err, invoicedomain.ErrNoContactEmail):
		return http.StatusPreconditionFailed, errorPayload{Type: "precondition_failed", Message: err.Error()}

	case errors.Is(err, invoicedomain.ErrNotPayable):
		return http.StatusUnprocessableEntity, errorPayload{Type: "not_payable", Message: err.Error()}

	case errors.Is(err, paymentdomain.ErrInvalidSignature):
		return http.StatusUnprocessableEntity, errorPayload{Type: "invalid_signature", Message: err.Error()}

	case errors.Is(err, paymentdomain.ErrGateway):
		return http.StatusBadGateway, errorPayload{Type: "upstream_error", Message: err.Error()}

	case errors.Is(err, transactiondomain.ErrGateway),
		errors.Is(err, invoicedomain.ErrEmailSendFailed):
		return http.StatusBadGateway, errorPayload{Type: "upstream_error", Message: err.Error()}

	case isNotFound(err):
		return http.StatusNotFound, errorPayload{Type: "not_found", Message: err.Error()}

	case isValidation(err):
		return http.StatusBadRequest, errorPayload{Type: "validation_error", Message: err.Error()}
	}

	return http.StatusInternalServerError, errorPayload{Type: "internal_error", Message: "internal server error"}
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, profiledomain.ErrNotFound) ||
		errors.Is(err, organizationdomain.ErrNotFound) ||
		errors.Is(err, machinedomain.ErrNotFound) ||
		errors.Is(err, productdomain.ErrNotFound) ||
		errors.Is(err, coindomain.ErrNotFound) ||
		errors.Is(err, transactiondomain.ErrNotFound) ||
		errors.Is(err, invoicedomain.ErrNotFound) ||
		errors.Is(err, paymentdomain.ErrOrderNotFound)
}

func isValidation(err error) bool {
	validation := []error{
		ErrInvalidRequest,
		profiledomain.ErrInvalidEmail,
		profiledomain.ErrInvalidName,
		profiledomain.ErrInvalidPassword,
		profiledomain.ErrInvalidRole,
		profiledomain.ErrInvalidAccountType,
		profiledomain.ErrInvalidID,
		organizationdomain.ErrInvalidName,
		organizationdomain.ErrInvalidEmail,
		organizationdomain.ErrInvalidStatus,
		organizationdomain.ErrInvalidOrganization,
		organizationdomain.ErrInvalidOwner,
		machinedomain.ErrInvalidMachineID,
		machinedomain.ErrInvalidID,
		machinedomain.ErrInvalidStatus,
		machinedomain.ErrInvalidCustomer,
		productdomain.ErrInvalidSKU,
		productdomain.ErrInvalidName,
		productdomain.ErrInvalidPrice,
		productdomain.ErrInvalidID,
		coindomain.ErrInvalidMachine,
		coindomain.ErrInvalidProduct,
		coindomain.ErrInvalidAmount,
		coindomain.ErrInvalidID,
		transactiondomain.ErrInvalidMachine,
		transactiondomain.ErrInvalidProduct,
		transactiondomain.ErrInvalidQuantity,
		transactiondomain.ErrEmptyCart,
		transactiondomain.ErrInvalidID,
		invoicedomain.ErrInvalidID,
		invoicedomain.ErrInvalidOrganization,
		invoicedomain.ErrInvalidPeriod,
		invoicedomain.ErrInvalidAmount,
		invoicedomain.ErrInvalidMethod,
		invoicedomain.ErrInvalidStatus,
		billingdomain.ErrInvalidOrganization,
		billingdomain.ErrInvalidWindow,
	}
	for _, candidate := range validation {
		if errors.Is(err, candidate) {
			return true
		}
	}
	return false
}

// classifyErrorForLog labels errors for the request log without leaking
// internals into the response path.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	switch {
	case status >= 500:
		return "server_error", payload.Type
	case status >= 400:
		return "client_error", payload.Type
	default:
		return "", payload.Type
	}
}
