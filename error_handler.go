package jwtclaims

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/microservicios/go-jwt-claims/core"
)

var (
	// ErrMissingCredential is returned when the request carries no bearer token.
	ErrMissingCredential = core.ErrMissingCredential

	// ErrMissingClaim is returned when a required claim is absent from the token.
	ErrMissingClaim = core.ErrMissingClaim
)

// ErrorHandler is a handler which is called when claim resolution fails and
// the request must be aborted. The err can be checked against
// ErrMissingCredential or ErrMissingClaim. The default handler returns 401 for
// ErrMissingCredential, 400 for ErrMissingClaim, and 500 for all other errors.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type errorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
	Claim   string `json:"claim,omitempty"`
}

// DefaultErrorHandler is the default error handler implementation for the
// ClaimMiddleware. If an error handler is not provided via the
// WithErrorHandler option this will be used.
func DefaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	status, body := ErrorResponse(err)

	w.Header().Set("Content-Type", "application/json")
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	}
	w.WriteHeader(status)

	payload, marshalErr := json.Marshal(body)
	if marshalErr != nil {
		return
	}
	_, _ = w.Write(payload)
}

// ErrorResponse maps a resolution error to an HTTP status and a JSON
// serializable body. Framework adapters use it to render the same responses
// as DefaultErrorHandler.
func ErrorResponse(err error) (int, any) {
	var claimErr *core.MissingClaimError

	switch {
	case errors.Is(err, core.ErrMissingCredential):
		return http.StatusUnauthorized, errorResponse{
			Error:   core.ErrorCodeMissingCredential,
			Message: "Bearer credential is missing.",
		}
	case errors.As(err, &claimErr):
		return http.StatusBadRequest, errorResponse{
			Error:   core.ErrorCodeMissingClaim,
			Message: claimErr.Error(),
			Claim:   claimErr.Claim,
		}
	default:
		return http.StatusInternalServerError, errorResponse{
			Message: "Something went wrong while resolving claims.",
		}
	}
}
