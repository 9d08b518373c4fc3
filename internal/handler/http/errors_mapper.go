package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/cybucks/internal/service"
	"github.com/MKhiriev/cybucks/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrCredentialsRequired: http.StatusBadRequest,
	service.ErrUsernameRequired:    http.StatusBadRequest,
	service.ErrAmountNotPositive:   http.StatusBadRequest,
	service.ErrSelfTransfer:        http.StatusBadRequest,
	service.ErrWrongPassword:       http.StatusUnauthorized,
	service.ErrInsufficientFunds:   http.StatusPaymentRequired,

	store.ErrAccountNotFound:      http.StatusNotFound,
	store.ErrAccountAlreadyExists: http.StatusConflict,

	// Losing the conditional write more times than the retry budget allows
	// means the account is too contended right now; the client may retry.
	store.ErrBalanceConflict:  http.StatusServiceUnavailable,
	store.ErrStoreUnavailable: http.StatusServiceUnavailable,

	store.ErrBuildingSQLQuery: http.StatusInternalServerError,
	store.ErrExecutingQuery:   http.StatusInternalServerError,
	store.ErrScanningRow:      http.StatusInternalServerError,
}

func statusFromError(err error) int {
	// A partial transfer wraps the underlying credit failure, which may map
	// elsewhere in the table; the partial outcome takes precedence.
	if errors.Is(err, service.ErrPartialTransfer) {
		return http.StatusInternalServerError
	}
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// publicMessage reduces err to a string safe to show to API clients. Known
// domain errors keep their sentinel text; anything else is flattened so
// internals never leak into a response body.
func publicMessage(err error) string {
	if errors.Is(err, service.ErrPartialTransfer) {
		return service.ErrPartialTransfer.Error()
	}
	for target := range errorStatusMap {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return "internal server error"
}
