package rest

import (
	"errors"
	"kenyaMart/domain"
	"net/http"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

// statusFor maps service errors to HTTP status codes. Store failures are
// reported as 502 since the store sits behind this service.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrQuantityExceedsStock):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmptyCart):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRemoteRead), errors.Is(err, domain.ErrRemoteWrite):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
