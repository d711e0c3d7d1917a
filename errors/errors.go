package errors

import (
	"errors"
	"net/http"
)

var (
	NotFound            = HttpError{http.StatusNotFound, errors.New("not found")}
	BadRequest          = HttpError{http.StatusBadRequest, errors.New("bad request")}
	Unauthorized        = HttpError{http.StatusUnauthorized, errors.New("unauthorized")}
	TooManyRequests     = HttpError{http.StatusTooManyRequests, errors.New("too many requests")}
	InternalServerError = HttpError{http.StatusInternalServerError, errors.New("internal server error")}
	TransportFailure    = HttpError{http.StatusBadGateway, errors.New("transport failure")}
	MalformedPayload    = HttpError{http.StatusBadGateway, errors.New("malformed payload")}
	NotReady            = HttpError{http.StatusServiceUnavailable, errors.New("not ready")}
)

type HttpError struct {
	Code int
	Err  error
}

func (h HttpError) Unwrap() error {
	return h.Err
}

func (h HttpError) Error() string {
	return h.Err.Error()
}
