package errors

import "net/http"

var ErrInvalidPrice = &Exception{
	Message:    "price must be non-negative with at most 2 decimal places",
	StatusCode: http.StatusBadRequest,
}
