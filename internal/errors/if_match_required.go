package errors

import "net/http"

var ErrIfMatchRequired = &Exception{
	Message:    "If-Match header is required",
	StatusCode: http.StatusBadRequest,
}
