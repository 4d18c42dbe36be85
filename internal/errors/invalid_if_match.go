package errors

import "net/http"

var ErrInvalidIfMatch = &Exception{
	Message:    "If-Match header must be a quoted ISO-8601 timestamp",
	StatusCode: http.StatusBadRequest,
}
