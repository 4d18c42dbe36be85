package errors

import "net/http"

var ErrPreconditionFailed = &Exception{
	Message:    "item was modified by another request",
	StatusCode: http.StatusPreconditionFailed,
}
