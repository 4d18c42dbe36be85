package errors

import "net/http"

var ErrJobNotFound = &Exception{
	Message:    "job not found",
	StatusCode: http.StatusNotFound,
}
