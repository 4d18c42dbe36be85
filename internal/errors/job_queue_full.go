package errors

import "net/http"

var ErrJobQueueFull = &Exception{
	Message:    "job queue is full",
	StatusCode: http.StatusTooManyRequests,
}
