package errors

import "net/http"

var ErrInvalidCondition = &Exception{
	Message:    "condition must be one of BRAND_NEW, LIKE_NEW, GOOD, POOR",
	StatusCode: http.StatusBadRequest,
}
