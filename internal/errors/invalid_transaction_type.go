package errors

import "net/http"

var ErrInvalidTransactionType = &Exception{
	Message:    "transaction_type must be SALE or RENT",
	StatusCode: http.StatusBadRequest,
}
