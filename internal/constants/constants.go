package constants

// JobStatus tracks an item-creation job through its lifecycle:
// PENDING -> RUNNING -> COMPLETED or FAILED.
type JobStatus string

const (
	JobPending   JobStatus = "PENDING"
	JobRunning   JobStatus = "RUNNING"
	JobCompleted JobStatus = "COMPLETED"
	JobFailed    JobStatus = "FAILED"
)

// Terminal reports whether the status admits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

type ConditionType string

const (
	ConditionBrandNew ConditionType = "BRAND_NEW"
	ConditionLikeNew  ConditionType = "LIKE_NEW"
	ConditionGood     ConditionType = "GOOD"
	ConditionPoor     ConditionType = "POOR"
)

func (c ConditionType) Valid() bool {
	switch c {
	case ConditionBrandNew, ConditionLikeNew, ConditionGood, ConditionPoor:
		return true
	}
	return false
}

type TransactionType string

const (
	TransactionSale TransactionType = "SALE"
	TransactionRent TransactionType = "RENT"
)

func (t TransactionType) Valid() bool {
	return t == TransactionSale || t == TransactionRent
}
