package model

import (
	"time"

	"item-service.com/item-service/internal/constants"
)

// Job records an asynchronous item-creation request. The record itself is
// the only failure channel for the background path: workers never report
// errors anywhere else.
type Job struct {
	ID           string              `gorm:"primaryKey;size:36" json:"job_id"`
	Status       constants.JobStatus `gorm:"type:varchar(20);not null" json:"status"`
	ItemID       *string             `gorm:"size:36" json:"item_id,omitempty"`
	ErrorMessage *string             `json:"error_message,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}
