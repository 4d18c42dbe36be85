package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"item-service.com/item-service/internal/constants"
)

// ImageURLs is stored as a JSON array in a single text column.
type ImageURLs []string

func (u ImageURLs) Value() (driver.Value, error) {
	if u == nil {
		u = ImageURLs{}
	}
	b, err := json.Marshal(u)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (u *ImageURLs) Scan(value interface{}) error {
	if value == nil {
		*u = ImageURLs{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, u)
	case string:
		return json.Unmarshal([]byte(v), u)
	default:
		return fmt.Errorf("cannot scan %T into ImageURLs", value)
	}
}

type Category struct {
	ID          uint    `gorm:"primaryKey" json:"category_id"`
	Name        string  `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description *string `json:"description,omitempty"`
}

// Item is a classified listing. UpdatedAt doubles as the optimistic
// concurrency token: it changes on every successful mutation and is
// surfaced to clients as the ETag.
type Item struct {
	ID              string                    `gorm:"primaryKey;size:36" json:"item_id"`
	Title           string                    `gorm:"size:255;not null;index" json:"title"`
	Description     *string                   `gorm:"type:text" json:"description,omitempty"`
	Condition       constants.ConditionType   `gorm:"type:varchar(20);not null" json:"condition"`
	TransactionType constants.TransactionType `gorm:"type:varchar(10);not null" json:"transaction_type"`
	Price           float64                   `gorm:"not null" json:"price"`
	AddressID       *string                   `gorm:"size:36" json:"address_id,omitempty"`
	ImageURLs       ImageURLs                 `gorm:"type:text" json:"image_urls"`
	Categories      []Category                `gorm:"many2many:item_categories" json:"categories"`
	CreatedAt       time.Time                 `json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}
