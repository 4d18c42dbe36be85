package dto

import (
	"item-service.com/item-service/internal/constants"
	model "item-service.com/item-service/internal/models"
)

// ItemCreate is the creation payload for an item. CategoryIDs are resolved
// against existing categories; ids that do not resolve are dropped.
type ItemCreate struct {
	Title           string                    `json:"title"`
	Description     *string                   `json:"description"`
	Condition       constants.ConditionType   `json:"condition"`
	TransactionType constants.TransactionType `json:"transaction_type"`
	Price           float64                   `json:"price"`
	AddressID       *string                   `json:"address_id"`
	ImageURLs       []string                  `json:"image_urls"`
	CategoryIDs     []uint                    `json:"category_ids"`
}

// Clone returns a deep copy safe to hand across the boundary between the
// request goroutine and a background worker.
func (c ItemCreate) Clone() ItemCreate {
	out := c
	if c.Description != nil {
		d := *c.Description
		out.Description = &d
	}
	if c.AddressID != nil {
		a := *c.AddressID
		out.AddressID = &a
	}
	out.ImageURLs = append([]string(nil), c.ImageURLs...)
	out.CategoryIDs = append([]uint(nil), c.CategoryIDs...)
	return out
}

// ItemUpdate is a partial update. Nil means "field absent, leave it alone";
// a non-nil pointer to a zero value still counts as set. CategoryIDs present
// but empty clears every category link.
type ItemUpdate struct {
	Title           *string                    `json:"title"`
	Description     *string                    `json:"description"`
	Condition       *constants.ConditionType   `json:"condition"`
	TransactionType *constants.TransactionType `json:"transaction_type"`
	Price           *float64                   `json:"price"`
	AddressID       *string                    `json:"address_id"`
	ImageURLs       *[]string                  `json:"image_urls"`
	CategoryIDs     *[]uint                    `json:"category_ids"`
}

// Fields returns the set column assignments, excluding category ids which
// are applied through the link table instead.
func (u *ItemUpdate) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if u.Title != nil {
		fields["title"] = *u.Title
	}
	if u.Description != nil {
		fields["description"] = *u.Description
	}
	if u.Condition != nil {
		fields["condition"] = *u.Condition
	}
	if u.TransactionType != nil {
		fields["transaction_type"] = *u.TransactionType
	}
	if u.Price != nil {
		fields["price"] = *u.Price
	}
	if u.AddressID != nil {
		fields["address_id"] = *u.AddressID
	}
	if u.ImageURLs != nil {
		fields["image_urls"] = model.ImageURLs(*u.ImageURLs)
	}
	return fields
}
