// Package item is responsible for implementing all features required for handling
// catalog items: the persisted entity, its wire shapes and the usecases built on top.
package item

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/naughtygopher/errors"
)

var (
	ErrNotFound      = errors.NotFound("item not found")
	ErrDuplicateItem = errors.Duplicate("item with the same ID already exists")
)

// price bounds apply at the request boundary only, stored items are unconstrained
const (
	priceMin = float64(1)
	priceMax = float64(1000)
)

// Item is the catalog entity as persisted. ID and CreatedDate are assigned once
// when the item is created and never change afterwards. UpdatedDate is refreshed
// on every successful update.
type Item struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       float64
	CreatedDate time.Time
	UpdatedDate time.Time
}

// CreateItemRequest is the caller-supplied subset of fields for creating an item.
// ID and the timestamps are always server-assigned and never accepted on the wire.
type CreateItemRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
}

func (req CreateItemRequest) Validate() error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required.Error("name is required")),
		validation.Field(&req.Price,
			validation.Required.Error("price is required"),
			validation.Min(priceMin),
			validation.Max(priceMax),
		),
	)
	if err != nil {
		return errors.InputBodyErr(err, "invalid item payload")
	}
	return nil
}

// UpdateItemRequest carries the full set of mutable fields. Updates are whole-record
// replacements, there is no partial patch.
type UpdateItemRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
}

func (req UpdateItemRequest) Validate() error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required.Error("name is required")),
		validation.Field(&req.Price,
			validation.Required.Error("price is required"),
			validation.Min(priceMin),
			validation.Max(priceMax),
		),
	)
	if err != nil {
		return errors.InputBodyErr(err, "invalid item payload")
	}
	return nil
}

// ItemView is the read projection returned to callers. It is the only shape of an
// item ever serialized in a response.
type ItemView struct { //nolint:revive // item.ItemView stutters but matches the wire name
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	CreatedDate time.Time `json:"createdDate"`
	UpdatedDate time.Time `json:"updatedDate"`
}

func (it Item) View() ItemView {
	return ItemView{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Price:       it.Price,
		CreatedDate: it.CreatedDate,
		UpdatedDate: it.UpdatedDate,
	}
}
