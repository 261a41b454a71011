package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/prashantkr001/catalog-go/internal/item"
)

func (ap *API) ItemList(ctx context.Context, nameFilter string) ([]item.Item, error) {
	list, err := ap.itemService.List(ctx, nameFilter)
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (ap *API) ItemGet(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	it, err := ap.itemService.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (ap *API) ItemCreate(ctx context.Context, req item.CreateItemRequest) (*item.Item, error) {
	createdItem, err := ap.itemService.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	return createdItem, nil
}

func (ap *API) ItemUpdate(ctx context.Context, id uuid.UUID, req item.UpdateItemRequest) error {
	return ap.itemService.Update(ctx, id, req)
}

func (ap *API) ItemDelete(ctx context.Context, id uuid.UUID) error {
	return ap.itemService.Delete(ctx, id)
}
