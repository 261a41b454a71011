package item

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service struct holds all the dependencies required, as interfaces. e.g. persistent
// store interface. And all its usecases as methods (with pointer receiver) of this struct.
type Service struct {
	persistentStore persistentStore
}

// NewService accepts any external dependencies required for the item service.
// e.g. DB driver.
func NewService(storage persistentStore) (*Service, error) {
	return &Service{
		persistentStore: storage,
	}, nil
}

// List returns all stored items, optionally narrowed by a case-insensitive
// substring match on name. Filtering is never pushed down to the store; a blank
// or whitespace-only filter returns the unfiltered list.
func (svc *Service) List(ctx context.Context, nameFilter string) ([]Item, error) {
	list, err := svc.persistentStore.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	filter := strings.ToLower(strings.TrimSpace(nameFilter))
	if filter == "" {
		return list, nil
	}

	filtered := make([]Item, 0, len(list))
	for i := range list {
		if strings.Contains(strings.ToLower(list[i].Name), filter) {
			filtered = append(filtered, list[i])
		}
	}

	return filtered, nil
}

func (svc *Service) Get(ctx context.Context, id uuid.UUID) (*Item, error) {
	return svc.persistentStore.Item(ctx, id)
}

// Create assigns the identifier and both timestamps server-side; the caller only
// supplies name, description and price.
func (svc *Service) Create(ctx context.Context, req CreateItemRequest) (*Item, error) {
	err := req.Validate()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	newItem := Item{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CreatedDate: now,
		UpdatedDate: now,
	}

	return svc.persistentStore.InsertItem(ctx, newItem)
}

// Update replaces the whole stored record. ID and CreatedDate are copied from the
// stored item, every mutable field is overwritten and UpdatedDate is refreshed.
func (svc *Service) Update(ctx context.Context, id uuid.UUID, req UpdateItemRequest) error {
	err := req.Validate()
	if err != nil {
		return err
	}

	existing, err := svc.persistentStore.Item(ctx, id)
	if err != nil {
		return err
	}

	replacement := Item{
		ID:          existing.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CreatedDate: existing.CreatedDate,
		UpdatedDate: time.Now().UTC(),
	}

	return svc.persistentStore.ReplaceItem(ctx, replacement)
}

// Delete removes the item with the given identifier, reporting ErrNotFound when
// no such item is stored.
func (svc *Service) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := svc.persistentStore.Item(ctx, id)
	if err != nil {
		return err
	}

	return svc.persistentStore.DeleteItem(ctx, id)
}
