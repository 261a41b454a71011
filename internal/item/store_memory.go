package item

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/naughtygopher/errors"
)

// memoryItemStore keeps the whole collection in process memory, in insertion
// order. It exists for tests and for running the service without a database.
// All operations take the lock; an index computed under it can never go stale.
type memoryItemStore struct {
	locker *sync.RWMutex
	items  []Item
}

func NewMemoryPersistentStore(seedDemoItems bool) *memoryItemStore { //nolint:revive // it is ok to return unexported type in this case, ensures controlled access
	istore := &memoryItemStore{
		locker: &sync.RWMutex{},
		items:  make([]Item, 0),
	}

	if seedDemoItems {
		now := time.Now().UTC()
		for _, seed := range []struct {
			name  string
			price float64
		}{
			{"Potion", 9},
			{"Iron Sword", 20},
			{"Bronze Shield", 18},
		} {
			istore.items = append(istore.items, Item{
				ID:          uuid.New(),
				Name:        seed.name,
				Price:       seed.price,
				CreatedDate: now,
				UpdatedDate: now,
			})
		}
	}

	return istore
}

func (istore *memoryItemStore) indexOf(id uuid.UUID) int {
	for i := range istore.items {
		if istore.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (istore *memoryItemStore) ListItems(_ context.Context) ([]Item, error) {
	istore.locker.RLock()
	defer istore.locker.RUnlock()

	list := make([]Item, len(istore.items))
	copy(list, istore.items)
	return list, nil
}

func (istore *memoryItemStore) Item(_ context.Context, id uuid.UUID) (*Item, error) {
	istore.locker.RLock()
	defer istore.locker.RUnlock()

	idx := istore.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}

	it := istore.items[idx]
	return &it, nil
}

func (istore *memoryItemStore) InsertItem(_ context.Context, it Item) (*Item, error) {
	istore.locker.Lock()
	defer istore.locker.Unlock()

	if istore.indexOf(it.ID) >= 0 {
		return nil, errors.Wrapf(ErrDuplicateItem, ": %s", it.ID)
	}

	istore.items = append(istore.items, it)
	return &it, nil
}

func (istore *memoryItemStore) ReplaceItem(_ context.Context, it Item) error {
	istore.locker.Lock()
	defer istore.locker.Unlock()

	idx := istore.indexOf(it.ID)
	if idx < 0 {
		return errors.Wrapf(ErrNotFound, ": %s", it.ID)
	}

	istore.items[idx] = it
	return nil
}

func (istore *memoryItemStore) DeleteItem(_ context.Context, id uuid.UUID) error {
	istore.locker.Lock()
	defer istore.locker.Unlock()

	idx := istore.indexOf(id)
	if idx < 0 {
		return errors.Wrapf(ErrNotFound, ": %s", id)
	}

	istore.items = append(istore.items[:idx], istore.items[idx+1:]...)
	return nil
}
