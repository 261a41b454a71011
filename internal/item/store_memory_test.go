package item

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoredItem(name string, price float64) Item {
	now := time.Now().UTC()
	return Item{
		ID:          uuid.New(),
		Name:        name,
		Price:       price,
		CreatedDate: now,
		UpdatedDate: now,
	}
}

func TestMemoryStoreInsert(t *testing.T) {
	requirer := require.New(t)
	istore := NewMemoryPersistentStore(false)
	ctx := t.Context()

	it := newStoredItem("Potion", 9)
	_, err := istore.InsertItem(ctx, it)
	requirer.NoError(err)

	_, err = istore.InsertItem(ctx, it)
	requirer.ErrorIs(err, ErrDuplicateItem)
}

func TestMemoryStoreListOrder(t *testing.T) {
	requirer := require.New(t)
	asserter := assert.New(t)
	istore := NewMemoryPersistentStore(false)
	ctx := t.Context()

	names := []string{"Potion", "Iron Sword", "Bronze Shield"}
	for _, name := range names {
		_, err := istore.InsertItem(ctx, newStoredItem(name, 10))
		requirer.NoError(err)
	}

	list, err := istore.ListItems(ctx)
	requirer.NoError(err)
	requirer.Len(list, len(names))
	for i := range names {
		asserter.Equal(names[i], list[i].Name)
	}
}

func TestMemoryStoreAbsentIdentifiers(t *testing.T) {
	requirer := require.New(t)
	istore := NewMemoryPersistentStore(false)
	ctx := t.Context()

	_, err := istore.Item(ctx, uuid.New())
	requirer.ErrorIs(err, ErrNotFound)

	requirer.ErrorIs(istore.ReplaceItem(ctx, newStoredItem("Potion", 9)), ErrNotFound)
	requirer.ErrorIs(istore.DeleteItem(ctx, uuid.New()), ErrNotFound)
}

func TestMemoryStoreReplaceAndDelete(t *testing.T) {
	requirer := require.New(t)
	asserter := assert.New(t)
	istore := NewMemoryPersistentStore(false)
	ctx := t.Context()

	it := newStoredItem("Potion", 9)
	_, err := istore.InsertItem(ctx, it)
	requirer.NoError(err)

	replacement := it
	replacement.Name = "Elixir"
	replacement.Price = 15
	replacement.UpdatedDate = time.Now().UTC()
	requirer.NoError(istore.ReplaceItem(ctx, replacement))

	stored, err := istore.Item(ctx, it.ID)
	requirer.NoError(err)
	asserter.Equal(replacement, *stored)

	requirer.NoError(istore.DeleteItem(ctx, it.ID))
	_, err = istore.Item(ctx, it.ID)
	requirer.ErrorIs(err, ErrNotFound)
}

func TestMemoryStoreSeededDemoItems(t *testing.T) {
	requirer := require.New(t)
	asserter := assert.New(t)
	istore := NewMemoryPersistentStore(true)

	list, err := istore.ListItems(t.Context())
	requirer.NoError(err)
	requirer.Len(list, 3)

	names := make([]string, 0, len(list))
	for i := range list {
		names = append(names, list[i].Name)
	}
	asserter.Equal([]string{"Potion", "Iron Sword", "Bronze Shield"}, names)
}
