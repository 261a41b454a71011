package item

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/naughtygopher/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCreateItem ensures the creation business logic is in place
/*
It tests the following scenarios
1. Server-side assignment of ID and both timestamps.
2. Persistence of the created item.
3. Field validations at the boundary.
*/
func TestCreateItem(t *testing.T) {
	requirer := require.New(t)
	asserter := assert.New(t)
	svc, err := NewService(NewMemoryPersistentStore(false))
	requirer.NoError(err)
	ctx := t.Context()

	before := time.Now().UTC()
	created, err := svc.Create(ctx, CreateItemRequest{Name: "Potion", Price: 9})
	requirer.NoError(err)

	t.Run("id and timestamps are server assigned", func(_ *testing.T) {
		asserter.NotEqual(uuid.Nil, created.ID)
		asserter.WithinDuration(before, created.CreatedDate, time.Second)
		asserter.Equal(created.CreatedDate, created.UpdatedDate)
	})

	t.Run("check if item was persisted in the storage", func(_ *testing.T) {
		stored, err := svc.Get(ctx, created.ID)
		requirer.NoError(err)
		asserter.Equal(created, stored)
	})

	t.Run("testing if the field validations are in place", func(_ *testing.T) {
		invalid := []CreateItemRequest{
			{Name: "", Price: 9},
			{Name: "Potion", Price: 0},
			{Name: "Potion", Price: 1001},
		}
		for _, req := range invalid {
			_, err = svc.Create(ctx, req)
			requirer.Error(err)
			status, _, _ := errors.HTTPStatusCodeMessage(err)
			asserter.Equal(http.StatusBadRequest, status)
		}
	})
}

func TestUpdateItem(t *testing.T) {
	requirer := require.New(t)
	asserter := assert.New(t)
	svc, err := NewService(NewMemoryPersistentStore(false))
	requirer.NoError(err)
	ctx := t.Context()

	created, err := svc.Create(ctx, CreateItemRequest{Name: "Potion", Price: 9})
	requirer.NoError(err)

	err = svc.Update(ctx, created.ID, UpdateItemRequest{Name: "Elixir", Price: 15})
	requirer.NoError(err)

	updated, err := svc.Get(ctx, created.ID)
	requirer.NoError(err)

	t.Run("mutable fields are overwritten", func(_ *testing.T) {
		asserter.Equal("Elixir", updated.Name)
		asserter.InDelta(15, updated.Price, 0)
	})

	t.Run("id and createdDate survive, updatedDate advances", func(_ *testing.T) {
		asserter.Equal(created.ID, updated.ID)
		asserter.Equal(created.CreatedDate, updated.CreatedDate)
		asserter.False(updated.UpdatedDate.Before(created.UpdatedDate))
	})

	t.Run("updating an absent item reports not found", func(_ *testing.T) {
		err = svc.Update(ctx, uuid.New(), UpdateItemRequest{Name: "Elixir", Price: 15})
		requirer.ErrorIs(err, ErrNotFound)
	})

	t.Run("invalid payload is rejected before the store is touched", func(_ *testing.T) {
		err = svc.Update(ctx, created.ID, UpdateItemRequest{Name: "", Price: 15})
		requirer.Error(err)
		status, _, _ := errors.HTTPStatusCodeMessage(err)
		asserter.Equal(http.StatusBadRequest, status)
	})
}

func TestDeleteItem(t *testing.T) {
	requirer := require.New(t)
	svc, err := NewService(NewMemoryPersistentStore(false))
	requirer.NoError(err)
	ctx := t.Context()

	created, err := svc.Create(ctx, CreateItemRequest{Name: "Potion", Price: 9})
	requirer.NoError(err)

	requirer.NoError(svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	requirer.ErrorIs(err, ErrNotFound)

	requirer.ErrorIs(svc.Delete(ctx, created.ID), ErrNotFound)
}

func TestListItems(t *testing.T) {
	requirer := require.New(t)
	asserter := assert.New(t)
	svc, err := NewService(NewMemoryPersistentStore(false))
	requirer.NoError(err)
	ctx := t.Context()

	for _, req := range []CreateItemRequest{
		{Name: "Potion", Price: 9},
		{Name: "Iron Sword", Price: 20},
		{Name: "potion brew", Price: 12},
	} {
		_, err = svc.Create(ctx, req)
		requirer.NoError(err)
	}

	t.Run("no filter returns everything", func(_ *testing.T) {
		list, err := svc.List(ctx, "")
		requirer.NoError(err)
		asserter.Len(list, 3)
	})

	t.Run("whitespace-only filter returns everything", func(_ *testing.T) {
		list, err := svc.List(ctx, "   ")
		requirer.NoError(err)
		asserter.Len(list, 3)
	})

	t.Run("filter matches substrings case-insensitively", func(_ *testing.T) {
		list, err := svc.List(ctx, "PoTi")
		requirer.NoError(err)
		asserter.Len(list, 2)

		list, err = svc.List(ctx, "sword")
		requirer.NoError(err)
		requirer.Len(list, 1)
		asserter.Equal("Iron Sword", list[0].Name)
	})

	t.Run("filter with no matches yields an empty list", func(_ *testing.T) {
		list, err := svc.List(ctx, "shield")
		requirer.NoError(err)
		asserter.Empty(list)
	})

	t.Run("deleted items disappear from the list", func(_ *testing.T) {
		list, err := svc.List(ctx, "sword")
		requirer.NoError(err)
		requirer.Len(list, 1)
		requirer.NoError(svc.Delete(ctx, list[0].ID))

		list, err = svc.List(ctx, "")
		requirer.NoError(err)
		asserter.Len(list, 2)
	})
}
