package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prashantkr001/catalog-go/internal/api"
	"github.com/prashantkr001/catalog-go/internal/item"
)

func newTestServer(t *testing.T) *HTTP {
	t.Helper()
	itemSvc, err := item.NewService(item.NewMemoryPersistentStore(false))
	require.NoError(t, err)
	return New(api.NewService(itemSvc), &Config{})
}

func doRequest(t *testing.T, ht *HTTP, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reqBody).Encode(body))
	}

	req := httptest.NewRequest(method, target, &reqBody)
	rec := httptest.NewRecorder()
	ht.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) item.ItemView {
	t.Helper()
	view := item.ItemView{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	return view
}

// TestItemLifecycle walks one item through the whole create/read/update/delete
// sequence over the HTTP surface.
func TestItemLifecycle(t *testing.T) {
	requirer := require.New(t)
	asserter := assert.New(t)
	ht := newTestServer(t)

	rec := doRequest(t, ht, http.MethodPost, "/items", item.CreateItemRequest{Name: "Potion", Price: 9})
	requirer.Equal(http.StatusCreated, rec.Code)
	created := decodeView(t, rec)

	t.Run("created response carries the full projection and a location", func(_ *testing.T) {
		asserter.NotEqual(uuid.Nil, created.ID)
		asserter.Equal("Potion", created.Name)
		asserter.InDelta(9, created.Price, 0)
		asserter.Equal(created.CreatedDate, created.UpdatedDate)
		asserter.Equal(fmt.Sprintf("/items/%s", created.ID), rec.Header().Get("Location"))
	})

	itemPath := fmt.Sprintf("/items/%s", created.ID)

	t.Run("get returns the same projection", func(_ *testing.T) {
		rec := doRequest(t, ht, http.MethodGet, itemPath, nil)
		requirer.Equal(http.StatusOK, rec.Code)
		asserter.Equal(created, decodeView(t, rec))
	})

	t.Run("put replaces the mutable fields", func(_ *testing.T) {
		rec := doRequest(t, ht, http.MethodPut, itemPath, item.UpdateItemRequest{Name: "Elixir", Price: 15})
		requirer.Equal(http.StatusNoContent, rec.Code)
		asserter.Empty(rec.Body.Bytes())

		rec = doRequest(t, ht, http.MethodGet, itemPath, nil)
		requirer.Equal(http.StatusOK, rec.Code)
		updated := decodeView(t, rec)
		asserter.Equal("Elixir", updated.Name)
		asserter.InDelta(15, updated.Price, 0)
		asserter.Equal(created.ID, updated.ID)
		asserter.Equal(created.CreatedDate, updated.CreatedDate)
		asserter.False(updated.UpdatedDate.Before(created.UpdatedDate))
	})

	t.Run("delete removes the item", func(_ *testing.T) {
		rec := doRequest(t, ht, http.MethodDelete, itemPath, nil)
		requirer.Equal(http.StatusNoContent, rec.Code)
		asserter.Empty(rec.Body.Bytes())

		rec = doRequest(t, ht, http.MethodGet, itemPath, nil)
		asserter.Equal(http.StatusNotFound, rec.Code)
	})
}

func TestItemNotFound(t *testing.T) {
	asserter := assert.New(t)
	ht := newTestServer(t)
	absentPath := fmt.Sprintf("/items/%s", uuid.New())

	rec := doRequest(t, ht, http.MethodGet, absentPath, nil)
	asserter.Equal(http.StatusNotFound, rec.Code)

	rec = doRequest(t, ht, http.MethodPut, absentPath, item.UpdateItemRequest{Name: "Elixir", Price: 15})
	asserter.Equal(http.StatusNotFound, rec.Code)

	rec = doRequest(t, ht, http.MethodDelete, absentPath, nil)
	asserter.Equal(http.StatusNotFound, rec.Code)
}

func TestItemBadRequests(t *testing.T) {
	asserter := assert.New(t)
	ht := newTestServer(t)

	t.Run("malformed identifiers never reach the repository", func(_ *testing.T) {
		rec := doRequest(t, ht, http.MethodGet, "/items/not-a-uuid", nil)
		asserter.Equal(http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid payloads are rejected with 400", func(_ *testing.T) {
		for _, payload := range []item.CreateItemRequest{
			{Name: "", Price: 9},
			{Name: "Potion", Price: 0},
			{Name: "Potion", Price: 2000},
		} {
			rec := doRequest(t, ht, http.MethodPost, "/items", payload)
			asserter.Equal(http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("unparseable body is rejected with 400", func(_ *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/items", bytes.NewBufferString("{not json"))
		rec := httptest.NewRecorder()
		ht.Handler().ServeHTTP(rec, req)
		asserter.Equal(http.StatusBadRequest, rec.Code)
	})
}

func TestListItemsFilter(t *testing.T) {
	requirer := require.New(t)
	asserter := assert.New(t)
	ht := newTestServer(t)

	for _, payload := range []item.CreateItemRequest{
		{Name: "Potion", Price: 9},
		{Name: "Iron Sword", Price: 20},
		{Name: "potion brew", Price: 12},
	} {
		rec := doRequest(t, ht, http.MethodPost, "/items", payload)
		requirer.Equal(http.StatusCreated, rec.Code)
	}

	listLen := func(target string) int {
		rec := doRequest(t, ht, http.MethodGet, target, nil)
		requirer.Equal(http.StatusOK, rec.Code)
		views := []item.ItemView{}
		requirer.NoError(json.NewDecoder(rec.Body).Decode(&views))
		return len(views)
	}

	asserter.Equal(3, listLen("/items"))
	asserter.Equal(2, listLen("/items?name=POtion"))
	asserter.Equal(1, listLen("/items?name=sword"))
	asserter.Equal(0, listLen("/items?name=shield"))
	asserter.Equal(3, listLen("/items?name=%20%20"))
}
