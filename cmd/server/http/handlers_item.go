package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/naughtygopher/errors"
	"go.uber.org/zap"

	"github.com/prashantkr001/catalog-go/internal/item"
	"github.com/prashantkr001/catalog-go/internal/pkg/logger"
)

const itemIDParam = "itemID"

func (ht *HTTP) itemRoutes(router chi.Router) {
	router.Route("/items", func(r chi.Router) {
		r.Get("/", ht.ErrorHandler(ht.ListItems))
		r.Post("/", ht.ErrorHandler(ht.CreateItem))
		r.Get("/{itemID}", ht.ErrorHandler(ht.GetItem))
		r.Put("/{itemID}", ht.ErrorHandler(ht.UpdateItem))
		r.Delete("/{itemID}", ht.ErrorHandler(ht.DeleteItem))
	})
}

func itemIDFromRequest(req *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(req, itemIDParam)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.InputBodyf("invalid item ID provided: %s", raw)
	}
	return id, nil
}

func (ht *HTTP) ListItems(w http.ResponseWriter, req *http.Request) error {
	start := time.Now()
	nameFilter := req.URL.Query().Get("name")

	list, err := ht.apis.ItemList(req.Context(), nameFilter)
	if err != nil {
		return err
	}

	views := make([]item.ItemView, 0, len(list))
	for i := range list {
		views = append(views, list[i].View())
	}

	logger.InfoCtx(req.Context(), "retrieved items",
		zap.Int("count", len(views)),
		zap.Duration("took", time.Since(start)),
	)

	return respondJSON(w, http.StatusOK, views)
}

func (ht *HTTP) GetItem(w http.ResponseWriter, req *http.Request) error {
	id, err := itemIDFromRequest(req)
	if err != nil {
		return err
	}

	it, err := ht.apis.ItemGet(req.Context(), id)
	if err != nil {
		return err
	}

	return respondJSON(w, http.StatusOK, it.View())
}

func (ht *HTTP) CreateItem(w http.ResponseWriter, req *http.Request) error {
	payload := item.CreateItemRequest{}
	err := json.NewDecoder(req.Body).Decode(&payload)
	if err != nil {
		return errors.InputBodyErr(err, "failed to decode request body")
	}

	createdItem, err := ht.apis.ItemCreate(req.Context(), payload)
	if err != nil {
		return err
	}

	w.Header().Set("Location", fmt.Sprintf("/items/%s", createdItem.ID))
	return respondJSON(w, http.StatusCreated, createdItem.View())
}

func (ht *HTTP) UpdateItem(w http.ResponseWriter, req *http.Request) error {
	id, err := itemIDFromRequest(req)
	if err != nil {
		return err
	}

	payload := item.UpdateItemRequest{}
	err = json.NewDecoder(req.Body).Decode(&payload)
	if err != nil {
		return errors.InputBodyErr(err, "failed to decode request body")
	}

	err = ht.apis.ItemUpdate(req.Context(), id, payload)
	if err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (ht *HTTP) DeleteItem(w http.ResponseWriter, req *http.Request) error {
	id, err := itemIDFromRequest(req)
	if err != nil {
		return err
	}

	err = ht.apis.ItemDelete(req.Context(), id)
	if err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
