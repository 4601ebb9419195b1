package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/erazemk/shramba/internal/db"
	"github.com/erazemk/shramba/internal/model"
	"github.com/erazemk/shramba/internal/store"
)

// ItemsHandler handles item CRUD endpoints.
type ItemsHandler struct {
	DB  *db.DB
	Now func() time.Time
}

// Values are raw JSON so that numbers and strings both reach the same parsers
// the console uses.
type createItemRequest struct {
	Name       json.RawMessage `json:"name"`
	Quantity   json.RawMessage `json:"quantity"`
	Price      json.RawMessage `json:"price"`
	ExpiryDate json.RawMessage `json:"expiry_date"`
}

type updateItemRequest struct {
	Column string          `json:"column"`
	Value  json.RawMessage `json:"value"`
}

type itemResponse struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	Quantity   float64     `json:"quantity"`
	Price      string      `json:"price"`
	Currency   string      `json:"currency"`
	ExpiryDate *model.Date `json:"expiry_date"`
}

func toResponse(item model.Item) itemResponse {
	return itemResponse{
		ID:         item.ID,
		Name:       item.Name,
		Quantity:   item.Quantity,
		Price:      item.Price.StringFixed(2),
		Currency:   item.Currency,
		ExpiryDate: item.ExpiryDate,
	}
}

func toResponses(items []model.Item) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toResponse(item))
	}
	return out
}

func (h *ItemsHandler) today() model.Date {
	if h.Now == nil {
		return model.DateOf(time.Now())
	}
	return model.DateOf(h.Now())
}

// List handles GET /api/items. With ?name= it performs an exact-name search.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Has("name") {
		items, err := store.SearchItems(r.Context(), h.DB, query.Get("name"))
		if err != nil {
			slog.Error("searching items", "error", err)
			jsonError(w, http.StatusInternalServerError, "failed to search items")
			return
		}
		if len(items) == 0 {
			jsonError(w, http.StatusNotFound, "item not found")
			return
		}
		jsonResponse(w, http.StatusOK, toResponses(items))
		return
	}

	items, err := store.ListItems(r.Context(), h.DB)
	if err != nil {
		slog.Error("listing items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	jsonResponse(w, http.StatusOK, toResponses(items))
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name, err := model.ParseName(rawText(req.Name))
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	quantity, err := model.ParseQuantity(rawText(req.Quantity))
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	price, err := model.ParsePrice(rawText(req.Price))
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	in := model.NewItem{Name: name, Quantity: quantity, Price: price}
	if raw := rawText(req.ExpiryDate); raw != "" {
		expiry, err := model.ParseExpiryOnAdd(raw, h.today())
		if err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		in.ExpiryDate = &expiry
	}

	res, err := store.AddItem(r.Context(), h.DB, in)
	if err != nil {
		slog.Error("adding item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, res.ID)
	if err != nil || item == nil {
		slog.Error("reading created item", "id", res.ID, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to read created item")
		return
	}

	jsonResponse(w, http.StatusCreated, map[string]any{
		"inserted": res.RowsAffected,
		"item":     toResponse(*item),
	})
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("getting item", "id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	jsonResponse(w, http.StatusOK, toResponse(*item))
}

// Update handles PUT /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req updateItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	column, err := model.ParseColumn(req.Column)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	value, err := column.ParseValue(rawText(req.Value), h.today())
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, err := store.UpdateItem(r.Context(), h.DB, column, value, id)
	if errors.Is(err, store.ErrUnknownColumn) {
		jsonError(w, http.StatusBadRequest, model.ErrUnknownColumn.Error())
		return
	}
	if err != nil {
		slog.Error("updating item", "id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]int64{"updated": n})
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	n, err := store.RemoveItem(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("removing item", "id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]int64{"deleted": n})
}
