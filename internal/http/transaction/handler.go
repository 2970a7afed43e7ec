package transaction

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/period"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type Handler struct {
	svc        *transaction.Service
	categories *category.Service
}

func NewHandler(svc *transaction.Service, categories *category.Service) *Handler {
	return &Handler{svc: svc, categories: categories}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}", h.update)
}

// parseDate accepts a plain date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", transaction.ErrInvalid, s)
	}

	return t, nil
}

// resolveCategory turns a category reference of any accepted shape into an id.
// Name-only references are looked up among categories of the transaction type.
func (h *Handler) resolveCategory(ctx context.Context, ref category.Ref, typ transaction.Type) (int64, error) {
	if ref.ID != 0 || ref.Name == "" {
		return ref.ID, nil
	}

	catType := category.Type(typ)

	matches, err := h.categories.FindByName(ctx, ref.Name, &catType)
	if err != nil {
		return 0, err
	}

	if len(matches) == 0 {
		return 0, fmt.Errorf("%w: %q", category.ErrNotFound, ref.Name)
	}

	return matches[0].ID, nil
}

type createTransactionRequest struct {
	Amount      int64            `json:"amount"`
	Type        transaction.Type `json:"type"`
	Description string           `json:"description"`
	Date        string           `json:"date"`
	Category    category.Ref     `json:"category"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	categoryID, err := h.resolveCategory(r.Context(), req.Category, req.Type)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	tx, err := h.svc.Create(r.Context(), transaction.CreateParams{
		Amount:      req.Amount,
		Type:        req.Type,
		Description: req.Description,
		Date:        date,
		CategoryID:  categoryID,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	created, err := h.svc.Get(r.Context(), tx.ID)
	if err != nil {
		created = tx
	}

	respond.JSON(w, http.StatusCreated, toResponse(created))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := transaction.ListFilter{}
	q := r.URL.Query()

	if s := q.Get("month"); s != "" {
		p, err := period.Parse(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		filter.Period = &p
	}

	if s := q.Get("category_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			http.Error(w, "invalid category_id", http.StatusBadRequest)
			return
		}

		filter.CategoryID = new(id)
	}

	if s := q.Get("type"); s != "" {
		filter.Type = new(transaction.Type(s))
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(txs))
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateTransactionRequest struct {
	Description *string           `json:"description,omitempty"`
	Amount      *int64            `json:"amount,omitempty"`
	Type        *transaction.Type `json:"type,omitempty"`
	Date        *string           `json:"date,omitempty"`
	Category    *category.Ref     `json:"category,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if req.Description != nil {
		tx.Description = *req.Description
	}

	if req.Amount != nil {
		tx.Amount = *req.Amount
	}

	if req.Type != nil {
		tx.Type = *req.Type
	}

	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		tx.Date = date
	}

	if req.Category != nil {
		categoryID, err := h.resolveCategory(r.Context(), *req.Category, tx.Type)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		tx.Category = category.Ref{ID: categoryID}
	}

	if err := h.svc.Update(r.Context(), tx); err != nil {
		respond.Error(w, r, err)
		return
	}

	updated, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(updated))
}
