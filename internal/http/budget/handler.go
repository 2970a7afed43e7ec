package budget

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/budget/autosave"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/period"
)

type Handler struct {
	svc    *budget.Service
	drafts *autosave.Registry
	clock  clockwork.Clock
}

func NewHandler(svc *budget.Service, drafts *autosave.Registry, clock clockwork.Clock) *Handler {
	return &Handler{svc: svc, drafts: drafts, clock: clock}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.overview)
	r.Put("/", h.upsert)

	r.Route("/drafts", func(r chi.Router) {
		r.Post("/", h.openDraft)
		r.Get("/{draftID}", h.getDraft)
		r.Patch("/{draftID}", h.editDraft)
		r.Delete("/{draftID}", h.closeDraft)
	})

	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
}

// monthParam reads ?month=, defaulting to the current month.
func (h *Handler) monthParam(r *http.Request) (period.Period, error) {
	s := r.URL.Query().Get("month")
	if s == "" {
		return period.Current(h.clock.Now()), nil
	}

	return period.Parse(s)
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	p, err := h.monthParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ov, err := h.svc.Overview(r.Context(), p)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toOverviewResponse(ov))
}

type upsertBudgetRequest struct {
	Category     string        `json:"category"`
	MonthlyLimit int64         `json:"monthly_limit"`
	Month        period.Period `json:"month"`
	Year         int           `json:"year"`
}

func (h *Handler) upsert(w http.ResponseWriter, r *http.Request) {
	var req upsertBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Month.IsZero() {
		req.Month = period.Current(h.clock.Now())
	}

	b, err := h.svc.Upsert(r.Context(), budget.UpsertParams{
		CategoryName: req.Category,
		MonthlyLimit: req.MonthlyLimit,
		Period:       req.Month,
		Year:         req.Year,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(b))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	b, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(b))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) openDraft(w http.ResponseWriter, r *http.Request) {
	f := h.drafts.Open()

	respond.JSON(w, http.StatusCreated, toDraftResponse(f.Snapshot()))
}

func (h *Handler) draft(w http.ResponseWriter, r *http.Request) (*autosave.Form, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "draftID"))
	if err != nil {
		http.Error(w, "invalid draft id", http.StatusBadRequest)
		return nil, false
	}

	f, err := h.drafts.Get(id)
	if err != nil {
		respond.Error(w, r, err)
		return nil, false
	}

	return f, true
}

func (h *Handler) getDraft(w http.ResponseWriter, r *http.Request) {
	f, ok := h.draft(w, r)
	if !ok {
		return
	}

	respond.JSON(w, http.StatusOK, toDraftResponse(f.Snapshot()))
}

// editDraftRequest carries raw field values; validation happens when the
// form settles.
type editDraftRequest struct {
	Category     *string `json:"category,omitempty"`
	MonthlyLimit *string `json:"monthly_limit,omitempty"`
}

func (h *Handler) editDraft(w http.ResponseWriter, r *http.Request) {
	f, ok := h.draft(w, r)
	if !ok {
		return
	}

	var req editDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Category != nil {
		f.SetCategory(*req.Category)
	}

	if req.MonthlyLimit != nil {
		f.SetLimit(*req.MonthlyLimit)
	}

	respond.JSON(w, http.StatusAccepted, toDraftResponse(f.Snapshot()))
}

func (h *Handler) closeDraft(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "draftID"))
	if err != nil {
		http.Error(w, "invalid draft id", http.StatusBadRequest)
		return
	}

	if err := h.drafts.Close(id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
