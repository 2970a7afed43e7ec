package importcsv

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

const maxUpload = 10 << 20

type Handler struct {
	importSvc *importer.Service
}

func NewHandler(importSvc *importer.Service) *Handler {
	return &Handler{importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Get("/formats", h.formats)
}

type transactionResponse struct {
	ID          int64            `json:"id"`
	Amount      int64            `json:"amount"`
	Type        transaction.Type `json:"type"`
	Description string           `json:"description"`
	Date        string           `json:"date"`
	Category    category.Ref     `json:"category"`
}

type importResponse struct {
	Imported      int                   `json:"imported"`
	Uncategorized []int                 `json:"uncategorized_lines"`
	Transactions  []transactionResponse `json:"transactions"`
	Error         string                `json:"error,omitempty"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)

	if err := r.ParseMultipartForm(maxUpload); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		format = importer.FormatTally
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	res, err := h.importSvc.Import(r.Context(), format, file)
	if res == nil {
		respond.Error(w, r, err)
		return
	}

	resp := toImportResponse(res)

	if err != nil {
		// Rows before the failing one are already stored; report them with the error.
		resp.Error = err.Error()
		respond.JSON(w, respond.Status(err), resp)

		return
	}

	respond.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) formats(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, importer.Formats())
}

func toImportResponse(res *importer.Result) importResponse {
	txs := make([]transactionResponse, 0, len(res.Imported))
	for _, tx := range res.Imported {
		txs = append(txs, transactionResponse{
			ID:          tx.ID,
			Amount:      tx.Amount,
			Type:        tx.Type,
			Description: tx.Description,
			Date:        tx.Date.Format(time.DateOnly),
			Category:    tx.Category,
		})
	}

	uncategorized := res.Uncategorized
	if uncategorized == nil {
		uncategorized = []int{}
	}

	return importResponse{
		Imported:      len(res.Imported),
		Uncategorized: uncategorized,
		Transactions:  txs,
	}
}

