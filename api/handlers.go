/*
handlers.go - HTTP handlers for the reserve engine

PURPOSE:
  Exposes the engine to the external renderer. One GET serves the complete
  read model; one POST carries both mutations, dispatched by the form's
  "do" field, matching the single-page posting style of the UI.

ENDPOINTS:
  GET  /api/overview   Read model: columns, drug views, pill counts
  POST /api/actions    do=replenish (drug-index, amount)
                       do=take-days (days)

ERROR HANDLING:
  - 400: unknown action, missing/malformed parameters, out-of-range index,
         negative amount or non-positive day count
  - 500: persistence flush failed AFTER the mutation committed in memory;
         the body says so explicitly because the caller's next read will
         already show the new state while disk lags

SEE ALSO:
  - dto.go: response shapes and the column tag set
  - server.go: router, middleware, auth
*/
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/medcabinet/reserve-engine/metrics"
	"github.com/medcabinet/reserve-engine/rational"
	"github.com/medcabinet/reserve-engine/reserve"
)

// Handler holds all dependencies for the HTTP handlers.
type Handler struct {
	Store    *reserve.Store
	Engine   reserve.Engine
	Profiles map[string][]string
	Log      *slog.Logger
}

// NewHandler wires a handler to the store and engine.
func NewHandler(store *reserve.Store, engine reserve.Engine, profiles map[string][]string, log *slog.Logger) *Handler {
	return &Handler{Store: store, Engine: engine, Profiles: profiles, Log: log}
}

// =============================================================================
// READ SIDE
// =============================================================================

// Overview serves the full read model for the renderer. Hidden drugs are
// filtered here; the engine has already computed their figures like any
// other row.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	snapshot := h.Store.Snapshot()

	views := h.Engine.Views(snapshot)
	display := make([]DrugViewDTO, 0, len(views))
	for _, v := range views {
		if !v.Drug.Show {
			continue
		}
		display = append(display, toDrugViewDTO(v))
	}

	columns := DefaultColumns()
	if profile := r.URL.Query().Get("columns"); profile != "" {
		if cols, ok := h.Profiles[profile]; ok {
			columns = cols
		}
	}

	writeJSON(w, http.StatusOK, OverviewDTO{
		ProfileColumns:          columns,
		DrugsToDisplay:          display,
		PillCounts:              toPillCountsDTO(h.Engine.PillCounts(snapshot)),
		MinWeeksPerPrescription: h.Engine.MinWeeks,
		HideUI:                  r.URL.Query().Get("hide-ui") == "1",
	})
}

// =============================================================================
// WRITE SIDE
// =============================================================================

// Action dispatches the form-encoded mutation requests.
func (h *Handler) Action(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed form body", err)
		return
	}

	switch action := r.PostFormValue("do"); action {
	case "replenish":
		h.replenish(w, r)
	case "take-days":
		h.takeDays(w, r)
	case "":
		writeError(w, http.StatusBadRequest, `Missing value for "do"`, nil)
	default:
		writeError(w, http.StatusBadRequest, `Unknown value for "do": `+action, nil)
	}
}

func (h *Handler) replenish(w http.ResponseWriter, r *http.Request) {
	indexStr := r.PostFormValue("drug-index")
	if indexStr == "" {
		writeError(w, http.StatusBadRequest, `Missing value for "drug-index"`, nil)
		return
	}
	index, err := strconv.Atoi(indexStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, `Invalid value for "drug-index"`, err)
		return
	}

	amountStr := r.PostFormValue("amount")
	if amountStr == "" {
		writeError(w, http.StatusBadRequest, `Missing value for "amount"`, nil)
		return
	}
	amount, err := rational.Parse(amountStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, `Invalid value for "amount"`, err)
		return
	}

	if err := h.Store.Replenish(r.Context(), index, amount); err != nil {
		h.mutationError(w, "replenish", err)
		return
	}

	metrics.MutationsTotal.WithLabelValues("replenish").Inc()
	h.Log.Info("replenished drug", "index", index, "amount", amount.String())
	writeJSON(w, http.StatusOK, ActionResponse{Status: "ok"})
}

func (h *Handler) takeDays(w http.ResponseWriter, r *http.Request) {
	daysStr := r.PostFormValue("days")
	if daysStr == "" {
		writeError(w, http.StatusBadRequest, `Missing value for "days"`, nil)
		return
	}
	days, err := strconv.ParseInt(daysStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, `Invalid value for "days"`, err)
		return
	}

	if err := h.Store.TakeDays(r.Context(), days); err != nil {
		h.mutationError(w, "take-days", err)
		return
	}

	metrics.MutationsTotal.WithLabelValues("take-days").Inc()
	h.Log.Info("took days of consumption", "days", days)
	writeJSON(w, http.StatusOK, ActionResponse{Status: "ok"})
}

// mutationError maps engine errors to HTTP responses. Persistence failures
// get their own message: the mutation IS committed in memory, only the
// flush needs a retry.
func (h *Handler) mutationError(w http.ResponseWriter, op string, err error) {
	switch {
	case reserve.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid "+op+" request", err)
	case errors.Is(err, reserve.ErrPersistence):
		metrics.FlushFailuresTotal.Inc()
		h.Log.Error("flush failed after mutation", "op", op, "error", err)
		writeError(w, http.StatusInternalServerError,
			"Change applied but not saved to disk; it will persist with the next successful save", err)
	default:
		h.Log.Error("mutation failed", "op", op, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to apply "+op, err)
	}
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
