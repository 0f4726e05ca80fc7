package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/monny-app/monny/pkg/budget"
	log "github.com/sirupsen/logrus"
)

const maxImportSize = 10 << 20

// PlanStore is the part of the budget service import and export work against.
type PlanStore interface {
	List() []budget.Budget
	Get(id string) (budget.Budget, error)
	Import(ctx context.Context, plans []budget.Budget) (budget.ImportResult, error)
}

type ImportResultDTO struct {
	Imported     int      `json:"imported"`
	DuplicateIds []string `json:"duplicateIds,omitempty"`
}

type Handler struct {
	store PlanStore
}

func NewHandler(store PlanStore) *Handler {
	return &Handler{store: store}
}

// ImportBudgets godoc
// @Summary Import budget plans
// @Description Appends a JSON array of plans, or a single plan object, to the stored plans
// @Tags Transfer
// @Accept json
// @Produce json
// @Success 201 {object} ImportResultDTO
// @Failure 400 {string} string "Bad Request"
// @Router /api/budget/import [post]
func (handler *Handler) ImportBudgets(w http.ResponseWriter, r *http.Request) {
	log.Debug("Importing budget plans")
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportSize))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	plans, err := ParseImport(data)
	if err != nil {
		log.Infof("rejected import: %v", err)
		http.Error(w, "Failed to import budget data. Please check the JSON format.", http.StatusBadRequest)
		return
	}

	result, err := handler.store.Import(r.Context(), plans)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(ImportResultDTO{Imported: result.Imported, DuplicateIds: result.DuplicateIds}); err != nil {
		log.Errorf("failed to encode import result: %v", err)
	}
}

// ExportBudgets godoc
// @Summary Export every budget plan
// @Tags Transfer
// @Produce json
// @Success 200 {array} budget.Budget
// @Router /api/budget/export [get]
func (handler *Handler) ExportBudgets(w http.ResponseWriter, r *http.Request) {
	data, err := ExportCollection(handler.store.List())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeAttachment(w, CollectionFileName, data)
}

// ExportBudget godoc
// @Summary Export one budget plan
// @Tags Transfer
// @Produce json
// @Param budgetId path string true "Budget ID"
// @Success 200 {object} budget.Budget
// @Failure 404 {string} string "Plan Not Found"
// @Router /api/budget/{budgetId}/export [get]
func (handler *Handler) ExportBudget(w http.ResponseWriter, r *http.Request) {
	plan, err := handler.store.Get(mux.Vars(r)["budgetId"])
	if err != nil {
		if errors.Is(err, budget.ErrPlanNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	data, err := ExportPlan(plan)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeAttachment(w, FileName(plan), data)
}

func writeAttachment(w http.ResponseWriter, fileName string, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Errorf("failed to write export: %v", err)
	}
}
