package budget

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type TotalsDTO struct {
	WindowDays             int     `json:"windowDays"`
	TotalExpenses          float64 `json:"totalExpenses"`
	TotalSalesContribution float64 `json:"totalSalesContribution"`
	NetResult              float64 `json:"netResult"`
	Outcome                string  `json:"outcome"`
}

// BudgetWithTotalsDTO is a stored plan with its totals flattened next to it.
type BudgetWithTotalsDTO struct {
	Budget
	Totals TotalsDTO `json:"totals"`
}

type CostLineDTO struct {
	Id               string  `json:"id"`
	Name             string  `json:"name"`
	Description      string  `json:"description,omitempty"`
	Amount           float64 `json:"amount"`
	Period           int     `json:"period"`
	NormalizedAmount float64 `json:"normalizedAmount"`
}

type ProductLineDTO struct {
	Id                     string  `json:"id"`
	Name                   string  `json:"name"`
	Description            string  `json:"description,omitempty"`
	UnitsSold              int     `json:"unitsSold"`
	Period                 int     `json:"period"`
	NormalizedContribution float64 `json:"normalizedContribution"`
}

type SummaryDTO struct {
	Budget       Budget           `json:"budget"`
	Totals       TotalsDTO        `json:"totals"`
	FixedCosts   []CostLineDTO    `json:"fixedCosts"`
	Products     []ProductLineDTO `json:"products"`
	InvalidItems []string         `json:"invalidItems,omitempty"`
}

// FixedCostDTO is used both to add a cost and to change one; absent fields are left unchanged.
type FixedCostDTO struct {
	Id          string   `json:"id,omitempty"`
	Name        *string  `json:"name"`
	Amount      *float64 `json:"amount"`
	Period      *int     `json:"period"`
	Description *string  `json:"description"`
}

type ProductDTO struct {
	Id           string   `json:"id,omitempty"`
	Name         *string  `json:"name"`
	CostPerUnit  *float64 `json:"costPerUnit"`
	PricePerUnit *float64 `json:"pricePerUnit"`
	UnitsSold    *int     `json:"unitsSold"`
	Period       *int     `json:"period"`
	Description  *string  `json:"description"`
}

type CreateBudgetDTO struct {
	Name       string         `json:"name"`
	Type       Type           `json:"type"`
	Seed       bool           `json:"seed"`
	FixedCosts []FixedCostDTO `json:"fixedCosts"`
	Products   []ProductDTO   `json:"products"`
}

type SaveBudgetDTO struct {
	Id         string      `json:"id"`
	Name       string      `json:"name"`
	FixedCosts []FixedCost `json:"fixedCosts"`
	Products   []Product   `json:"products"`
}

type PreviewResultDTO struct {
	TotalsDTO
	InvalidItems []string `json:"invalidItems,omitempty"`
}

type PreviewDTO struct {
	WindowDays int         `json:"windowDays"`
	FixedCosts []FixedCost `json:"fixedCosts"`
	Products   []Product   `json:"products"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// ListBudgets godoc
// @Summary List all budget plans
// @Description Get every stored plan together with its totals over the reporting window
// @Tags Budget
// @Produce json
// @Success 200 {array} BudgetWithTotalsDTO
// @Router /api/budget [get]
func (handler *Handler) ListBudgets(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing budget plans")
	plans := handler.service.List()
	result := make([]BudgetWithTotalsDTO, 0, len(plans))
	for _, plan := range plans {
		result = append(result, BudgetWithTotalsDTO{
			Budget: plan,
			Totals: TotalsToDTO(PlanTotals(plan, handler.service.WindowDays(plan))),
		})
	}
	writeJSON(w, http.StatusOK, result)
}

// CreateBudget godoc
// @Summary Create a budget plan
// @Description Store the plan assembled by the creation wizard
// @Tags Budget
// @Accept json
// @Produce json
// @Param budget body CreateBudgetDTO true "Budget"
// @Success 201 {object} Budget
// @Failure 400 {string} string "Bad Request"
// @Router /api/budget [post]
func (handler *Handler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new budget plan")
	var dto CreateBudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	draft := PlanDraft{Name: dto.Name, Type: dto.Type, Seed: dto.Seed}
	for _, cost := range dto.FixedCosts {
		draft.FixedCosts = append(draft.FixedCosts, cost.toDraft())
	}
	for _, product := range dto.Products {
		draft.Products = append(draft.Products, product.toDraft())
	}

	plan, err := handler.service.Create(r.Context(), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

// GetTemplate godoc
// @Summary Get a seeded plan draft
// @Description Returns an unsaved plan pre-filled for the given type
// @Tags Budget
// @Produce json
// @Param type path string true "business, trip or scratch"
// @Success 200 {object} Budget
// @Failure 400 {string} string "Bad Request"
// @Router /api/budget/template/{type} [get]
func (handler *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	plan, err := handler.service.Template(Type(mux.Vars(r)["type"]))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// GetBudget godoc
// @Summary Get a budget plan by ID
// @Tags Budget
// @Produce json
// @Param budgetId path string true "Budget ID"
// @Success 200 {object} Budget
// @Failure 404 {string} string "Plan Not Found"
// @Router /api/budget/{budgetId} [get]
func (handler *Handler) GetBudget(w http.ResponseWriter, r *http.Request) {
	plan, err := handler.service.Get(mux.Vars(r)["budgetId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// SaveBudget godoc
// @Summary Save changes to a budget plan
// @Description Replaces name, fixed costs and products of the plan
// @Tags Budget
// @Accept json
// @Produce json
// @Param budgetId path string true "Budget ID"
// @Param budget body SaveBudgetDTO true "Changes"
// @Success 200 {object} Budget
// @Failure 400 {string} string "Bad Request"
// @Failure 404 {string} string "Plan Not Found"
// @Router /api/budget/{budgetId} [put]
func (handler *Handler) SaveBudget(w http.ResponseWriter, r *http.Request) {
	log.Debug("Saving budget plan")
	budgetId := mux.Vars(r)["budgetId"]
	var dto SaveBudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.Id != "" && dto.Id != budgetId {
		http.Error(w, "Invalid budget id in request body", http.StatusBadRequest)
		return
	}

	plan, err := handler.service.Save(r.Context(), budgetId, dto.Name, dto.FixedCosts, dto.Products)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// DeleteBudget godoc
// @Summary Delete a budget plan
// @Description Deleting a plan that does not exist succeeds without changes
// @Tags Budget
// @Param budgetId path string true "Budget ID"
// @Success 204 "No Content"
// @Router /api/budget/{budgetId} [delete]
func (handler *Handler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	log.Debug("Deleting budget plan")
	if _, err := handler.service.Delete(r.Context(), mux.Vars(r)["budgetId"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResetBudgets godoc
// @Summary Remove every budget plan
// @Tags Budget
// @Success 204 "No Content"
// @Router /api/budget [delete]
func (handler *Handler) ResetBudgets(w http.ResponseWriter, r *http.Request) {
	log.Debug("Resetting all budget plans")
	if err := handler.service.Reset(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DuplicateBudget godoc
// @Summary Duplicate a budget plan
// @Tags Budget
// @Produce json
// @Param budgetId path string true "Budget ID"
// @Success 201 {object} Budget
// @Failure 404 {string} string "Plan Not Found"
// @Router /api/budget/{budgetId}/duplicate [post]
func (handler *Handler) DuplicateBudget(w http.ResponseWriter, r *http.Request) {
	log.Debug("Duplicating budget plan")
	plan, err := handler.service.Duplicate(r.Context(), mux.Vars(r)["budgetId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

// GetSummary godoc
// @Summary Get totals of a budget plan
// @Description Totals over the reporting window plus the rows worth displaying
// @Tags Budget
// @Produce json
// @Param budgetId path string true "Budget ID"
// @Param window query int false "Reporting window in days"
// @Success 200 {object} SummaryDTO
// @Failure 400 {string} string "Bad Request"
// @Failure 404 {string} string "Plan Not Found"
// @Router /api/budget/{budgetId}/summary [get]
func (handler *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	windowDays := 0
	if raw := r.URL.Query().Get("window"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days <= 0 {
			http.Error(w, "window must be a positive number of days", http.StatusBadRequest)
			return
		}
		windowDays = days
	}

	summary, err := handler.service.Summary(mux.Vars(r)["budgetId"], windowDays)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SummaryToDTO(summary))
}

// Preview godoc
// @Summary Compute totals for unsaved line items
// @Tags Budget
// @Accept json
// @Produce json
// @Param items body PreviewDTO true "Line items"
// @Success 200 {object} PreviewResultDTO
// @Failure 400 {string} string "Bad Request"
// @Router /api/budget/preview [post]
func (handler *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	var dto PreviewDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.WindowDays < 0 {
		http.Error(w, "windowDays must not be negative", http.StatusBadRequest)
		return
	}
	totals, invalid := handler.service.Preview(dto.FixedCosts, dto.Products, dto.WindowDays)
	writeJSON(w, http.StatusOK, PreviewResultDTO{TotalsDTO: TotalsToDTO(totals), InvalidItems: invalid})
}

// AddFixedCost godoc
// @Summary Add a fixed cost to a plan
// @Tags FixedCost
// @Accept json
// @Produce json
// @Param budgetId path string true "Budget ID"
// @Param cost body FixedCostDTO true "Fixed cost"
// @Success 201 {object} Budget
// @Failure 400 {string} string "Bad Request"
// @Failure 404 {string} string "Plan Not Found"
// @Router /api/budget/{budgetId}/cost [post]
func (handler *Handler) AddFixedCost(w http.ResponseWriter, r *http.Request) {
	var dto FixedCostDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	plan, err := handler.service.AddFixedCost(r.Context(), mux.Vars(r)["budgetId"], dto.toDraft())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

// UpdateFixedCost godoc
// @Summary Change fields of a fixed cost
// @Description Unknown cost ids leave the plan unchanged
// @Tags FixedCost
// @Accept json
// @Produce json
// @Param budgetId path string true "Budget ID"
// @Param costId path string true "Fixed cost ID"
// @Param cost body FixedCostDTO true "Changed fields"
// @Success 200 {object} Budget
// @Failure 400 {string} string "Bad Request"
// @Failure 404 {string} string "Plan Not Found"
// @Router /api/budget/{budgetId}/cost/{costId} [put]
func (handler *Handler) UpdateFixedCost(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var dto FixedCostDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.Id != "" && dto.Id != vars["costId"] {
		http.Error(w, "Invalid cost id in request body", http.StatusBadRequest)
		return
	}
	plan, err := handler.service.UpdateFixedCost(r.Context(), vars["budgetId"], vars["costId"], dto.toChanges())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// RemoveFixedCost godoc
// @Summary Remove a fixed cost
// @Description Unknown cost ids leave the plan unchanged
// @Tags FixedCost
// @Produce json
// @Param budgetId path string true "Budget ID"
// @Param costId path string true "Fixed cost ID"
// @Success 200 {object} Budget
// @Failure 404 {string} string "Plan Not Found"
// @Router /api/budget/{budgetId}/cost/{costId} [delete]
func (handler *Handler) RemoveFixedCost(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	plan, err := handler.service.RemoveFixedCost(r.Context(), vars["budgetId"], vars["costId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// AddProduct godoc
// @Summary Add a product to a plan
// @Tags Product
// @Accept json
// @Produce json
// @Param budgetId path string true "Budget ID"
// @Param product body ProductDTO true "Product"
// @Success 201 {object} Budget
// @Failure 400 {string} string "Bad Request"
// @Failure 404 {string} string "Plan Not Found"
// @Router /api/budget/{budgetId}/product [post]
func (handler *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var dto ProductDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	plan, err := handler.service.AddProduct(r.Context(), mux.Vars(r)["budgetId"], dto.toDraft())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

// UpdateProduct godoc
// @Summary Change fields of a product
// @Tags Product
// @Accept json
// @Produce json
// @Param budgetId path string true "Budget ID"
// @Param productId path string true "Product ID"
// @Param product body ProductDTO true "Changed fields"
// @Success 200 {object} Budget
// @Failure 400 {string} string "Bad Request"
// @Failure 404 {string} string "Plan Not Found"
// @Router /api/budget/{budgetId}/product/{productId} [put]
func (handler *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var dto ProductDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.Id != "" && dto.Id != vars["productId"] {
		http.Error(w, "Invalid product id in request body", http.StatusBadRequest)
		return
	}
	plan, err := handler.service.UpdateProduct(r.Context(), vars["budgetId"], vars["productId"], dto.toChanges())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// RemoveProduct godoc
// @Summary Remove a product
// @Tags Product
// @Produce json
// @Param budgetId path string true "Budget ID"
// @Param productId path string true "Product ID"
// @Success 200 {object} Budget
// @Failure 404 {string} string "Plan Not Found"
// @Router /api/budget/{budgetId}/product/{productId} [delete]
func (handler *Handler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	plan, err := handler.service.RemoveProduct(r.Context(), vars["budgetId"], vars["productId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func TotalsToDTO(totals Totals) TotalsDTO {
	outcome := "profit"
	if !totals.IsProfit() {
		outcome = "loss"
	}
	return TotalsDTO{
		WindowDays:             totals.WindowDays,
		TotalExpenses:          totals.Expenses.InexactFloat64(),
		TotalSalesContribution: totals.SalesContribution.InexactFloat64(),
		NetResult:              totals.Net.InexactFloat64(),
		Outcome:                outcome,
	}
}

func SummaryToDTO(summary Summary) SummaryDTO {
	windowDays := summary.Totals.WindowDays
	costs := make([]CostLineDTO, 0, len(summary.VisibleCosts))
	for _, cost := range summary.VisibleCosts {
		costs = append(costs, CostLineDTO{
			Id:               cost.Id,
			Name:             cost.Name,
			Description:      cost.Description,
			Amount:           cost.Amount,
			Period:           cost.Period,
			NormalizedAmount: NormalizedCostAmount(cost, windowDays).InexactFloat64(),
		})
	}
	products := make([]ProductLineDTO, 0, len(summary.VisibleProducts))
	for _, product := range summary.VisibleProducts {
		products = append(products, ProductLineDTO{
			Id:                     product.Id,
			Name:                   product.Name,
			Description:            product.Description,
			UnitsSold:              product.UnitsSold,
			Period:                 product.Period,
			NormalizedContribution: NormalizedProductContribution(product, windowDays).InexactFloat64(),
		})
	}
	return SummaryDTO{
		Budget:       summary.Plan,
		Totals:       TotalsToDTO(summary.Totals),
		FixedCosts:   costs,
		Products:     products,
		InvalidItems: summary.InvalidItems,
	}
}

func (dto FixedCostDTO) toDraft() CostDraft {
	var draft CostDraft
	if dto.Name != nil {
		draft.Name = *dto.Name
	}
	if dto.Amount != nil {
		draft.Amount = *dto.Amount
	}
	if dto.Period != nil {
		draft.Period = *dto.Period
	}
	if dto.Description != nil {
		draft.Description = *dto.Description
	}
	return draft
}

func (dto FixedCostDTO) toChanges() CostChanges {
	return CostChanges{Name: dto.Name, Amount: dto.Amount, Period: dto.Period, Description: dto.Description}
}

func (dto ProductDTO) toDraft() ProductDraft {
	var draft ProductDraft
	if dto.Name != nil {
		draft.Name = *dto.Name
	}
	if dto.CostPerUnit != nil {
		draft.CostPerUnit = *dto.CostPerUnit
	}
	if dto.PricePerUnit != nil {
		draft.PricePerUnit = *dto.PricePerUnit
	}
	if dto.UnitsSold != nil {
		draft.UnitsSold = *dto.UnitsSold
	}
	if dto.Period != nil {
		draft.Period = *dto.Period
	}
	if dto.Description != nil {
		draft.Description = *dto.Description
	}
	return draft
}

func (dto ProductDTO) toChanges() ProductChanges {
	return ProductChanges{
		Name:         dto.Name,
		CostPerUnit:  dto.CostPerUnit,
		PricePerUnit: dto.PricePerUnit,
		UnitsSold:    dto.UnitsSold,
		Period:       dto.Period,
		Description:  dto.Description,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrPlanNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidType), errors.Is(err, ErrInvalidLineItem):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Errorf("request failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
