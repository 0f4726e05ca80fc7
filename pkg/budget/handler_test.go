package budget

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandlerTest(t *testing.T, plans ...Budget) (*mux.Router, *ServiceImpl) {
	service, _, _ := setupService(t, plans...)
	handler := NewHandler(service)

	r := mux.NewRouter()
	r.HandleFunc("/api/budget", handler.ListBudgets).Methods("GET")
	r.HandleFunc("/api/budget", handler.CreateBudget).Methods("POST")
	r.HandleFunc("/api/budget", handler.ResetBudgets).Methods("DELETE")
	r.HandleFunc("/api/budget/template/{type}", handler.GetTemplate).Methods("GET")
	r.HandleFunc("/api/budget/preview", handler.Preview).Methods("POST")
	r.HandleFunc("/api/budget/{budgetId}", handler.GetBudget).Methods("GET")
	r.HandleFunc("/api/budget/{budgetId}", handler.SaveBudget).Methods("PUT")
	r.HandleFunc("/api/budget/{budgetId}", handler.DeleteBudget).Methods("DELETE")
	r.HandleFunc("/api/budget/{budgetId}/duplicate", handler.DuplicateBudget).Methods("POST")
	r.HandleFunc("/api/budget/{budgetId}/summary", handler.GetSummary).Methods("GET")
	r.HandleFunc("/api/budget/{budgetId}/cost", handler.AddFixedCost).Methods("POST")
	r.HandleFunc("/api/budget/{budgetId}/cost/{costId}", handler.UpdateFixedCost).Methods("PUT")
	r.HandleFunc("/api/budget/{budgetId}/cost/{costId}", handler.RemoveFixedCost).Methods("DELETE")
	r.HandleFunc("/api/budget/{budgetId}/product", handler.AddProduct).Methods("POST")
	r.HandleFunc("/api/budget/{budgetId}/product/{productId}", handler.UpdateProduct).Methods("PUT")
	r.HandleFunc("/api/budget/{budgetId}/product/{productId}", handler.RemoveProduct).Methods("DELETE")
	return r, service
}

func doRequest(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestHandler_CreateBudget(t *testing.T) {
	t.Run("should create a plan", func(t *testing.T) {
		r, service := setupHandlerTest(t)

		// when
		rr := doRequest(t, r, "POST", "/api/budget", map[string]any{
			"name": "Bakery",
			"type": "business",
			"fixedCosts": []map[string]any{
				{"name": "Rent", "amount": 700, "period": 7},
			},
		})

		// then
		require.Equal(t, http.StatusCreated, rr.Code)
		var created Budget
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
		assert.Equal(t, "Bakery", created.Name)
		require.Len(t, created.FixedCosts, 1)
		assert.Equal(t, 7, created.FixedCosts[0].Period)
		assert.Len(t, service.List(), 1)
	})

	t.Run("should reject an unknown type", func(t *testing.T) {
		r, _ := setupHandlerTest(t)

		rr := doRequest(t, r, "POST", "/api/budget", map[string]any{"name": "X", "type": "household"})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("should reject malformed bodies", func(t *testing.T) {
		r, _ := setupHandlerTest(t)
		req := httptest.NewRequest("POST", "/api/budget", bytes.NewBufferString("{"))
		rr := httptest.NewRecorder()

		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestHandler_ListBudgets(t *testing.T) {
	r, _ := setupHandlerTest(t, lossPlan())

	rr := doRequest(t, r, "GET", "/api/budget", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	var result []BudgetWithTotalsDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	require.Len(t, result, 1)
	assert.Equal(t, "plan-1", result[0].Id)
	assert.Equal(t, -2700.0, result[0].Totals.NetResult)
	assert.Equal(t, "loss", result[0].Totals.Outcome)
}

func TestHandler_GetBudget(t *testing.T) {
	r, _ := setupHandlerTest(t, lossPlan())

	assert.Equal(t, http.StatusOK, doRequest(t, r, "GET", "/api/budget/plan-1", nil).Code)
	assert.Equal(t, http.StatusNotFound, doRequest(t, r, "GET", "/api/budget/missing", nil).Code)
}

func TestHandler_GetTemplate(t *testing.T) {
	r, service := setupHandlerTest(t)

	rr := doRequest(t, r, "GET", "/api/budget/template/business", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	var plan Budget
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &plan))
	assert.Len(t, plan.FixedCosts, 3)
	assert.Empty(t, service.List())
	assert.Equal(t, http.StatusBadRequest, doRequest(t, r, "GET", "/api/budget/template/household", nil).Code)
}

func TestHandler_SaveBudget(t *testing.T) {
	t.Run("should replace name and line items", func(t *testing.T) {
		r, service := setupHandlerTest(t, lossPlan())

		rr := doRequest(t, r, "PUT", "/api/budget/plan-1", SaveBudgetDTO{
			Id:         "plan-1",
			Name:       "Renamed",
			FixedCosts: []FixedCost{{Name: "Water", Amount: 10, Period: 30}},
			Products:   []Product{},
		})

		require.Equal(t, http.StatusOK, rr.Code)
		plan, err := service.Get("plan-1")
		require.NoError(t, err)
		assert.Equal(t, "Renamed", plan.Name)
		require.Len(t, plan.FixedCosts, 1)
		assert.NotEmpty(t, plan.FixedCosts[0].Id)
		assert.Empty(t, plan.Products)
	})

	t.Run("should reject a mismatched id", func(t *testing.T) {
		r, _ := setupHandlerTest(t, lossPlan())

		rr := doRequest(t, r, "PUT", "/api/budget/plan-1", SaveBudgetDTO{Id: "other", Name: "Renamed"})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("should reject a period of zero", func(t *testing.T) {
		r, _ := setupHandlerTest(t, lossPlan())

		rr := doRequest(t, r, "PUT", "/api/budget/plan-1", SaveBudgetDTO{
			Name:       "Renamed",
			FixedCosts: []FixedCost{{Name: "Water", Amount: 10, Period: 0}},
		})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestHandler_DeleteBudget(t *testing.T) {
	r, service := setupHandlerTest(t, lossPlan())

	assert.Equal(t, http.StatusNoContent, doRequest(t, r, "DELETE", "/api/budget/missing", nil).Code)
	assert.Len(t, service.List(), 1)
	assert.Equal(t, http.StatusNoContent, doRequest(t, r, "DELETE", "/api/budget/plan-1", nil).Code)
	assert.Empty(t, service.List())
}

func TestHandler_ResetBudgets(t *testing.T) {
	r, service := setupHandlerTest(t, lossPlan(), Budget{Id: "b"})

	rr := doRequest(t, r, "DELETE", "/api/budget", nil)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, service.List())
}

func TestHandler_DuplicateBudget(t *testing.T) {
	r, service := setupHandlerTest(t, lossPlan())

	rr := doRequest(t, r, "POST", "/api/budget/plan-1/duplicate", nil)

	require.Equal(t, http.StatusCreated, rr.Code)
	var duplicate Budget
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &duplicate))
	assert.NotEqual(t, "plan-1", duplicate.Id)
	assert.Len(t, service.List(), 2)
}

func TestHandler_GetSummary(t *testing.T) {
	t.Run("should return totals and visible rows", func(t *testing.T) {
		r, _ := setupHandlerTest(t, lossPlan())

		rr := doRequest(t, r, "GET", "/api/budget/plan-1/summary", nil)

		require.Equal(t, http.StatusOK, rr.Code)
		var summary SummaryDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
		assert.Equal(t, 30, summary.Totals.WindowDays)
		assert.Equal(t, 3000.0, summary.Totals.TotalExpenses)
		assert.Equal(t, 300.0, summary.Totals.TotalSalesContribution)
		assert.Equal(t, -2700.0, summary.Totals.NetResult)
		require.Len(t, summary.FixedCosts, 1)
		assert.Equal(t, 3000.0, summary.FixedCosts[0].NormalizedAmount)
		require.Len(t, summary.Products, 1)
		assert.Equal(t, 300.0, summary.Products[0].NormalizedContribution)
	})

	t.Run("should accept a window override", func(t *testing.T) {
		r, _ := setupHandlerTest(t, lossPlan())

		rr := doRequest(t, r, "GET", "/api/budget/plan-1/summary?window=7", nil)

		require.Equal(t, http.StatusOK, rr.Code)
		var summary SummaryDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
		assert.Equal(t, 7, summary.Totals.WindowDays)
		assert.Equal(t, 700.0, summary.Totals.TotalExpenses)
	})

	t.Run("should reject an invalid window", func(t *testing.T) {
		r, _ := setupHandlerTest(t, lossPlan())

		assert.Equal(t, http.StatusBadRequest, doRequest(t, r, "GET", "/api/budget/plan-1/summary?window=0", nil).Code)
		assert.Equal(t, http.StatusBadRequest, doRequest(t, r, "GET", "/api/budget/plan-1/summary?window=abc", nil).Code)
	})
}

func TestHandler_Preview(t *testing.T) {
	t.Run("should return totals for provisional items", func(t *testing.T) {
		r, _ := setupHandlerTest(t)
		plan := lossPlan()

		rr := doRequest(t, r, "POST", "/api/budget/preview", PreviewDTO{FixedCosts: plan.FixedCosts, Products: plan.Products})

		require.Equal(t, http.StatusOK, rr.Code)
		var result PreviewResultDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
		assert.Equal(t, -2700.0, result.NetResult)
		assert.Equal(t, "loss", result.Outcome)
		assert.Empty(t, result.InvalidItems)
	})

	t.Run("should list items whose period is not positive", func(t *testing.T) {
		r, _ := setupHandlerTest(t)

		rr := doRequest(t, r, "POST", "/api/budget/preview", PreviewDTO{
			FixedCosts: []FixedCost{{Id: "rent", Name: "Rent", Amount: 100, Period: 0}},
		})

		require.Equal(t, http.StatusOK, rr.Code)
		var result PreviewResultDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
		assert.Equal(t, []string{"rent"}, result.InvalidItems)
		assert.Equal(t, 0.0, result.TotalExpenses)
	})
}

func TestHandler_LineItems(t *testing.T) {
	r, service := setupHandlerTest(t, lossPlan())

	// add
	rr := doRequest(t, r, "POST", "/api/budget/plan-1/cost", map[string]any{"name": "Water", "amount": 20})
	require.Equal(t, http.StatusCreated, rr.Code)
	var plan Budget
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &plan))
	require.Len(t, plan.FixedCosts, 2)
	water := plan.FixedCosts[1]
	assert.Equal(t, DefaultPeriod, water.Period)

	// update
	rr = doRequest(t, r, "PUT", "/api/budget/plan-1/cost/"+water.Id, map[string]any{"amount": 25})
	require.Equal(t, http.StatusOK, rr.Code)
	stored, _ := service.Get("plan-1")
	assert.Equal(t, 25.0, stored.FixedCosts[1].Amount)
	assert.Equal(t, "Water", stored.FixedCosts[1].Name)

	// remove
	rr = doRequest(t, r, "DELETE", "/api/budget/plan-1/cost/"+water.Id, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	stored, _ = service.Get("plan-1")
	assert.Len(t, stored.FixedCosts, 1)

	// products
	rr = doRequest(t, r, "POST", "/api/budget/plan-1/product", map[string]any{"name": "Cake", "pricePerUnit": 10, "unitsSold": 3})
	require.Equal(t, http.StatusCreated, rr.Code)
	stored, _ = service.Get("plan-1")
	require.Len(t, stored.Products, 2)
	cake := stored.Products[1]

	rr = doRequest(t, r, "PUT", "/api/budget/plan-1/product/"+cake.Id, map[string]any{"unitsSold": -1})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(t, r, "PUT", "/api/budget/plan-1/product/"+cake.Id, map[string]any{"id": "other", "unitsSold": 4})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(t, r, "DELETE", "/api/budget/plan-1/product/"+cake.Id, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	stored, _ = service.Get("plan-1")
	assert.Len(t, stored.Products, 1)

	// unknown plan
	assert.Equal(t, http.StatusNotFound, doRequest(t, r, "POST", "/api/budget/missing/product", map[string]any{"name": "X"}).Code)
}
