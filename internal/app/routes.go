package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Collection
	r.HandleFunc("/api/budget", deps.BudgetHandler.ListBudgets).Methods("GET")
	r.HandleFunc("/api/budget", deps.BudgetHandler.CreateBudget).Methods("POST")
	r.HandleFunc("/api/budget", deps.BudgetHandler.ResetBudgets).Methods("DELETE")
	r.HandleFunc("/api/budget/template/{type}", deps.BudgetHandler.GetTemplate).Methods("GET")
	r.HandleFunc("/api/budget/preview", deps.BudgetHandler.Preview).Methods("POST")

	// Import / export
	r.HandleFunc("/api/budget/export", deps.TransferHandler.ExportBudgets).Methods("GET")
	r.HandleFunc("/api/budget/import", deps.TransferHandler.ImportBudgets).Methods("POST")
	r.HandleFunc("/api/budget/{budgetId}/export", deps.TransferHandler.ExportBudget).Methods("GET")

	// Budget
	r.HandleFunc("/api/budget/{budgetId}", deps.BudgetHandler.GetBudget).Methods("GET")
	r.HandleFunc("/api/budget/{budgetId}", deps.BudgetHandler.SaveBudget).Methods("PUT")
	r.HandleFunc("/api/budget/{budgetId}", deps.BudgetHandler.DeleteBudget).Methods("DELETE")
	r.HandleFunc("/api/budget/{budgetId}/duplicate", deps.BudgetHandler.DuplicateBudget).Methods("POST")
	r.HandleFunc("/api/budget/{budgetId}/summary", deps.BudgetHandler.GetSummary).Methods("GET")

	// Fixed costs
	r.HandleFunc("/api/budget/{budgetId}/cost", deps.BudgetHandler.AddFixedCost).Methods("POST")
	r.HandleFunc("/api/budget/{budgetId}/cost/{costId}", deps.BudgetHandler.UpdateFixedCost).Methods("PUT")
	r.HandleFunc("/api/budget/{budgetId}/cost/{costId}", deps.BudgetHandler.RemoveFixedCost).Methods("DELETE")

	// Products
	r.HandleFunc("/api/budget/{budgetId}/product", deps.BudgetHandler.AddProduct).Methods("POST")
	r.HandleFunc("/api/budget/{budgetId}/product/{productId}", deps.BudgetHandler.UpdateProduct).Methods("PUT")
	r.HandleFunc("/api/budget/{budgetId}/product/{productId}", deps.BudgetHandler.RemoveProduct).Methods("DELETE")
}
