package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/monny-app/monny/internal/config"
	"github.com/monny-app/monny/pkg/kvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *mux.Router {
	deps, err := BuildDependencies(context.Background(), kvstore.NewMemoryStore(), config.Defaults())
	require.NoError(t, err)
	r := mux.NewRouter()
	SetupMiddleware(r)
	RegisterRoutes(r, deps)
	return r
}

func TestRegisterRoutes(t *testing.T) {
	r := setupRouter(t)

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{"GET", "/api/budget", "", http.StatusOK},
		{"GET", "/api/budget/template/trip", "", http.StatusOK},
		{"POST", "/api/budget/preview", `{"fixedCosts":[]}`, http.StatusOK},
		{"GET", "/api/budget/export", "", http.StatusOK},
		{"POST", "/api/budget/import", `[]`, http.StatusCreated},
		{"GET", "/api/budget/missing", "", http.StatusNotFound},
		{"GET", "/api/budget/missing/summary", "", http.StatusNotFound},
		{"GET", "/api/budget/missing/export", "", http.StatusNotFound},
		{"DELETE", "/api/budget/missing", "", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			r.ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
		})
	}
}

func TestBuildDependencies(t *testing.T) {
	t.Run("should reject an invalid reporting window", func(t *testing.T) {
		cfg := config.Defaults()
		cfg.Report.Window = "weekly"

		_, err := BuildDependencies(context.Background(), kvstore.NewMemoryStore(), cfg)

		assert.Error(t, err)
	})

	t.Run("should load plans already in the store", func(t *testing.T) {
		store := kvstore.NewMemoryStore()
		require.NoError(t, store.Put(context.Background(), "monny-budgets", []byte(`[{"id":"a","name":"Stored"}]`)))

		deps, err := BuildDependencies(context.Background(), store, config.Defaults())

		require.NoError(t, err)
		assert.Len(t, deps.BudgetService.List(), 1)
	})
}
