package transfer

import (
	"testing"
	"time"

	"github.com/monny-app/monny/pkg/budget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)

func bakeryPlan() budget.Budget {
	return budget.Budget{
		Id:         "plan-1",
		Name:       "Bakery",
		Type:       budget.TypeBusiness,
		Period:     30,
		FixedCosts: []budget.FixedCost{{Id: "c1", Name: "Rent", Amount: 700, Period: 7, Description: "shop"}},
		Products:   []budget.Product{{Id: "p1", Name: "Bread", CostPerUnit: 2, PricePerUnit: 5, UnitsSold: 100, Period: 30}},
		CreatedAt:  created,
		UpdatedAt:  created.Add(time.Hour),
	}
}

func TestExportCollection(t *testing.T) {
	t.Run("should round trip through import", func(t *testing.T) {
		plans := []budget.Budget{bakeryPlan(), {Id: "plan-2", Name: "Trip", Type: budget.TypeTrip}}

		data, err := ExportCollection(plans)
		require.NoError(t, err)
		imported, err := ParseImport(data)

		require.NoError(t, err)
		require.Len(t, imported, 2)
		assert.Equal(t, plans[0], imported[0])
		assert.Equal(t, budget.Normalize(plans[1]), imported[1])
	})

	t.Run("should render an empty collection as an empty array", func(t *testing.T) {
		data, err := ExportCollection(nil)

		require.NoError(t, err)
		assert.Equal(t, "[]", string(data))
	})

	t.Run("should indent with two spaces", func(t *testing.T) {
		data, err := ExportCollection([]budget.Budget{bakeryPlan()})

		require.NoError(t, err)
		assert.Contains(t, string(data), "\n  {\n    \"id\": \"plan-1\"")
	})
}

func TestExportPlan(t *testing.T) {
	data, err := ExportPlan(bakeryPlan())
	require.NoError(t, err)

	imported, err := ParseImport(data)

	require.NoError(t, err)
	require.Len(t, imported, 1)
	assert.Equal(t, bakeryPlan(), imported[0])
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Bakery.json", FileName(budget.Budget{Id: "a", Name: " Bakery "}))
	assert.Equal(t, "Trip_ 2026.json", FileName(budget.Budget{Id: "a", Name: "Trip/ 2026"}))
	assert.Equal(t, "a.json", FileName(budget.Budget{Id: "a"}))
}
