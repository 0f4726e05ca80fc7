package budget

import (
	"github.com/google/uuid"
	"github.com/monny-app/monny/internal/utils"
)

// CopySuffix is appended to the name of a duplicated plan.
const CopySuffix = " (Copy)"

// Manager holds the identity and timestamp rules for plans and their line items.
// Every operation takes a plan value and returns a new one; the argument is never modified.
type Manager struct {
	clock utils.Clock
	newId func() string
}

func NewManager(clock utils.Clock) *Manager {
	return &Manager{clock: clock, newId: uuid.NewString}
}

// CreatePlan returns an empty plan with a fresh identifier. It is not persisted.
func (m *Manager) CreatePlan(name string, planType Type) Budget {
	now := m.clock.Now()
	return Budget{
		Id:         m.newId(),
		Name:       name,
		Type:       planType,
		Period:     DefaultPeriod,
		FixedCosts: []FixedCost{},
		Products:   []Product{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (m *Manager) NewFixedCost(draft CostDraft) FixedCost {
	return FixedCost{
		Id:          m.newId(),
		Name:        draft.Name,
		Amount:      draft.Amount,
		Period:      defaultPeriod(draft.Period),
		Description: draft.Description,
	}
}

func (m *Manager) NewProduct(draft ProductDraft) Product {
	return Product{
		Id:           m.newId(),
		Name:         draft.Name,
		CostPerUnit:  draft.CostPerUnit,
		PricePerUnit: draft.PricePerUnit,
		UnitsSold:    draft.UnitsSold,
		Period:       defaultPeriod(draft.Period),
		Description:  draft.Description,
	}
}

// AddFixedCost appends a new cost built from draft. UpdatedAt is left alone.
func (m *Manager) AddFixedCost(plan Budget, draft CostDraft) Budget {
	updated := plan.Clone()
	updated.FixedCosts = append(updated.FixedCosts, m.NewFixedCost(draft))
	return updated
}

// UpdateFixedCost applies changes to the cost with costId. An unknown costId is a no-op.
func (m *Manager) UpdateFixedCost(plan Budget, costId string, changes CostChanges) Budget {
	idx := findFixedCost(costId, plan.FixedCosts)
	if idx == -1 {
		return plan
	}
	updated := plan.Clone()
	updated.FixedCosts[idx] = changes.apply(updated.FixedCosts[idx])
	return updated
}

// RemoveFixedCost drops the cost with costId. An unknown costId is a no-op.
func (m *Manager) RemoveFixedCost(plan Budget, costId string) Budget {
	idx := findFixedCost(costId, plan.FixedCosts)
	if idx == -1 {
		return plan
	}
	updated := plan.Clone()
	updated.FixedCosts = append(updated.FixedCosts[:idx], updated.FixedCosts[idx+1:]...)
	return updated
}

func (m *Manager) AddProduct(plan Budget, draft ProductDraft) Budget {
	updated := plan.Clone()
	updated.Products = append(updated.Products, m.NewProduct(draft))
	return updated
}

func (m *Manager) UpdateProduct(plan Budget, productId string, changes ProductChanges) Budget {
	idx := findProduct(productId, plan.Products)
	if idx == -1 {
		return plan
	}
	updated := plan.Clone()
	updated.Products[idx] = changes.apply(updated.Products[idx])
	return updated
}

func (m *Manager) RemoveProduct(plan Budget, productId string) Budget {
	idx := findProduct(productId, plan.Products)
	if idx == -1 {
		return plan
	}
	updated := plan.Clone()
	updated.Products = append(updated.Products[:idx], updated.Products[idx+1:]...)
	return updated
}

// SaveChanges replaces name, costs and products wholesale and refreshes UpdatedAt.
// Line items without an identifier get one.
func (m *Manager) SaveChanges(plan Budget, name string, costs []FixedCost, products []Product) Budget {
	updated := plan
	updated.Name = name
	updated.FixedCosts = make([]FixedCost, 0, len(costs))
	for _, cost := range costs {
		if cost.Id == "" {
			cost.Id = m.newId()
		}
		updated.FixedCosts = append(updated.FixedCosts, cost)
	}
	updated.Products = make([]Product, 0, len(products))
	for _, product := range products {
		if product.Id == "" {
			product.Id = m.newId()
		}
		updated.Products = append(updated.Products, product)
	}
	updated.UpdatedAt = m.clock.Now()
	return updated
}

// DuplicatePlan deep-copies plan under new identifiers for the plan and every line item.
func (m *Manager) DuplicatePlan(plan Budget) Budget {
	now := m.clock.Now()
	duplicate := plan.Clone()
	duplicate.Id = m.newId()
	duplicate.Name = plan.Name + CopySuffix
	duplicate.CreatedAt = now
	duplicate.UpdatedAt = now
	for i := range duplicate.FixedCosts {
		duplicate.FixedCosts[i].Id = m.newId()
	}
	for i := range duplicate.Products {
		duplicate.Products[i].Id = m.newId()
	}
	return duplicate
}

// DeletePlan returns collection without the plan with planId. An unknown planId is a no-op.
func DeletePlan(planId string, collection []Budget) []Budget {
	idx := findPlan(planId, collection)
	if idx == -1 {
		return collection
	}
	remaining := make([]Budget, 0, len(collection)-1)
	remaining = append(remaining, collection[:idx]...)
	return append(remaining, collection[idx+1:]...)
}

// ReplacePlan returns collection with the plan sharing plan.Id swapped for plan.
func ReplacePlan(plan Budget, collection []Budget) []Budget {
	replaced := make([]Budget, len(collection))
	copy(replaced, collection)
	if idx := findPlan(plan.Id, replaced); idx != -1 {
		replaced[idx] = plan
	}
	return replaced
}
