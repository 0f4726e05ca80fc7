package budget

import "time"

// DefaultPeriod is the number of days a new plan or line item covers unless told otherwise.
const DefaultPeriod = 30

type Type string

const (
	TypeBusiness Type = "business"
	TypeTrip     Type = "trip"
	TypeScratch  Type = "scratch"
)

func (t Type) Valid() bool {
	switch t {
	case TypeBusiness, TypeTrip, TypeScratch:
		return true
	}
	return false
}

// FixedCost is a recurring expense. Amount covers Period days.
type FixedCost struct {
	Id          string  `json:"id"`
	Name        string  `json:"name"`
	Amount      float64 `json:"amount"`
	Period      int     `json:"period"`
	Description string  `json:"description,omitempty"`
}

// Product is a recurring sold item or service. UnitsSold units are sold every Period days.
type Product struct {
	Id           string  `json:"id"`
	Name         string  `json:"name"`
	CostPerUnit  float64 `json:"costPerUnit"`
	PricePerUnit float64 `json:"pricePerUnit"`
	UnitsSold    int     `json:"unitsSold"`
	Period       int     `json:"period"`
	Description  string  `json:"description,omitempty"`
}

// Budget is a named plan. It exclusively owns its fixed costs and products.
type Budget struct {
	Id         string      `json:"id"`
	Name       string      `json:"name"`
	Type       Type        `json:"type"`
	Period     int         `json:"period"`
	FixedCosts []FixedCost `json:"fixedCosts"`
	Products   []Product   `json:"products"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// Clone returns a copy of the plan that shares no backing arrays with b.
func (b Budget) Clone() Budget {
	c := b
	c.FixedCosts = append(make([]FixedCost, 0, len(b.FixedCosts)), b.FixedCosts...)
	c.Products = append(make([]Product, 0, len(b.Products)), b.Products...)
	return c
}

// CostDraft carries the user-supplied fields of a fixed cost that has no identifier yet.
type CostDraft struct {
	Name        string
	Amount      float64
	Period      int
	Description string
}

// ProductDraft carries the user-supplied fields of a product that has no identifier yet.
type ProductDraft struct {
	Name         string
	CostPerUnit  float64
	PricePerUnit float64
	UnitsSold    int
	Period       int
	Description  string
}

// CostChanges lists the fields to overwrite on a fixed cost. Nil fields are left as they are.
type CostChanges struct {
	Name        *string
	Amount      *float64
	Period      *int
	Description *string
}

func (c CostChanges) apply(cost FixedCost) FixedCost {
	if c.Name != nil {
		cost.Name = *c.Name
	}
	if c.Amount != nil {
		cost.Amount = *c.Amount
	}
	if c.Period != nil {
		cost.Period = *c.Period
	}
	if c.Description != nil {
		cost.Description = *c.Description
	}
	return cost
}

// ProductChanges lists the fields to overwrite on a product. Nil fields are left as they are.
type ProductChanges struct {
	Name         *string
	CostPerUnit  *float64
	PricePerUnit *float64
	UnitsSold    *int
	Period       *int
	Description  *string
}

func (c ProductChanges) apply(product Product) Product {
	if c.Name != nil {
		product.Name = *c.Name
	}
	if c.CostPerUnit != nil {
		product.CostPerUnit = *c.CostPerUnit
	}
	if c.PricePerUnit != nil {
		product.PricePerUnit = *c.PricePerUnit
	}
	if c.UnitsSold != nil {
		product.UnitsSold = *c.UnitsSold
	}
	if c.Period != nil {
		product.Period = *c.Period
	}
	if c.Description != nil {
		product.Description = *c.Description
	}
	return product
}

// VisibleFixedCosts returns the costs worth showing: named and with a non-zero amount.
// Totals never use this filter.
func VisibleFixedCosts(costs []FixedCost) []FixedCost {
	visible := make([]FixedCost, 0, len(costs))
	for _, cost := range costs {
		if cost.Amount > 0 && cost.Name != "" {
			visible = append(visible, cost)
		}
	}
	return visible
}

// VisibleProducts returns the products worth showing: named and with at least one unit sold.
func VisibleProducts(products []Product) []Product {
	visible := make([]Product, 0, len(products))
	for _, product := range products {
		if product.Name != "" && product.UnitsSold > 0 {
			visible = append(visible, product)
		}
	}
	return visible
}

func findFixedCost(id string, costs []FixedCost) int {
	for idx, cost := range costs {
		if cost.Id == id {
			return idx
		}
	}
	return -1
}

func findProduct(id string, products []Product) int {
	for idx, product := range products {
		if product.Id == id {
			return idx
		}
	}
	return -1
}

func findPlan(id string, plans []Budget) int {
	for idx, plan := range plans {
		if plan.Id == id {
			return idx
		}
	}
	return -1
}
