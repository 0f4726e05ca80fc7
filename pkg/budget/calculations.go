package budget

import "github.com/shopspring/decimal"

// NormalizedCostAmount scales a cost billed every cost.Period days to a window of windowDays.
// The daily rate is computed first so the result is exactly linear in windowDays.
// A cost with a non-positive period contributes nothing.
func NormalizedCostAmount(cost FixedCost, windowDays int) decimal.Decimal {
	if cost.Period <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(cost.Amount).
		Div(decimal.NewFromInt(int64(cost.Period))).
		Mul(decimal.NewFromInt(int64(windowDays)))
}

// NormalizedProductContribution is the revenue minus cost of goods of a product, scaled to windowDays.
// A product with a non-positive period contributes nothing.
func NormalizedProductContribution(product Product, windowDays int) decimal.Decimal {
	if product.Period <= 0 {
		return decimal.Zero
	}
	margin := decimal.NewFromFloat(product.PricePerUnit).Sub(decimal.NewFromFloat(product.CostPerUnit))
	return margin.
		Mul(decimal.NewFromInt(int64(product.UnitsSold))).
		Div(decimal.NewFromInt(int64(product.Period))).
		Mul(decimal.NewFromInt(int64(windowDays)))
}

// SumFixedCosts adds up every cost, placeholders included.
func SumFixedCosts(costs []FixedCost, windowDays int) decimal.Decimal {
	total := decimal.Zero
	for _, cost := range costs {
		total = total.Add(NormalizedCostAmount(cost, windowDays))
	}
	return total
}

// SumProducts adds up the contribution of every product, incomplete ones included.
func SumProducts(products []Product, windowDays int) decimal.Decimal {
	total := decimal.Zero
	for _, product := range products {
		total = total.Add(NormalizedProductContribution(product, windowDays))
	}
	return total
}

func TotalExpenses(plan Budget, windowDays int) decimal.Decimal {
	return SumFixedCosts(plan.FixedCosts, windowDays)
}

func TotalSalesContribution(plan Budget, windowDays int) decimal.Decimal {
	return SumProducts(plan.Products, windowDays)
}

// NetResult is positive for a profit and negative for a loss.
func NetResult(plan Budget, windowDays int) decimal.Decimal {
	return TotalSalesContribution(plan, windowDays).Sub(TotalExpenses(plan, windowDays))
}

// Totals holds every aggregate of a set of line items over one reporting window.
type Totals struct {
	WindowDays        int
	Expenses          decimal.Decimal
	SalesContribution decimal.Decimal
	Net               decimal.Decimal
}

func (t Totals) IsProfit() bool {
	return !t.Net.IsNegative()
}

// ComputeTotals aggregates line items that may not belong to a saved plan yet.
func ComputeTotals(costs []FixedCost, products []Product, windowDays int) Totals {
	expenses := SumFixedCosts(costs, windowDays)
	sales := SumProducts(products, windowDays)
	return Totals{
		WindowDays:        windowDays,
		Expenses:          expenses,
		SalesContribution: sales,
		Net:               sales.Sub(expenses),
	}
}

func PlanTotals(plan Budget, windowDays int) Totals {
	return ComputeTotals(plan.FixedCosts, plan.Products, windowDays)
}

// InvalidPeriodItems returns the identifiers of line items whose period is not positive.
// Such items are left out of every total.
func InvalidPeriodItems(plan Budget) []string {
	return InvalidLineItems(plan.FixedCosts, plan.Products)
}

// InvalidLineItems is InvalidPeriodItems for line items that may not belong to a saved plan yet.
func InvalidLineItems(costs []FixedCost, products []Product) []string {
	var ids []string
	for _, cost := range costs {
		if cost.Period <= 0 {
			ids = append(ids, cost.Id)
		}
	}
	for _, product := range products {
		if product.Period <= 0 {
			ids = append(ids, product.Id)
		}
	}
	return ids
}
