package budget

import "fmt"

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageSpanish Language = "es"
)

func (l Language) Valid() bool {
	_, ok := templateLabels[l]
	return ok
}

type labels struct {
	businessName string
	tripName     string
	rent         string
	electricity  string
	salaries     string
}

var templateLabels = map[Language]labels{
	LanguageEnglish: {
		businessName: "Business Monthly Budget",
		tripName:     "Trip Budget",
		rent:         "Rent",
		electricity:  "Electricity",
		salaries:     "Salaries",
	},
	LanguageSpanish: {
		businessName: "Presupuesto Mensual de Negocio",
		tripName:     "Presupuesto de Viaje",
		rent:         "Arriendo",
		electricity:  "Electricidad",
		salaries:     "Salarios",
	},
}

// FromTemplate returns a new, unsaved plan seeded for planType.
// Business and trip plans start with zero-amount placeholder costs and one empty product;
// scratch plans start empty.
func (m *Manager) FromTemplate(planType Type, lang Language) (Budget, error) {
	if !planType.Valid() {
		return Budget{}, fmt.Errorf("%w: %q", ErrInvalidType, planType)
	}
	l, ok := templateLabels[lang]
	if !ok {
		l = templateLabels[LanguageEnglish]
	}

	switch planType {
	case TypeScratch:
		return m.CreatePlan("", planType), nil
	case TypeTrip:
		return m.seed(m.CreatePlan(l.tripName, planType), l), nil
	default:
		return m.seed(m.CreatePlan(l.businessName, planType), l), nil
	}
}

func (m *Manager) seed(plan Budget, l labels) Budget {
	for _, name := range []string{l.rent, l.electricity, l.salaries} {
		plan = m.AddFixedCost(plan, CostDraft{Name: name})
	}
	return m.AddProduct(plan, ProductDraft{})
}
