package transfer

import (
	"encoding/json"
	"strings"

	"github.com/monny-app/monny/pkg/budget"
)

const CollectionFileName = "monny-budgets.json"

// ExportPlan renders one plan as indented JSON in its stored shape.
func ExportPlan(plan budget.Budget) ([]byte, error) {
	return json.MarshalIndent(budget.Normalize(plan), "", "  ")
}

// ExportCollection renders every plan as an indented JSON array. An empty collection is "[]".
func ExportCollection(plans []budget.Budget) ([]byte, error) {
	normalized := make([]budget.Budget, 0, len(plans))
	for _, plan := range plans {
		normalized = append(normalized, budget.Normalize(plan))
	}
	return json.MarshalIndent(normalized, "", "  ")
}

// FileName is the download name of a single exported plan.
func FileName(plan budget.Budget) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, strings.TrimSpace(plan.Name))
	if name == "" {
		name = plan.Id
	}
	return name + ".json"
}
