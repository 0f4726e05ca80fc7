package budget

import "fmt"

type WindowMode string

const (
	// WindowFixed reports every plan over the same number of days.
	WindowFixed WindowMode = "fixed"
	// WindowPlan reports each plan over its own stored period.
	WindowPlan WindowMode = "plan"
)

// Window decides how many days a plan's totals are expressed over.
type Window struct {
	Mode WindowMode
	Days int
}

func NewWindow(mode WindowMode, days int) (Window, error) {
	if mode != WindowFixed && mode != WindowPlan {
		return Window{}, fmt.Errorf("unknown reporting window mode %q", mode)
	}
	if days <= 0 {
		return Window{}, fmt.Errorf("reporting window must be positive, got %d days", days)
	}
	return Window{Mode: mode, Days: days}, nil
}

// DaysFor returns the reporting window for plan. In plan mode a non-positive stored period
// falls back to the configured days.
func (w Window) DaysFor(plan Budget) int {
	if w.Mode == WindowPlan && plan.Period > 0 {
		return plan.Period
	}
	return w.Days
}
