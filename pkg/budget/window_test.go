package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWindow(t *testing.T) {
	t.Run("should reject unknown modes", func(t *testing.T) {
		_, err := NewWindow("weekly", 30)
		assert.Error(t, err)
	})

	t.Run("should reject non-positive days", func(t *testing.T) {
		_, err := NewWindow(WindowFixed, 0)
		assert.Error(t, err)
	})
}

func TestWindow_DaysFor(t *testing.T) {
	fixed, _ := NewWindow(WindowFixed, 30)
	perPlan, _ := NewWindow(WindowPlan, 30)

	assert.Equal(t, 30, fixed.DaysFor(Budget{Period: 7}))
	assert.Equal(t, 7, perPlan.DaysFor(Budget{Period: 7}))
	assert.Equal(t, 30, perPlan.DaysFor(Budget{Period: 0}))
}
