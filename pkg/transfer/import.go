// Package transfer moves plans in and out of the application as JSON documents.
package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/monny-app/monny/pkg/budget"
)

var ErrInvalidFormat = errors.New("invalid budget data format")

type payloadKind int

const (
	kindInvalid payloadKind = iota
	kindCollection
	kindSingle
)

// ParseImport accepts either a JSON array of plans or a single plan object with an id.
// Every plan, including each array element, must be an object with a non-empty id.
func ParseImport(data []byte) ([]budget.Budget, error) {
	switch classify(data) {
	case kindCollection:
		var elements []json.RawMessage
		if err := json.Unmarshal(data, &elements); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		plans := make([]budget.Budget, 0, len(elements))
		for i, element := range elements {
			plan, err := parsePlan(element)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			plans = append(plans, plan)
		}
		return plans, nil
	case kindSingle:
		plan, err := parsePlan(data)
		if err != nil {
			return nil, err
		}
		return []budget.Budget{plan}, nil
	default:
		return nil, fmt.Errorf("%w: expected a plan object or an array of plans", ErrInvalidFormat)
	}
}

func classify(data []byte) payloadKind {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return kindInvalid
	}
	switch trimmed[0] {
	case '[':
		return kindCollection
	case '{':
		return kindSingle
	}
	return kindInvalid
}

func parsePlan(data json.RawMessage) (budget.Budget, error) {
	if classify(data) != kindSingle {
		return budget.Budget{}, fmt.Errorf("%w: plan must be an object", ErrInvalidFormat)
	}
	var plan budget.Budget
	if err := json.Unmarshal(data, &plan); err != nil {
		return budget.Budget{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if plan.Id == "" {
		return budget.Budget{}, fmt.Errorf("%w: plan has no id", ErrInvalidFormat)
	}
	return budget.Normalize(plan), nil
}
