package budget

import (
	"context"
	"errors"
)

var errStubSaveFailed = errors.New("stub save failed")

type RepositoryStub struct {
	plans     []Budget
	saves     int
	failSaves bool
}

func NewRepositoryStub(plans ...Budget) *RepositoryStub {
	return &RepositoryStub{plans: plans}
}

func (s *RepositoryStub) Load(ctx context.Context) ([]Budget, error) {
	plans := make([]Budget, 0, len(s.plans))
	for _, plan := range s.plans {
		plans = append(plans, Normalize(plan.Clone()))
	}
	return plans, nil
}

func (s *RepositoryStub) Save(ctx context.Context, plans []Budget) error {
	if s.failSaves {
		return errStubSaveFailed
	}
	s.saves++
	s.plans = make([]Budget, 0, len(plans))
	for _, plan := range plans {
		s.plans = append(s.plans, plan.Clone())
	}
	return nil
}

func (s *RepositoryStub) Clear(ctx context.Context) error {
	if s.failSaves {
		return errStubSaveFailed
	}
	s.plans = nil
	return nil
}
