package budget

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/monny-app/monny/pkg/kvstore"
	log "github.com/sirupsen/logrus"
)

var ErrPlanNotFound = errors.New("plan not found")
var ErrInvalidType = errors.New("invalid plan type")
var ErrInvalidLineItem = errors.New("invalid line item")

// Repository persists the whole plan collection at once.
type Repository interface {
	Load(ctx context.Context) ([]Budget, error)
	Save(ctx context.Context, plans []Budget) error
	Clear(ctx context.Context) error
}

// KVRepository stores the collection as a single JSON array under one key.
type KVRepository struct {
	store kvstore.Store
	key   string
}

func NewKVRepository(store kvstore.Store, key string) *KVRepository {
	return &KVRepository{store: store, key: key}
}

// Load returns an empty collection when nothing is stored yet or the stored value is not an
// array of plans.
func (r *KVRepository) Load(ctx context.Context) ([]Budget, error) {
	data, err := r.store.Get(ctx, r.key)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return []Budget{}, nil
	}
	if err != nil {
		err := fmt.Errorf("could not load plans: %w", err)
		log.Error(err)
		return nil, err
	}

	var plans []Budget
	if err := json.Unmarshal(data, &plans); err != nil {
		log.Warnf("key %q contains invalid data, starting with no plans: %v", r.key, err)
		return []Budget{}, nil
	}
	if plans == nil {
		plans = []Budget{}
	}
	for i := range plans {
		plans[i] = Normalize(plans[i])
	}
	return plans, nil
}

func (r *KVRepository) Save(ctx context.Context, plans []Budget) error {
	if plans == nil {
		plans = []Budget{}
	}
	data, err := json.Marshal(plans)
	if err != nil {
		err := fmt.Errorf("could not encode plans: %w", err)
		log.Error(err)
		return err
	}
	if err := r.store.Put(ctx, r.key, data); err != nil {
		err := fmt.Errorf("could not save plans: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *KVRepository) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, r.key); err != nil {
		err := fmt.Errorf("could not clear plans: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

// Normalize replaces missing line item collections with empty ones.
func Normalize(plan Budget) Budget {
	if plan.FixedCosts == nil {
		plan.FixedCosts = []FixedCost{}
	}
	if plan.Products == nil {
		plan.Products = []Product{}
	}
	return plan
}
