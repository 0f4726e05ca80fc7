package budget

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

// PlanDraft is what the creation wizard hands over on completion.
type PlanDraft struct {
	Name       string
	Type       Type
	FixedCosts []CostDraft
	Products   []ProductDraft
	// Seed starts the plan from its type template before the drafts are appended.
	Seed bool
}

// Summary is a plan together with its totals and the rows worth displaying.
type Summary struct {
	Plan            Budget
	Totals          Totals
	VisibleCosts    []FixedCost
	VisibleProducts []Product
	InvalidItems    []string
}

type ImportResult struct {
	Imported int
	// DuplicateIds lists plan identifiers that occur more than once after the import.
	DuplicateIds []string
}

type Service interface {
	List() []Budget
	Get(id string) (Budget, error)
	Template(planType Type) (Budget, error)
	Create(ctx context.Context, draft PlanDraft) (Budget, error)
	Save(ctx context.Context, id string, name string, costs []FixedCost, products []Product) (Budget, error)
	Duplicate(ctx context.Context, id string) (Budget, error)
	Delete(ctx context.Context, id string) (bool, error)
	AddFixedCost(ctx context.Context, planId string, draft CostDraft) (Budget, error)
	UpdateFixedCost(ctx context.Context, planId, costId string, changes CostChanges) (Budget, error)
	RemoveFixedCost(ctx context.Context, planId, costId string) (Budget, error)
	AddProduct(ctx context.Context, planId string, draft ProductDraft) (Budget, error)
	UpdateProduct(ctx context.Context, planId, productId string, changes ProductChanges) (Budget, error)
	RemoveProduct(ctx context.Context, planId, productId string) (Budget, error)
	Import(ctx context.Context, plans []Budget) (ImportResult, error)
	Reset(ctx context.Context) error
	Summary(id string, windowDays int) (Summary, error)
	Preview(costs []FixedCost, products []Product, windowDays int) (Totals, []string)
	WindowDays(plan Budget) int
}

// ServiceImpl keeps the plan collection in memory. It is loaded once at construction and
// written back after every mutation; the in-memory copy changes only after a successful write.
type ServiceImpl struct {
	mu       sync.Mutex
	repo     Repository
	manager  *Manager
	window   Window
	language Language
	plans    []Budget
}

func NewService(ctx context.Context, repo Repository, manager *Manager, window Window, language Language) (*ServiceImpl, error) {
	plans, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	log.Infof("Loaded %d budget plan(s)", len(plans))
	return &ServiceImpl{
		repo:     repo,
		manager:  manager,
		window:   window,
		language: language,
		plans:    plans,
	}, nil
}

func (s *ServiceImpl) List() []Budget {
	s.mu.Lock()
	defer s.mu.Unlock()
	plans := make([]Budget, 0, len(s.plans))
	for _, plan := range s.plans {
		plans = append(plans, plan.Clone())
	}
	return plans
}

func (s *ServiceImpl) Get(id string) (Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	plan, err := s.find(id)
	if err != nil {
		return Budget{}, err
	}
	return plan.Clone(), nil
}

func (s *ServiceImpl) Template(planType Type) (Budget, error) {
	return s.manager.FromTemplate(planType, s.language)
}

func (s *ServiceImpl) Create(ctx context.Context, draft PlanDraft) (Budget, error) {
	if !draft.Type.Valid() {
		return Budget{}, fmt.Errorf("%w: %q", ErrInvalidType, draft.Type)
	}
	for _, cost := range draft.FixedCosts {
		if err := validateCostDraft(cost); err != nil {
			return Budget{}, err
		}
	}
	for _, product := range draft.Products {
		if err := validateProductDraft(product); err != nil {
			return Budget{}, err
		}
	}

	var plan Budget
	if draft.Seed {
		seeded, err := s.manager.FromTemplate(draft.Type, s.language)
		if err != nil {
			return Budget{}, err
		}
		plan = seeded
		if draft.Name != "" {
			plan.Name = draft.Name
		}
	} else {
		plan = s.manager.CreatePlan(draft.Name, draft.Type)
	}
	for _, cost := range draft.FixedCosts {
		plan = s.manager.AddFixedCost(plan, cost)
	}
	for _, product := range draft.Products {
		plan = s.manager.AddProduct(plan, product)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := append(append(make([]Budget, 0, len(s.plans)+1), s.plans...), plan)
	if err := s.commit(ctx, next); err != nil {
		return Budget{}, err
	}
	log.Debugf("Budget plan created: %s", plan.Id)
	return plan.Clone(), nil
}

func (s *ServiceImpl) Save(ctx context.Context, id string, name string, costs []FixedCost, products []Product) (Budget, error) {
	for _, cost := range costs {
		if err := validateCost(cost); err != nil {
			return Budget{}, err
		}
	}
	for _, product := range products {
		if err := validateProduct(product); err != nil {
			return Budget{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	plan, err := s.find(id)
	if err != nil {
		return Budget{}, err
	}
	return s.store(ctx, s.manager.SaveChanges(plan, name, costs, products))
}

func (s *ServiceImpl) Duplicate(ctx context.Context, id string) (Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	plan, err := s.find(id)
	if err != nil {
		return Budget{}, err
	}
	duplicate := s.manager.DuplicatePlan(plan)
	next := append(append(make([]Budget, 0, len(s.plans)+1), s.plans...), duplicate)
	if err := s.commit(ctx, next); err != nil {
		return Budget{}, err
	}
	log.Debugf("Budget plan %s duplicated as %s", id, duplicate.Id)
	return duplicate.Clone(), nil
}

// Delete reports false without touching storage when no plan has id.
func (s *ServiceImpl) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if findPlan(id, s.plans) == -1 {
		log.Warnf("plan %s not deleted, it does not exist", id)
		return false, nil
	}
	if err := s.commit(ctx, DeletePlan(id, s.plans)); err != nil {
		return false, err
	}
	return true, nil
}

func (s *ServiceImpl) AddFixedCost(ctx context.Context, planId string, draft CostDraft) (Budget, error) {
	if err := validateCostDraft(draft); err != nil {
		return Budget{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	plan, err := s.find(planId)
	if err != nil {
		return Budget{}, err
	}
	return s.storeEdited(ctx, s.manager.AddFixedCost(plan, draft))
}

func (s *ServiceImpl) UpdateFixedCost(ctx context.Context, planId, costId string, changes CostChanges) (Budget, error) {
	if err := validateCostChanges(changes); err != nil {
		return Budget{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	plan, err := s.find(planId)
	if err != nil {
		return Budget{}, err
	}
	if findFixedCost(costId, plan.FixedCosts) == -1 {
		log.Debugf("fixed cost %s not found in plan %s, nothing to update", costId, planId)
		return plan.Clone(), nil
	}
	return s.storeEdited(ctx, s.manager.UpdateFixedCost(plan, costId, changes))
}

func (s *ServiceImpl) RemoveFixedCost(ctx context.Context, planId, costId string) (Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	plan, err := s.find(planId)
	if err != nil {
		return Budget{}, err
	}
	if findFixedCost(costId, plan.FixedCosts) == -1 {
		log.Debugf("fixed cost %s not found in plan %s, nothing to remove", costId, planId)
		return plan.Clone(), nil
	}
	return s.storeEdited(ctx, s.manager.RemoveFixedCost(plan, costId))
}

func (s *ServiceImpl) AddProduct(ctx context.Context, planId string, draft ProductDraft) (Budget, error) {
	if err := validateProductDraft(draft); err != nil {
		return Budget{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	plan, err := s.find(planId)
	if err != nil {
		return Budget{}, err
	}
	return s.storeEdited(ctx, s.manager.AddProduct(plan, draft))
}

func (s *ServiceImpl) UpdateProduct(ctx context.Context, planId, productId string, changes ProductChanges) (Budget, error) {
	if err := validateProductChanges(changes); err != nil {
		return Budget{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	plan, err := s.find(planId)
	if err != nil {
		return Budget{}, err
	}
	if findProduct(productId, plan.Products) == -1 {
		log.Debugf("product %s not found in plan %s, nothing to update", productId, planId)
		return plan.Clone(), nil
	}
	return s.storeEdited(ctx, s.manager.UpdateProduct(plan, productId, changes))
}

func (s *ServiceImpl) RemoveProduct(ctx context.Context, planId, productId string) (Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	plan, err := s.find(planId)
	if err != nil {
		return Budget{}, err
	}
	if findProduct(productId, plan.Products) == -1 {
		log.Debugf("product %s not found in plan %s, nothing to remove", productId, planId)
		return plan.Clone(), nil
	}
	return s.storeEdited(ctx, s.manager.RemoveProduct(plan, productId))
}

// Import appends plans as they are, original identifiers included. Identifiers that end up
// duplicated are reported, not resolved.
func (s *ServiceImpl) Import(ctx context.Context, plans []Budget) (ImportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]Budget, 0, len(s.plans)+len(plans))
	next = append(next, s.plans...)
	for _, plan := range plans {
		next = append(next, Normalize(plan.Clone()))
	}
	if err := s.commit(ctx, next); err != nil {
		return ImportResult{}, err
	}

	duplicates := duplicateIds(next)
	if len(duplicates) > 0 {
		log.Warnf("import produced duplicate plan identifiers: %v", duplicates)
	}
	log.Infof("Imported %d budget plan(s)", len(plans))
	return ImportResult{Imported: len(plans), DuplicateIds: duplicates}, nil
}

func (s *ServiceImpl) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Clear(ctx); err != nil {
		return err
	}
	s.plans = []Budget{}
	log.Info("All budget plans removed")
	return nil
}

// Summary computes totals for the plan with id. A windowDays of zero applies the
// configured reporting window.
func (s *ServiceImpl) Summary(id string, windowDays int) (Summary, error) {
	plan, err := s.Get(id)
	if err != nil {
		return Summary{}, err
	}
	if windowDays <= 0 {
		windowDays = s.window.DaysFor(plan)
	}
	return Summary{
		Plan:            plan,
		Totals:          PlanTotals(plan, windowDays),
		VisibleCosts:    VisibleFixedCosts(plan.FixedCosts),
		VisibleProducts: VisibleProducts(plan.Products),
		InvalidItems:    InvalidPeriodItems(plan),
	}, nil
}

// Preview computes totals for line items that are still being edited, together with the
// identifiers of items left out because their period is not positive.
func (s *ServiceImpl) Preview(costs []FixedCost, products []Product, windowDays int) (Totals, []string) {
	if windowDays <= 0 {
		windowDays = s.window.Days
	}
	return ComputeTotals(costs, products, windowDays), InvalidLineItems(costs, products)
}

func (s *ServiceImpl) WindowDays(plan Budget) int {
	return s.window.DaysFor(plan)
}

func (s *ServiceImpl) find(id string) (Budget, error) {
	idx := findPlan(id, s.plans)
	if idx == -1 {
		return Budget{}, ErrPlanNotFound
	}
	return s.plans[idx], nil
}

// storeEdited commits a line item change. Committed content changes always refresh UpdatedAt.
func (s *ServiceImpl) storeEdited(ctx context.Context, plan Budget) (Budget, error) {
	return s.store(ctx, s.manager.SaveChanges(plan, plan.Name, plan.FixedCosts, plan.Products))
}

func (s *ServiceImpl) store(ctx context.Context, plan Budget) (Budget, error) {
	if err := s.commit(ctx, ReplacePlan(plan, s.plans)); err != nil {
		return Budget{}, err
	}
	return plan.Clone(), nil
}

// commit must be called with s.mu held.
func (s *ServiceImpl) commit(ctx context.Context, next []Budget) error {
	if err := s.repo.Save(ctx, next); err != nil {
		log.Errorf("failed to persist budget plans: %v", err)
		return err
	}
	s.plans = next
	return nil
}

func duplicateIds(plans []Budget) []string {
	seen := make(map[string]int, len(plans))
	var duplicates []string
	for _, plan := range plans {
		seen[plan.Id]++
		if seen[plan.Id] == 2 {
			duplicates = append(duplicates, plan.Id)
		}
	}
	return duplicates
}

func validateCostDraft(draft CostDraft) error {
	return validateCost(FixedCost{Name: draft.Name, Amount: draft.Amount, Period: defaultPeriod(draft.Period)})
}

func validateProductDraft(draft ProductDraft) error {
	return validateProduct(Product{
		CostPerUnit:  draft.CostPerUnit,
		PricePerUnit: draft.PricePerUnit,
		UnitsSold:    draft.UnitsSold,
		Period:       defaultPeriod(draft.Period),
	})
}

func validateCost(cost FixedCost) error {
	if cost.Amount < 0 {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidLineItem)
	}
	if cost.Period <= 0 {
		return fmt.Errorf("%w: period must be positive", ErrInvalidLineItem)
	}
	return nil
}

func validateProduct(product Product) error {
	if product.CostPerUnit < 0 || product.PricePerUnit < 0 {
		return fmt.Errorf("%w: unit cost and price must not be negative", ErrInvalidLineItem)
	}
	if product.UnitsSold < 0 {
		return fmt.Errorf("%w: units sold must not be negative", ErrInvalidLineItem)
	}
	if product.Period <= 0 {
		return fmt.Errorf("%w: period must be positive", ErrInvalidLineItem)
	}
	return nil
}

func validateCostChanges(changes CostChanges) error {
	if changes.Amount != nil && *changes.Amount < 0 {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidLineItem)
	}
	if changes.Period != nil && *changes.Period <= 0 {
		return fmt.Errorf("%w: period must be positive", ErrInvalidLineItem)
	}
	return nil
}

func validateProductChanges(changes ProductChanges) error {
	if (changes.CostPerUnit != nil && *changes.CostPerUnit < 0) || (changes.PricePerUnit != nil && *changes.PricePerUnit < 0) {
		return fmt.Errorf("%w: unit cost and price must not be negative", ErrInvalidLineItem)
	}
	if changes.UnitsSold != nil && *changes.UnitsSold < 0 {
		return fmt.Errorf("%w: units sold must not be negative", ErrInvalidLineItem)
	}
	if changes.Period != nil && *changes.Period <= 0 {
		return fmt.Errorf("%w: period must be positive", ErrInvalidLineItem)
	}
	return nil
}

func defaultPeriod(period int) int {
	if period == 0 {
		return DefaultPeriod
	}
	return period
}
