package app

import (
	"context"

	"github.com/monny-app/monny/internal/config"
	"github.com/monny-app/monny/internal/utils"
	"github.com/monny-app/monny/pkg/budget"
	"github.com/monny-app/monny/pkg/kvstore"
	"github.com/monny-app/monny/pkg/transfer"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock utils.Clock
	Store kvstore.Store

	BudgetRepo    budget.Repository
	BudgetManager *budget.Manager
	BudgetService *budget.ServiceImpl
	BudgetHandler *budget.Handler

	TransferHandler *transfer.Handler
}

// BuildDependencies loads the plan collection and wires services and handlers around it.
func BuildDependencies(ctx context.Context, store kvstore.Store, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{Store: store}

	window, err := budget.NewWindow(budget.WindowMode(cfg.Report.Window), cfg.Report.Days)
	if err != nil {
		return nil, err
	}
	language := budget.Language(cfg.Templates.Language)
	if !language.Valid() {
		log.Warnf("unsupported template language %q, falling back to %q", language, budget.LanguageEnglish)
		language = budget.LanguageEnglish
	}

	deps.Clock = utils.SystemClock{}
	deps.BudgetRepo = budget.NewKVRepository(store, cfg.Storage.Key)
	deps.BudgetManager = budget.NewManager(deps.Clock)
	deps.BudgetService, err = budget.NewService(ctx, deps.BudgetRepo, deps.BudgetManager, window, language)
	if err != nil {
		return nil, err
	}
	deps.BudgetHandler = budget.NewHandler(deps.BudgetService)
	deps.TransferHandler = transfer.NewHandler(deps.BudgetService)

	return deps, nil
}
