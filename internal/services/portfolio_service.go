package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Net-Advantage/ai-showcase/rental/internal/diagnostics"
	"github.com/Net-Advantage/ai-showcase/rental/internal/logger"
	"github.com/Net-Advantage/ai-showcase/rental/internal/models"
	"github.com/Net-Advantage/ai-showcase/rental/internal/repository"
)

// PortfolioSummary aggregates the current-year workpapers of active properties.
type PortfolioSummary struct {
	TaxYear          string  `json:"taxYear" yaml:"taxYear"`
	TotalIncome      float64 `json:"totalIncome" yaml:"totalIncome"`
	TotalExpenses    float64 `json:"totalExpenses" yaml:"totalExpenses"`
	NetPosition      float64 `json:"netPosition" yaml:"netPosition"`
	LossCarryForward float64 `json:"lossCarryForward" yaml:"lossCarryForward"`
	CompletedCount   int     `json:"completedCount" yaml:"completedCount"`
	WarningCount     int     `json:"warningCount" yaml:"warningCount"`
	PropertyCount    int     `json:"propertyCount" yaml:"propertyCount"`
}

// PortfolioService derives cross-property totals. Nothing is cached; every
// call reads the stored workpapers afresh.
type PortfolioService interface {
	// Summary totals the stored derived amounts. Properties without a
	// current-year workpaper count toward PropertyCount only.
	Summary(ctx context.Context) (*PortfolioSummary, error)

	// Recalculate runs the calculation on every current-year workpaper of an
	// active property and returns how many were recalculated.
	Recalculate(ctx context.Context, actor models.Actor) (int, error)
}

// portfolioService is the concrete implementation of PortfolioService.
type portfolioService struct {
	store      *repository.Store
	settings   SettingsService
	workpapers WorkpaperService
	log        *logger.Logger
}

// NewPortfolioService creates a new instance of PortfolioService.
func NewPortfolioService(store *repository.Store, settings SettingsService, workpapers WorkpaperService, log *logger.Logger) PortfolioService {
	return &portfolioService{
		store:      store,
		settings:   settings,
		workpapers: workpapers,
		log:        log,
	}
}

func (s *portfolioService) Summary(ctx context.Context) (*PortfolioSummary, error) {
	taxYear := s.settings.Resolve(ctx).TaxYear
	fields := map[string]interface{}{"tax_year": taxYear}

	properties, workpapers, err := s.currentYear(ctx, taxYear)
	if err != nil {
		return nil, logFailure(s.log, "summarize portfolio", err, fields)
	}

	var income, expenses, net, loss decimal.Decimal
	summary := &PortfolioSummary{
		TaxYear:       taxYear,
		PropertyCount: len(properties),
	}

	for _, property := range properties {
		wp, ok := workpapers[property.ID]
		if !ok {
			continue
		}

		income = income.Add(decimal.NewFromFloat(wp.AdjustedIncome))
		expenses = expenses.Add(decimal.NewFromFloat(wp.AdjustedDeductibleExpenses))
		net = net.Add(decimal.NewFromFloat(wp.NetRentalIncome))
		loss = loss.Add(decimal.NewFromFloat(wp.LossCarryForward))

		if wp.Status == models.StatusComplete || wp.Status == models.StatusLocked {
			summary.CompletedCount++
		}

		evidence, err := evidenceFor(ctx, s.store.Evidence, wp)
		if err != nil {
			return nil, logFailure(s.log, "summarize portfolio", err, fields)
		}
		findings := diagnostics.Evaluate(wp, evidence)
		if diagnostics.HasSeverity(findings, diagnostics.SeverityWarning, diagnostics.SeverityBlocking) {
			summary.WarningCount++
		}
	}

	summary.TotalIncome = income.InexactFloat64()
	summary.TotalExpenses = expenses.InexactFloat64()
	summary.NetPosition = net.InexactFloat64()
	summary.LossCarryForward = loss.InexactFloat64()

	s.log.Debug("Portfolio summarized", map[string]interface{}{
		"tax_year":       taxYear,
		"property_count": summary.PropertyCount,
		"net_position":   summary.NetPosition,
	})
	return summary, nil
}

func (s *portfolioService) Recalculate(ctx context.Context, actor models.Actor) (int, error) {
	taxYear := s.settings.Resolve(ctx).TaxYear

	properties, workpapers, err := s.currentYear(ctx, taxYear)
	if err != nil {
		return 0, logFailure(s.log, "recalculate portfolio", err, map[string]interface{}{"tax_year": taxYear})
	}

	count := 0
	for _, property := range properties {
		wp, ok := workpapers[property.ID]
		if !ok {
			continue
		}
		if _, err := s.workpapers.Calculate(ctx, actor, wp.ID); err != nil {
			return count, err
		}
		count++
	}

	s.log.Info("Portfolio recalculated", map[string]interface{}{
		"tax_year":     taxYear,
		"recalculated": count,
	})
	return count, nil
}

// currentYear loads the active properties and their taxYear workpapers keyed by property ID.
func (s *portfolioService) currentYear(ctx context.Context, taxYear string) ([]models.Property, map[string]*models.Workpaper, error) {
	properties, err := s.store.Properties.List(ctx, true)
	if err != nil {
		return nil, nil, err
	}

	list, err := s.store.Workpapers.ListByTaxYear(ctx, taxYear)
	if err != nil {
		return nil, nil, err
	}
	byProperty := make(map[string]*models.Workpaper, len(list))
	for i := range list {
		byProperty[list[i].PropertyID] = &list[i]
	}
	return properties, byProperty, nil
}
