package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Net-Advantage/ai-showcase/rental/internal/database"
	"github.com/Net-Advantage/ai-showcase/rental/internal/logger"
	"github.com/Net-Advantage/ai-showcase/rental/internal/models"
	"github.com/Net-Advantage/ai-showcase/rental/internal/repository"
)

var (
	testActor    = models.Actor{UserID: "alice", DisplayName: "Alice"}
	testDefaults = models.Settings{TaxYear: "2025/2026", InterestDeductibilityRate: 0.80}
)

// testEnv wires every service over one in-memory SQLite store.
type testEnv struct {
	store      *repository.Store
	settings   SettingsService
	properties *propertyService
	workpapers *workpaperService
	portfolio  PortfolioService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := database.OpenSQLite(ctx, database.MemoryPath, nil)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(ctx))

	log := logger.New("test")
	store := repository.NewStore(db.Gorm)
	clock := steppingClock()

	settings := NewSettingsService(store.Settings, testDefaults, log)
	properties := NewPropertyService(store, settings, log).(*propertyService)
	properties.now = clock
	workpapers := NewWorkpaperService(store, settings, log).(*workpaperService)
	workpapers.now = clock

	return &testEnv{
		store:      store,
		settings:   settings,
		properties: properties,
		workpapers: workpapers,
		portfolio:  NewPortfolioService(store, settings, workpapers, log),
	}
}

// steppingClock returns a clock that advances one second per call.
func steppingClock() Clock {
	var mu sync.Mutex
	current := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

// createProperty creates a property and returns it with its current-year workpaper.
func (e *testEnv) createProperty(t *testing.T, input PropertyInput) (*models.Property, *models.Workpaper) {
	t.Helper()
	ctx := context.Background()

	property, err := e.properties.Create(ctx, testActor, input)
	require.NoError(t, err)
	wp, err := e.workpapers.GetForProperty(ctx, property.ID, "")
	require.NoError(t, err)
	return property, wp
}

func ptr[T any](v T) *T {
	return &v
}

func category(c models.ExpenseCategory) *models.ExpenseCategory {
	return &c
}
