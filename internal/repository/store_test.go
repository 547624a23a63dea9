package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/Net-Advantage/ai-showcase/rental/internal/config"
	"github.com/Net-Advantage/ai-showcase/rental/internal/database"
	"github.com/Net-Advantage/ai-showcase/rental/internal/models"
)

// setupTestStore opens a migrated in-memory SQLite store.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	db, err := database.OpenSQLite(ctx, database.MemoryPath, nil)
	if err != nil {
		t.Fatalf("Failed to open sqlite store: %v", err)
	}
	t.Cleanup(db.Close)

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return NewStore(db.Gorm)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

var baseTime = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func seedProperty(t *testing.T, s *Store, id string, active bool, createdAt time.Time) *models.Property {
	t.Helper()
	p := &models.Property{
		ID:                  id,
		DisplayName:         "Property " + id,
		PropertyType:        "House",
		OwnershipPercentage: 1.0,
		IsActive:            active,
		CreatedAt:           createdAt,
	}
	if err := s.Properties.Create(context.Background(), p); err != nil {
		t.Fatalf("Failed to create property: %v", err)
	}
	return p
}

func seedWorkpaper(t *testing.T, s *Store, id, propertyID, taxYear string) *models.Workpaper {
	t.Helper()
	wp := &models.Workpaper{
		ID:           id,
		PropertyID:   propertyID,
		TaxYear:      taxYear,
		Status:       models.StatusNotStarted,
		ExpenseLines: models.ExpenseLines{},
	}
	if err := s.Workpapers.Create(context.Background(), wp); err != nil {
		t.Fatalf("Failed to create workpaper: %v", err)
	}
	return wp
}

func TestPropertyRepository_CRUD(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	created := seedProperty(t, s, "p1", true, baseTime)
	created.OwnershipPercentage = 0
	created.IsActive = false
	created.City = "Wellington"
	if err := s.Properties.Update(ctx, created); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := s.Properties.FindByID(ctx, "p1")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected property, got nil")
	}
	if got.OwnershipPercentage != 0 || got.IsActive {
		t.Errorf("Expected zero ownership and inactive, got %v / %v", got.OwnershipPercentage, got.IsActive)
	}
	if got.City != "Wellington" {
		t.Errorf("Expected city Wellington, got %q", got.City)
	}

}

func TestPropertyRepository_UpdateMissing(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	err := s.Properties.Update(ctx, &models.Property{ID: "missing", OwnershipPercentage: 1})
	if !errors.Is(err, ErrStaleRecord) {
		t.Fatalf("Expected ErrStaleRecord, got %v", err)
	}
	got, err := s.Properties.FindByID(ctx, "missing")
	if err != nil || got != nil {
		t.Errorf("Expected update not to insert a row, got %v, %v", got, err)
	}
}

func TestPropertyRepository_NotFound(t *testing.T) {
	s := setupTestStore(t)

	got, err := s.Properties.FindByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Expected no error for missing property, got %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil property, got %+v", got)
	}
}

func TestPropertyRepository_ListActiveOnly(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	seedProperty(t, s, "b", true, baseTime.Add(time.Hour))
	seedProperty(t, s, "a", true, baseTime)
	seedProperty(t, s, "c", false, baseTime.Add(2*time.Hour))

	all, err := s.Properties.List(ctx, false)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 properties, got %d", len(all))
	}
	if all[0].ID != "a" || all[1].ID != "b" {
		t.Errorf("Expected creation order a, b, got %s, %s", all[0].ID, all[1].ID)
	}

	active, err := s.Properties.List(ctx, true)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(active) != 2 {
		t.Errorf("Expected 2 active properties, got %d", len(active))
	}
}

func TestWorkpaperRepository_ExpenseLinesRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	seedProperty(t, s, "p1", true, baseTime)
	wp := seedWorkpaper(t, s, "w1", "p1", "2025/2026")

	wp.ExpenseLines = models.ExpenseLines{
		{LineID: "l1", Category: models.CategoryInterest, Amount: 10000, IsApportionable: true, EvidenceIDs: []string{"e1"}},
		{LineID: "l2", Category: models.CategoryRepairsMaintenance, Amount: 5000, IsCapital: true},
	}
	wp.GrossRentalIncome = 20000
	wp.NetRentalIncome = 12000
	if err := s.Workpapers.Update(ctx, wp); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := s.Workpapers.FindByPropertyAndYear(ctx, "p1", "2025/2026")
	if err != nil {
		t.Fatalf("FindByPropertyAndYear failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected workpaper, got nil")
	}
	if len(got.ExpenseLines) != 2 {
		t.Fatalf("Expected 2 expense lines, got %d", len(got.ExpenseLines))
	}
	if got.ExpenseLines[0].EvidenceIDs[0] != "e1" || !got.ExpenseLines[1].IsCapital {
		t.Errorf("Expense lines did not round trip: %+v", got.ExpenseLines)
	}
	if got.NetRentalIncome != 12000 {
		t.Errorf("Expected net rental income 12000, got %v", got.NetRentalIncome)
	}
}

func TestWorkpaperRepository_UpdateAfterDelete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	seedProperty(t, s, "p1", true, baseTime)
	wp := seedWorkpaper(t, s, "w1", "p1", "2025/2026")
	if err := s.Workpapers.DeleteByProperty(ctx, "p1"); err != nil {
		t.Fatalf("DeleteByProperty failed: %v", err)
	}

	wp.GrossRentalIncome = 500
	if err := s.Workpapers.Update(ctx, wp); !errors.Is(err, ErrStaleRecord) {
		t.Fatalf("Expected ErrStaleRecord, got %v", err)
	}
	if got, _ := s.Workpapers.FindByID(ctx, "w1"); got != nil {
		t.Errorf("Expected deleted workpaper to stay deleted, got %+v", got)
	}
}

func TestWorkpaperRepository_UniquePropertyYear(t *testing.T) {
	s := setupTestStore(t)
	seedProperty(t, s, "p1", true, baseTime)
	seedWorkpaper(t, s, "w1", "p1", "2025/2026")

	dup := &models.Workpaper{ID: "w2", PropertyID: "p1", TaxYear: "2025/2026", Status: models.StatusNotStarted}
	if err := s.Workpapers.Create(context.Background(), dup); err == nil {
		t.Error("Expected error creating a second workpaper for the same property and year")
	}
}

func TestWorkpaperRepository_ListAndDelete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	seedProperty(t, s, "p1", true, baseTime)
	seedProperty(t, s, "p2", true, baseTime)
	seedWorkpaper(t, s, "w1", "p1", "2024/2025")
	seedWorkpaper(t, s, "w2", "p1", "2025/2026")
	seedWorkpaper(t, s, "w3", "p2", "2025/2026")

	byYear, err := s.Workpapers.ListByTaxYear(ctx, "2025/2026")
	if err != nil {
		t.Fatalf("ListByTaxYear failed: %v", err)
	}
	if len(byYear) != 2 {
		t.Errorf("Expected 2 workpapers for 2025/2026, got %d", len(byYear))
	}

	if err := s.Workpapers.DeleteByProperty(ctx, "p1"); err != nil {
		t.Fatalf("DeleteByProperty failed: %v", err)
	}
	remaining, err := s.Workpapers.ListByProperty(ctx, "p1")
	if err != nil {
		t.Fatalf("ListByProperty failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("Expected no workpapers left for p1, got %d", len(remaining))
	}
	if wp, _ := s.Workpapers.FindByID(ctx, "w3"); wp == nil {
		t.Error("Expected workpaper of p2 to survive")
	}
}

func TestEvidenceRepository(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for i, id := range []string{"e1", "e2", "e3"} {
		wpID := "w1"
		if id == "e3" {
			wpID = "w2"
		}
		ev := &models.Evidence{
			ID:          id,
			WorkpaperID: wpID,
			FileName:    id + ".pdf",
			UploadedAt:  baseTime.Add(time.Duration(i) * time.Minute),
		}
		if err := s.Evidence.Create(ctx, ev); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	listed, err := s.Evidence.ListByWorkpaper(ctx, "w1")
	if err != nil {
		t.Fatalf("ListByWorkpaper failed: %v", err)
	}
	if len(listed) != 2 || listed[0].ID != "e1" {
		t.Errorf("Expected e1, e2 for w1, got %+v", listed)
	}

	found, err := s.Evidence.FindByIDs(ctx, []string{"e3", "missing"})
	if err != nil {
		t.Fatalf("FindByIDs failed: %v", err)
	}
	if len(found) != 1 || found[0].ID != "e3" {
		t.Errorf("Expected only e3, got %+v", found)
	}

	empty, err := s.Evidence.FindByIDs(ctx, nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("Expected empty result for no ids, got %v, %v", empty, err)
	}

	if err := s.Evidence.Delete(ctx, "e1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if ev, _ := s.Evidence.FindByID(ctx, "e1"); ev != nil {
		t.Error("Expected e1 to be deleted")
	}

	if err := s.Evidence.DeleteByWorkpapers(ctx, []string{"w1", "w2"}); err != nil {
		t.Fatalf("DeleteByWorkpapers failed: %v", err)
	}
	if ev, _ := s.Evidence.FindByID(ctx, "e3"); ev != nil {
		t.Error("Expected e3 to be deleted with its workpaper")
	}
}

func TestActivityRepository_NewestFirst(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	// Sub-second offsets exercise timestamps whose text forms differ in length.
	offsets := []time.Duration{0, 500 * time.Millisecond, 450 * time.Millisecond, 2 * time.Second}
	for i, offset := range offsets {
		a := &models.Activity{
			ID:          string(rune('a' + i)),
			WorkpaperID: "w1",
			UserID:      "default-user",
			ActionType:  models.ActionUpdatedInput,
			Timestamp:   baseTime.Add(offset),
		}
		if err := s.Activities.Append(ctx, a); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	listed, err := s.Activities.ListByWorkpaper(ctx, "w1")
	if err != nil {
		t.Fatalf("ListByWorkpaper failed: %v", err)
	}
	var got string
	for _, a := range listed {
		got += a.ID
	}
	if got != "dbca" {
		t.Errorf("Expected newest-first order dbca, got %s", got)
	}
}

func TestActivityRepository_SameTimestampBySequence(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"x", "y", "z"} {
		a := &models.Activity{
			ID:          id,
			WorkpaperID: "w1",
			UserID:      "default-user",
			ActionType:  models.ActionUpdatedInput,
			Timestamp:   baseTime,
		}
		if err := s.Activities.Append(ctx, a); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	other := &models.Activity{ID: "o", WorkpaperID: "w2", UserID: "default-user", ActionType: models.ActionCreated, Timestamp: baseTime}
	if err := s.Activities.Append(ctx, other); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if other.Sequence != 1 {
		t.Errorf("Expected sequence 1 for first activity of w2, got %d", other.Sequence)
	}

	listed, err := s.Activities.ListByWorkpaper(ctx, "w1")
	if err != nil {
		t.Fatalf("ListByWorkpaper failed: %v", err)
	}
	var got string
	for _, a := range listed {
		got += a.ID
	}
	if got != "zyx" {
		t.Errorf("Expected reverse append order zyx, got %s", got)
	}
	if listed[0].Sequence != 3 || listed[2].Sequence != 1 {
		t.Errorf("Expected sequences 3..1, got %d..%d", listed[0].Sequence, listed[2].Sequence)
	}
}

func TestSettingsRepository(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	got, err := s.Settings.Get(ctx)
	if err != nil || got != nil {
		t.Fatalf("Expected nil, nil before any save, got %v, %v", got, err)
	}

	rate := 0.5
	if err := s.Settings.Save(ctx, &models.SettingsOverride{InterestDeductibilityRate: &rate}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	year := "2026/2027"
	if err := s.Settings.Save(ctx, &models.SettingsOverride{InterestDeductibilityRate: &rate, TaxYear: &year}); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	got, err = s.Settings.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil || got.TaxYear == nil || *got.TaxYear != year || *got.InterestDeductibilityRate != rate {
		t.Errorf("Unexpected stored settings: %+v", got)
	}
}

func TestStore_TransactionRollsBack(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	errBoom := errors.New("boom")

	err := s.Transaction(ctx, func(tx *Store) error {
		seedProperty(t, tx, "p1", true, baseTime)
		return errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("Expected boom error, got %v", err)
	}

	if p, _ := s.Properties.FindByID(ctx, "p1"); p != nil {
		t.Error("Expected property insert to be rolled back")
	}
}

func TestStore_TransactionCommits(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	err := s.Transaction(ctx, func(tx *Store) error {
		seedProperty(t, tx, "p1", true, baseTime)
		seedWorkpaper(t, tx, "w1", "p1", "2025/2026")
		return nil
	})
	if err != nil {
		t.Fatalf("Transaction failed: %v", err)
	}

	if wp, _ := s.Workpapers.FindByID(ctx, "w1"); wp == nil {
		t.Error("Expected committed workpaper")
	}
}

func TestStore_TransactionWithoutDatabase(t *testing.T) {
	s := &Store{}
	called := false

	err := s.Transaction(context.Background(), func(tx *Store) error {
		called = tx == s
		return nil
	})
	if err != nil || !called {
		t.Errorf("Expected fn to run on the same store, called=%v err=%v", called, err)
	}
}

func TestStore_ContextCancellation(t *testing.T) {
	s := setupTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Properties.List(ctx, false)
	if err == nil {
		t.Error("Expected error for cancelled context")
	}
}

// TestStore_Postgres runs a smoke test against a real PostgreSQL server.
// It is skipped unless DB_HOST is set.
func TestStore_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if os.Getenv("DB_HOST") == "" {
		t.Skip("Skipping integration test: DB_HOST not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg := &config.Config{
		Store: config.StoreConfig{Driver: config.DriverPostgres},
		Database: config.DatabaseConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			Name:     getEnvOrDefault("DB_NAME", "rental"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			PoolMin:  1,
			PoolMax:  2,
		},
	}
	db, err := database.Open(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("Failed to open postgres store: %v", err)
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	s := NewStore(db.Gorm)
	id := "it-" + time.Now().UTC().Format("150405.000000")
	err = s.Transaction(ctx, func(tx *Store) error {
		if err := tx.Properties.Create(ctx, &models.Property{ID: id, OwnershipPercentage: 1, IsActive: true}); err != nil {
			return err
		}
		return errors.New("rollback")
	})
	if err == nil {
		t.Fatal("Expected rollback error")
	}
	if p, _ := s.Properties.FindByID(ctx, id); p != nil {
		t.Error("Expected rolled back property to be absent")
	}
}
