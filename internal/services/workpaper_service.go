package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Net-Advantage/ai-showcase/rental/internal/calc"
	"github.com/Net-Advantage/ai-showcase/rental/internal/diagnostics"
	"github.com/Net-Advantage/ai-showcase/rental/internal/lifecycle"
	"github.com/Net-Advantage/ai-showcase/rental/internal/logger"
	"github.com/Net-Advantage/ai-showcase/rental/internal/models"
	"github.com/Net-Advantage/ai-showcase/rental/internal/repository"
)

// Activity field names
const (
	fieldStatus      = "status"
	fieldExpenseLine = "expenseLine"
	fieldEvidence    = "evidence"
)

// Evidence defaults
const (
	DefaultEvidenceFileName    = "untitled"
	DefaultEvidenceContentType = "application/octet-stream"
)

// workpaperLocks serializes read-modify-write cycles per workpaper, and
// workpaper creation per property.
var workpaperLocks = newKeyedMutex()

func propertyLockKey(propertyID string) string {
	return "property:" + propertyID
}

// WorkpaperInput carries a partial update of a workpaper's inputs.
// Nil fields are left unchanged. Status and derived amounts are not writable.
type WorkpaperInput struct {
	GrossRentalIncome *float64 `json:"grossRentalIncome"`
	DaysRented        *int     `json:"daysRented"`
	DaysAvailable     *int     `json:"daysAvailable"`
	DaysPrivate       *int     `json:"daysPrivate"`
	MixedUse          *bool    `json:"mixedUse"`
}

// ExpenseLineInput carries the fields of an expense line to add or merge.
type ExpenseLineInput struct {
	Category        *models.ExpenseCategory `json:"category"`
	Description     *string                 `json:"description" binding:"omitempty,max=500"`
	Amount          *float64                `json:"amount" binding:"omitempty,gte=0"`
	IsCapital       *bool                   `json:"isCapital"`
	IsApportionable *bool                   `json:"isApportionable"`
	EvidenceIDs     []string                `json:"evidenceIds"`
	Notes           *string                 `json:"notes" binding:"omitempty,max=2000"`
}

// EvidenceInput carries the metadata of an uploaded document.
type EvidenceInput struct {
	FileName    string `json:"fileName" binding:"max=255"`
	ContentType string `json:"contentType" binding:"max=128"`
	SizeBytes   int64  `json:"sizeBytes" binding:"gte=0"`
}

// WorkpaperService defines the interface for workpaper business logic operations.
// Every mutating operation takes the acting user and appends to the audit trail.
type WorkpaperService interface {
	// Create returns the property's workpaper for the current tax year,
	// creating it when absent. The bool reports whether it was created.
	// Returns ErrPropertyNotFound if the property does not exist.
	Create(ctx context.Context, actor models.Actor, propertyID string) (*models.Workpaper, bool, error)

	// Get returns the workpaper with the given ID.
	// Returns ErrWorkpaperNotFound if it does not exist.
	Get(ctx context.Context, id string) (*models.Workpaper, error)

	// GetForProperty returns the property's workpaper for taxYear, or for the
	// current tax year when taxYear is empty.
	GetForProperty(ctx context.Context, propertyID, taxYear string) (*models.Workpaper, error)

	// UpdateInputs merges input into the workpaper, logging each changed field.
	UpdateInputs(ctx context.Context, actor models.Actor, id string, input WorkpaperInput) (*models.Workpaper, error)

	// AddExpenseLine appends a new expense line.
	AddExpenseLine(ctx context.Context, actor models.Actor, workpaperID string, input ExpenseLineInput) (*models.ExpenseLine, error)

	// UpdateExpenseLine merges input into an existing line.
	// Returns ErrExpenseLineNotFound if the line does not exist.
	UpdateExpenseLine(ctx context.Context, actor models.Actor, workpaperID, lineID string, input ExpenseLineInput) (*models.ExpenseLine, error)

	// RemoveExpenseLine deletes a line.
	// Returns ErrExpenseLineNotFound, and logs nothing, if the line does not exist.
	RemoveExpenseLine(ctx context.Context, actor models.Actor, workpaperID, lineID string) error

	// AddEvidence records document metadata against a workpaper.
	AddEvidence(ctx context.Context, actor models.Actor, workpaperID string, input EvidenceInput) (*models.Evidence, error)

	// RemoveEvidence deletes an evidence record. Lines citing it keep the stale ID.
	// Returns ErrEvidenceNotFound if it does not exist.
	RemoveEvidence(ctx context.Context, actor models.Actor, evidenceID string) error

	// ListEvidence returns evidence owned by the workpaper or cited by its lines.
	ListEvidence(ctx context.Context, workpaperID string) ([]models.Evidence, error)

	// Calculate recomputes and stores the derived amounts.
	// A NotStarted workpaper advances to InProgress.
	Calculate(ctx context.Context, actor models.Actor, workpaperID string) (*models.Workpaper, error)

	// TransitionStatus moves the workpaper to a new lifecycle state.
	// Returns lifecycle.ErrTransitionNotAllowed or lifecycle.ErrUnknownStatus
	// and leaves the record unchanged when the move is refused.
	TransitionStatus(ctx context.Context, actor models.Actor, workpaperID string, to models.Status) (*models.Workpaper, error)

	// Diagnose evaluates the data-quality rules against the stored workpaper.
	Diagnose(ctx context.Context, workpaperID string) ([]diagnostics.Finding, error)

	// ListActivities returns the workpaper's audit trail, newest first.
	ListActivities(ctx context.Context, workpaperID string) ([]models.Activity, error)
}

// workpaperService is the concrete implementation of WorkpaperService.
type workpaperService struct {
	store    *repository.Store
	settings SettingsService
	log      *logger.Logger
	now      Clock
}

// NewWorkpaperService creates a new instance of WorkpaperService.
func NewWorkpaperService(store *repository.Store, settings SettingsService, log *logger.Logger) WorkpaperService {
	return &workpaperService{
		store:    store,
		settings: settings,
		log:      log,
		now:      utcNow,
	}
}

func (s *workpaperService) Create(ctx context.Context, actor models.Actor, propertyID string) (*models.Workpaper, bool, error) {
	actor = actor.OrDefault()
	taxYear := s.settings.Resolve(ctx).TaxYear

	unlock := workpaperLocks.Lock(propertyLockKey(propertyID))
	defer unlock()

	var (
		wp      *models.Workpaper
		created bool
	)
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		property, err := tx.Properties.FindByID(ctx, propertyID)
		if err != nil {
			return err
		}
		if property == nil {
			return ErrPropertyNotFound
		}
		wp, created, err = ensureWorkpaper(ctx, tx, actor, propertyID, taxYear, s.now())
		return err
	})
	if err != nil {
		return nil, false, s.fail("create workpaper", err, map[string]interface{}{
			"property_id": propertyID,
			"tax_year":    taxYear,
		})
	}

	if created {
		s.log.Info("Workpaper created", map[string]interface{}{
			"workpaper_id": wp.ID,
			"property_id":  propertyID,
			"tax_year":     taxYear,
			"user_id":      actor.UserID,
		})
	}
	return wp, created, nil
}

// ensureWorkpaper returns the (propertyID, taxYear) workpaper, creating it
// and its Created activity when it does not exist yet.
func ensureWorkpaper(ctx context.Context, tx *repository.Store, actor models.Actor, propertyID, taxYear string, at time.Time) (*models.Workpaper, bool, error) {
	existing, err := tx.Workpapers.FindByPropertyAndYear(ctx, propertyID, taxYear)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	wp := &models.Workpaper{
		ID:                 uuid.NewString(),
		PropertyID:         propertyID,
		TaxYear:            taxYear,
		Status:             models.StatusNotStarted,
		CreatedBy:          actor.UserID,
		LastModifiedBy:     actor.UserID,
		CurrentOwnerUserID: actor.UserID,
		ExpenseLines:       models.ExpenseLines{},
		CreatedAt:          at,
		UpdatedAt:          at,
	}
	if err := tx.Workpapers.Create(ctx, wp); err != nil {
		return nil, false, err
	}

	activity := newActivity(wp.ID, actor, models.ActionCreated, fieldStatus, "", string(models.StatusNotStarted), at)
	if err := tx.Activities.Append(ctx, activity); err != nil {
		return nil, false, err
	}
	return wp, true, nil
}

func (s *workpaperService) Get(ctx context.Context, id string) (*models.Workpaper, error) {
	wp, err := s.store.Workpapers.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail("get workpaper", err, map[string]interface{}{"workpaper_id": id})
	}
	if wp == nil {
		return nil, ErrWorkpaperNotFound
	}
	return wp, nil
}

func (s *workpaperService) GetForProperty(ctx context.Context, propertyID, taxYear string) (*models.Workpaper, error) {
	if taxYear == "" {
		taxYear = s.settings.Resolve(ctx).TaxYear
	}
	fields := map[string]interface{}{"property_id": propertyID, "tax_year": taxYear}

	property, err := s.store.Properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, s.fail("get property", err, fields)
	}
	if property == nil {
		return nil, ErrPropertyNotFound
	}

	wp, err := s.store.Workpapers.FindByPropertyAndYear(ctx, propertyID, taxYear)
	if err != nil {
		return nil, s.fail("get workpaper", err, fields)
	}
	if wp == nil {
		return nil, ErrWorkpaperNotFound
	}
	return wp, nil
}

func (s *workpaperService) UpdateInputs(ctx context.Context, actor models.Actor, id string, input WorkpaperInput) (*models.Workpaper, error) {
	actor = actor.OrDefault()
	var changed int

	wp, err := s.mutate(ctx, id, func(tx *repository.Store, wp *models.Workpaper) error {
		at := s.now()
		var activities []*models.Activity
		record := func(field, oldValue, newValue string) {
			if oldValue != newValue {
				activities = append(activities, newActivity(wp.ID, actor, models.ActionUpdatedInput, field, oldValue, newValue, at))
			}
		}

		if v := input.GrossRentalIncome; v != nil {
			record("grossRentalIncome", formatFloat(wp.GrossRentalIncome), formatFloat(*v))
			wp.GrossRentalIncome = *v
		}
		if v := input.DaysRented; v != nil {
			record("daysRented", strconv.Itoa(wp.DaysRented), strconv.Itoa(*v))
			wp.DaysRented = *v
		}
		if v := input.DaysAvailable; v != nil {
			record("daysAvailable", strconv.Itoa(wp.DaysAvailable), strconv.Itoa(*v))
			wp.DaysAvailable = *v
		}
		if v := input.DaysPrivate; v != nil {
			record("daysPrivate", strconv.Itoa(wp.DaysPrivate), strconv.Itoa(*v))
			wp.DaysPrivate = *v
		}
		if v := input.MixedUse; v != nil {
			record("mixedUse", strconv.FormatBool(wp.MixedUse), strconv.FormatBool(*v))
			wp.MixedUse = *v
		}

		wp.LastModifiedBy = actor.UserID
		wp.UpdatedAt = at
		if err := updateWorkpaper(ctx, tx, wp); err != nil {
			return err
		}
		for _, a := range activities {
			if err := tx.Activities.Append(ctx, a); err != nil {
				return err
			}
		}
		changed = len(activities)
		return nil
	})
	if err != nil {
		return nil, s.fail("update workpaper", err, map[string]interface{}{"workpaper_id": id})
	}

	s.log.Info("Workpaper inputs updated", map[string]interface{}{
		"workpaper_id":   id,
		"changed_fields": changed,
		"user_id":        actor.UserID,
	})
	return wp, nil
}

func (s *workpaperService) AddExpenseLine(ctx context.Context, actor models.Actor, workpaperID string, input ExpenseLineInput) (*models.ExpenseLine, error) {
	actor = actor.OrDefault()
	line := models.ExpenseLine{
		LineID:          uuid.NewString(),
		Category:        models.CategoryOther,
		IsApportionable: true,
		EvidenceIDs:     []string{},
	}
	applyLineInput(&line, input)
	if err := validateLine(line); err != nil {
		return nil, err
	}

	_, err := s.mutate(ctx, workpaperID, func(tx *repository.Store, wp *models.Workpaper) error {
		wp.ExpenseLines = append(wp.ExpenseLines, line)
		return s.saveWithActivity(ctx, tx, wp, actor,
			newActivity(wp.ID, actor, models.ActionAddedExpense, fieldExpenseLine, "", describeLine(line.Category, line.Amount), s.now()))
	})
	if err != nil {
		return nil, s.fail("add expense line", err, map[string]interface{}{"workpaper_id": workpaperID})
	}

	s.log.Info("Expense line added", map[string]interface{}{
		"workpaper_id": workpaperID,
		"line_id":      line.LineID,
		"category":     line.Category,
		"user_id":      actor.UserID,
	})
	return &line, nil
}

func (s *workpaperService) UpdateExpenseLine(ctx context.Context, actor models.Actor, workpaperID, lineID string, input ExpenseLineInput) (*models.ExpenseLine, error) {
	actor = actor.OrDefault()
	var updated models.ExpenseLine

	_, err := s.mutate(ctx, workpaperID, func(tx *repository.Store, wp *models.Workpaper) error {
		idx := wp.ExpenseLines.Find(lineID)
		if idx < 0 {
			return ErrExpenseLineNotFound
		}
		old := wp.ExpenseLines[idx]
		updated = old
		applyLineInput(&updated, input)
		if err := validateLine(updated); err != nil {
			return err
		}
		wp.ExpenseLines[idx] = updated

		return s.saveWithActivity(ctx, tx, wp, actor,
			newActivity(wp.ID, actor, models.ActionUpdatedExpense, fieldExpenseLine,
				describeLine(old.Category, old.Amount), describeLine(updated.Category, updated.Amount), s.now()))
	})
	if err != nil {
		return nil, s.fail("update expense line", err, map[string]interface{}{
			"workpaper_id": workpaperID,
			"line_id":      lineID,
		})
	}
	return &updated, nil
}

func (s *workpaperService) RemoveExpenseLine(ctx context.Context, actor models.Actor, workpaperID, lineID string) error {
	actor = actor.OrDefault()

	_, err := s.mutate(ctx, workpaperID, func(tx *repository.Store, wp *models.Workpaper) error {
		idx := wp.ExpenseLines.Find(lineID)
		if idx < 0 {
			return ErrExpenseLineNotFound
		}
		line := wp.ExpenseLines[idx]
		wp.ExpenseLines = append(wp.ExpenseLines[:idx:idx], wp.ExpenseLines[idx+1:]...)

		return s.saveWithActivity(ctx, tx, wp, actor,
			newActivity(wp.ID, actor, models.ActionRemovedExpense, fieldExpenseLine, describeLine(line.Category, line.Amount), "", s.now()))
	})
	if err != nil {
		return s.fail("remove expense line", err, map[string]interface{}{
			"workpaper_id": workpaperID,
			"line_id":      lineID,
		})
	}
	return nil
}

func (s *workpaperService) AddEvidence(ctx context.Context, actor models.Actor, workpaperID string, input EvidenceInput) (*models.Evidence, error) {
	actor = actor.OrDefault()
	if input.SizeBytes < 0 {
		return nil, fmt.Errorf("%w: size must not be negative", ErrInvalidInput)
	}

	evidence := &models.Evidence{
		ID:          uuid.NewString(),
		WorkpaperID: workpaperID,
		FileName:    input.FileName,
		ContentType: input.ContentType,
		SizeBytes:   input.SizeBytes,
		UploadedBy:  actor.UserID,
	}
	if evidence.FileName == "" {
		evidence.FileName = DefaultEvidenceFileName
	}
	if evidence.ContentType == "" {
		evidence.ContentType = DefaultEvidenceContentType
	}

	_, err := s.mutate(ctx, workpaperID, func(tx *repository.Store, wp *models.Workpaper) error {
		at := s.now()
		evidence.UploadedAt = at
		if err := tx.Evidence.Create(ctx, evidence); err != nil {
			return err
		}
		return tx.Activities.Append(ctx, newActivity(wp.ID, actor, models.ActionAddedEvidence, fieldEvidence, "", evidence.FileName, at))
	})
	if err != nil {
		return nil, s.fail("add evidence", err, map[string]interface{}{"workpaper_id": workpaperID})
	}

	s.log.Info("Evidence added", map[string]interface{}{
		"workpaper_id": workpaperID,
		"evidence_id":  evidence.ID,
		"file_name":    evidence.FileName,
		"size_bytes":   evidence.SizeBytes,
	})
	return evidence, nil
}

func (s *workpaperService) RemoveEvidence(ctx context.Context, actor models.Actor, evidenceID string) error {
	actor = actor.OrDefault()
	fields := map[string]interface{}{"evidence_id": evidenceID}

	evidence, err := s.store.Evidence.FindByID(ctx, evidenceID)
	if err != nil {
		return s.fail("get evidence", err, fields)
	}
	if evidence == nil {
		return ErrEvidenceNotFound
	}

	unlock := workpaperLocks.Lock(evidence.WorkpaperID)
	defer unlock()

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		current, err := tx.Evidence.FindByID(ctx, evidenceID)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrEvidenceNotFound
		}
		if err := tx.Evidence.Delete(ctx, evidenceID); err != nil {
			return err
		}
		return tx.Activities.Append(ctx, newActivity(current.WorkpaperID, actor, models.ActionRemovedEvidence, fieldEvidence, current.FileName, "", s.now()))
	})
	if err != nil {
		return s.fail("remove evidence", err, fields)
	}

	s.log.Info("Evidence removed", map[string]interface{}{
		"workpaper_id": evidence.WorkpaperID,
		"evidence_id":  evidenceID,
	})
	return nil
}

func (s *workpaperService) ListEvidence(ctx context.Context, workpaperID string) ([]models.Evidence, error) {
	wp, err := s.Get(ctx, workpaperID)
	if err != nil {
		return nil, err
	}
	evidence, err := evidenceFor(ctx, s.store.Evidence, wp)
	if err != nil {
		return nil, s.fail("list evidence", err, map[string]interface{}{"workpaper_id": workpaperID})
	}
	return evidence, nil
}

// evidenceFor returns the evidence owned by wp plus any evidence its lines cite.
func evidenceFor(ctx context.Context, repo repository.EvidenceRepository, wp *models.Workpaper) ([]models.Evidence, error) {
	owned, err := repo.ListByWorkpaper(ctx, wp.ID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(owned))
	for _, e := range owned {
		seen[e.ID] = struct{}{}
	}
	var cited []string
	for _, line := range wp.ExpenseLines {
		for _, id := range line.EvidenceIDs {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				cited = append(cited, id)
			}
		}
	}
	if len(cited) == 0 {
		return owned, nil
	}

	linked, err := repo.FindByIDs(ctx, cited)
	if err != nil {
		return nil, err
	}
	return append(owned, linked...), nil
}

func (s *workpaperService) Calculate(ctx context.Context, actor models.Actor, workpaperID string) (*models.Workpaper, error) {
	actor = actor.OrDefault()
	settings := s.settings.Resolve(ctx)
	var advanced bool

	wp, err := s.mutate(ctx, workpaperID, func(tx *repository.Store, wp *models.Workpaper) error {
		ownership := 1.0
		property, err := tx.Properties.FindByID(ctx, wp.PropertyID)
		if err != nil {
			return err
		}
		if property != nil {
			ownership = property.OwnershipPercentage
		}

		at := s.now()
		wp.Calculation = calc.Calculate(wp, ownership, settings)
		wp.LastModifiedBy = actor.UserID
		wp.UpdatedAt = at

		if wp.Status != models.StatusNotStarted {
			return updateWorkpaper(ctx, tx, wp)
		}
		if err := lifecycle.Check(wp.Status, models.StatusInProgress); err != nil {
			return err
		}
		wp.Status = models.StatusInProgress
		advanced = true
		if err := updateWorkpaper(ctx, tx, wp); err != nil {
			return err
		}
		return tx.Activities.Append(ctx, newActivity(wp.ID, actor, models.ActionStatusChange, fieldStatus,
			string(models.StatusNotStarted), string(models.StatusInProgress), at))
	})
	if err != nil {
		return nil, s.fail("calculate workpaper", err, map[string]interface{}{"workpaper_id": workpaperID})
	}

	s.log.Info("Workpaper calculated", map[string]interface{}{
		"workpaper_id":      workpaperID,
		"net_rental_income": wp.NetRentalIncome,
		"advanced":          advanced,
		"user_id":           actor.UserID,
	})
	return wp, nil
}

func (s *workpaperService) TransitionStatus(ctx context.Context, actor models.Actor, workpaperID string, to models.Status) (*models.Workpaper, error) {
	actor = actor.OrDefault()
	var from models.Status

	wp, err := s.mutate(ctx, workpaperID, func(tx *repository.Store, wp *models.Workpaper) error {
		from = wp.Status
		if err := lifecycle.Check(from, to); err != nil {
			return err
		}
		wp.Status = to
		return s.saveWithActivity(ctx, tx, wp, actor,
			newActivity(wp.ID, actor, models.ActionStatusChange, fieldStatus, string(from), string(to), s.now()))
	})
	if err != nil {
		return nil, s.fail("transition workpaper", err, map[string]interface{}{
			"workpaper_id": workpaperID,
			"to":           to,
		})
	}

	s.log.Info("Workpaper status changed", map[string]interface{}{
		"workpaper_id": workpaperID,
		"from":         from,
		"to":           to,
		"user_id":      actor.UserID,
	})
	return wp, nil
}

func (s *workpaperService) Diagnose(ctx context.Context, workpaperID string) ([]diagnostics.Finding, error) {
	wp, err := s.Get(ctx, workpaperID)
	if err != nil {
		return nil, err
	}
	evidence, err := evidenceFor(ctx, s.store.Evidence, wp)
	if err != nil {
		return nil, s.fail("diagnose workpaper", err, map[string]interface{}{"workpaper_id": workpaperID})
	}
	return diagnostics.Evaluate(wp, evidence), nil
}

func (s *workpaperService) ListActivities(ctx context.Context, workpaperID string) ([]models.Activity, error) {
	activities, err := s.store.Activities.ListByWorkpaper(ctx, workpaperID)
	if err != nil {
		return nil, s.fail("list activities", err, map[string]interface{}{"workpaper_id": workpaperID})
	}
	return activities, nil
}

// mutate loads the workpaper under its lock inside a transaction and hands it to fn.
// The stored workpaper is returned once fn succeeds.
func (s *workpaperService) mutate(ctx context.Context, id string, fn func(tx *repository.Store, wp *models.Workpaper) error) (*models.Workpaper, error) {
	unlock := workpaperLocks.Lock(id)
	defer unlock()

	var result *models.Workpaper
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		wp, err := tx.Workpapers.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if wp == nil {
			return ErrWorkpaperNotFound
		}
		if err := fn(tx, wp); err != nil {
			return err
		}
		result = wp
		return nil
	})
	return result, err
}

// updateWorkpaper stores wp, reporting a row removed underneath it as not found.
func updateWorkpaper(ctx context.Context, tx *repository.Store, wp *models.Workpaper) error {
	err := tx.Workpapers.Update(ctx, wp)
	if errors.Is(err, repository.ErrStaleRecord) {
		return ErrWorkpaperNotFound
	}
	return err
}

// saveWithActivity stamps wp as modified by actor, stores it and appends a.
func (s *workpaperService) saveWithActivity(ctx context.Context, tx *repository.Store, wp *models.Workpaper, actor models.Actor, a *models.Activity) error {
	wp.LastModifiedBy = actor.UserID
	wp.UpdatedAt = a.Timestamp
	if err := updateWorkpaper(ctx, tx, wp); err != nil {
		return err
	}
	return tx.Activities.Append(ctx, a)
}

// fail logs err and returns it. Domain errors pass through unwrapped so
// callers can match them; store failures are wrapped with the operation.
func (s *workpaperService) fail(op string, err error, fields map[string]interface{}) error {
	return logFailure(s.log, op, err, fields)
}

func logFailure(log *logger.Logger, op string, err error, fields map[string]interface{}) error {
	if isDomainError(err) {
		log.Debug("Rejected: "+op, mergeFields(fields, map[string]interface{}{"reason": err.Error()}))
		return err
	}
	log.Error("Failed to "+op, err, fields)
	return fmt.Errorf("failed to %s: %w", op, err)
}

func isDomainError(err error) bool {
	for _, target := range []error{
		ErrPropertyNotFound,
		ErrWorkpaperNotFound,
		ErrExpenseLineNotFound,
		ErrEvidenceNotFound,
		ErrInvalidInput,
		lifecycle.ErrTransitionNotAllowed,
		lifecycle.ErrUnknownStatus,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func mergeFields(a, b map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

func applyLineInput(line *models.ExpenseLine, input ExpenseLineInput) {
	if input.Category != nil {
		line.Category = *input.Category
	}
	if input.Description != nil {
		line.Description = *input.Description
	}
	if input.Amount != nil {
		line.Amount = *input.Amount
	}
	if input.IsCapital != nil {
		line.IsCapital = *input.IsCapital
	}
	if input.IsApportionable != nil {
		line.IsApportionable = *input.IsApportionable
	}
	if input.EvidenceIDs != nil {
		line.EvidenceIDs = append([]string{}, input.EvidenceIDs...)
	}
	if input.Notes != nil {
		line.Notes = *input.Notes
	}
}

func validateLine(line models.ExpenseLine) error {
	if !line.Category.Valid() {
		return fmt.Errorf("%w: unknown expense category %q", ErrInvalidInput, line.Category)
	}
	if line.Amount < 0 {
		return fmt.Errorf("%w: amount must not be negative, got %f", ErrInvalidInput, line.Amount)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
