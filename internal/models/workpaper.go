package models

import (
	"time"
)

// Status is the review lifecycle state of a workpaper.
type Status string

// Lifecycle states in forward order.
const (
	StatusNotStarted    Status = "NotStarted"
	StatusInProgress    Status = "InProgress"
	StatusReadyToReview Status = "ReadyToReview"
	StatusComplete      Status = "Complete"
	StatusLocked        Status = "Locked"
)

// Calculation holds the amounts derived from a workpaper's inputs.
// The whole set is recomputed and overwritten on every calculation run.
type Calculation struct {
	TotalExpenses              float64 `gorm:"column:total_expenses;not null;default:0" json:"totalExpenses"`
	CapitalExcludedTotal       float64 `gorm:"column:capital_excluded_total;not null;default:0" json:"capitalExcludedTotal"`
	DeductibleExpenseBase      float64 `gorm:"column:deductible_expense_base;not null;default:0" json:"deductibleExpenseBase"`
	OwnedExpenses              float64 `gorm:"column:owned_expenses;not null;default:0" json:"ownedExpenses"`
	ApportionedExpenses        float64 `gorm:"column:apportioned_expenses;not null;default:0" json:"apportionedExpenses"`
	InterestTotal              float64 `gorm:"column:interest_total;not null;default:0" json:"interestTotal"`
	DeductibleInterest         float64 `gorm:"column:deductible_interest;not null;default:0" json:"deductibleInterest"`
	AdjustedDeductibleExpenses float64 `gorm:"column:adjusted_deductible_expenses;not null;default:0" json:"adjustedDeductibleExpenses"`
	AdjustedIncome             float64 `gorm:"column:adjusted_income;not null;default:0" json:"adjustedIncome"`
	NetRentalIncome            float64 `gorm:"column:net_rental_income;not null;default:0" json:"netRentalIncome"`
	LossCarryForward           float64 `gorm:"column:loss_carry_forward;not null;default:0" json:"lossCarryForward"`
}

// Workpaper is one tax year's rental calculation for one property.
// At most one workpaper exists per (PropertyID, TaxYear).
type Workpaper struct {
	CreatedAt          time.Time    `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt          time.Time    `gorm:"column:updated_at" json:"updatedAt"`
	ID                 string       `gorm:"primaryKey;size:36" json:"workpaperId"`
	PropertyID         string       `gorm:"size:36;not null;uniqueIndex:idx_workpaper_property_year" json:"propertyId"`
	TaxYear            string       `gorm:"size:16;not null;uniqueIndex:idx_workpaper_property_year" json:"taxYear"`
	Status             Status       `gorm:"size:32;not null;index" json:"status"`
	CreatedBy          string       `gorm:"size:128" json:"createdBy"`
	LastModifiedBy     string       `gorm:"size:128" json:"lastModifiedBy"`
	CurrentOwnerUserID string       `gorm:"column:current_owner_user_id;size:128" json:"currentOwnerUserId"`
	ExpenseLines       ExpenseLines `gorm:"type:text;column:expense_lines" json:"expenseLines"`
	GrossRentalIncome  float64      `gorm:"column:gross_rental_income;not null;default:0" json:"grossRentalIncome"`
	DaysRented         int          `gorm:"column:days_rented;not null;default:0" json:"daysRented"`
	DaysAvailable      int          `gorm:"column:days_available;not null;default:0" json:"daysAvailable"`
	DaysPrivate        int          `gorm:"column:days_private;not null;default:0" json:"daysPrivate"`
	MixedUse           bool         `gorm:"column:mixed_use;not null;default:false" json:"mixedUse"`
	Calculation        `gorm:"embedded"`
}

// TableName specifies the table name for GORM.
func (Workpaper) TableName() string {
	return "workpapers"
}
