package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ExpenseCategory classifies an expense line.
type ExpenseCategory string

// Expense categories accepted on a workpaper.
const (
	CategoryInterest           ExpenseCategory = "Interest"
	CategoryRates              ExpenseCategory = "Rates"
	CategoryInsurance          ExpenseCategory = "Insurance"
	CategoryPropertyManagement ExpenseCategory = "PropertyManagement"
	CategoryBodyCorporate      ExpenseCategory = "BodyCorporate"
	CategoryRepairsMaintenance ExpenseCategory = "RepairsMaintenance"
	CategoryCleaning           ExpenseCategory = "Cleaning"
	CategoryAdvertising        ExpenseCategory = "Advertising"
	CategoryLegalFees          ExpenseCategory = "LegalFees"
	CategoryAccountingFees     ExpenseCategory = "AccountingFees"
	CategoryUtilities          ExpenseCategory = "Utilities"
	CategoryTravel             ExpenseCategory = "Travel"
	CategoryOther              ExpenseCategory = "Other"
)

// ExpenseCategories lists every category in display order.
var ExpenseCategories = []ExpenseCategory{
	CategoryInterest,
	CategoryRates,
	CategoryInsurance,
	CategoryPropertyManagement,
	CategoryBodyCorporate,
	CategoryRepairsMaintenance,
	CategoryCleaning,
	CategoryAdvertising,
	CategoryLegalFees,
	CategoryAccountingFees,
	CategoryUtilities,
	CategoryTravel,
	CategoryOther,
}

// Valid reports whether c is one of ExpenseCategories.
func (c ExpenseCategory) Valid() bool {
	for _, known := range ExpenseCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ExpenseLine is one cost entry owned by a workpaper.
// Capital lines are excluded from deductible totals.
type ExpenseLine struct {
	LineID          string          `json:"lineId"`
	Category        ExpenseCategory `json:"category"`
	Description     string          `json:"description"`
	Notes           string          `json:"notes"`
	EvidenceIDs     []string        `json:"evidenceIds"`
	Amount          float64         `json:"amount"`
	IsCapital       bool            `json:"isCapital"`
	IsApportionable bool            `json:"isApportionable"`
}

// ExpenseLines is the embedded list of expense lines of a workpaper.
// It is persisted as a single JSON text column.
type ExpenseLines []ExpenseLine

// Find returns the index of the line with the given ID, or -1.
func (l ExpenseLines) Find(lineID string) int {
	for i := range l {
		if l[i].LineID == lineID {
			return i
		}
	}
	return -1
}

// Scan implements sql.Scanner for reading the JSON column.
// SQLite hands back text as string while Postgres returns []byte.
func (l *ExpenseLines) Scan(value interface{}) error {
	if value == nil {
		*l = ExpenseLines{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("failed to scan ExpenseLines: expected []byte or string, got %T", value)
	}

	if len(raw) == 0 {
		*l = ExpenseLines{}
		return nil
	}

	var lines []ExpenseLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return fmt.Errorf("failed to unmarshal expense lines: %w", err)
	}
	if lines == nil {
		lines = []ExpenseLine{}
	}
	*l = lines
	return nil
}

// Value implements driver.Valuer for writing the JSON column.
func (l ExpenseLines) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]ExpenseLine(l))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal expense lines: %w", err)
	}
	return string(data), nil
}
