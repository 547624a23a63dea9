package models

import (
	"time"
)

// Settings is the process-wide calculation configuration.
type Settings struct {
	TaxYear                   string  `json:"taxYear"`
	InterestDeductibilityRate float64 `json:"interestDeductibilityRate"`
}

// SettingsOverride holds stored values that take precedence over defaults.
// A nil field means "use the default". Only one row (ID 1) is ever used.
type SettingsOverride struct {
	UpdatedAt                 time.Time `gorm:"column:updated_at" json:"updatedAt"`
	TaxYear                   *string   `gorm:"size:16" json:"taxYear,omitempty"`
	InterestDeductibilityRate *float64  `json:"interestDeductibilityRate,omitempty"`
	ID                        uint      `gorm:"primaryKey" json:"-"`
}

// TableName specifies the table name for GORM.
func (SettingsOverride) TableName() string {
	return "settings"
}

// Merge returns s with every non-nil field of o applied over it.
func (s Settings) Merge(o *SettingsOverride) Settings {
	if o == nil {
		return s
	}
	if o.TaxYear != nil && *o.TaxYear != "" {
		s.TaxYear = *o.TaxYear
	}
	if o.InterestDeductibilityRate != nil {
		s.InterestDeductibilityRate = *o.InterestDeductibilityRate
	}
	return s
}
