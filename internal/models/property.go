package models

import (
	"time"
)

// Property is a rental asset held by the filer.
// OwnershipPercentage is the fractional interest held, between 0 and 1.
// Nullable dates use pointers to distinguish unset from the zero time.
type Property struct {
	CreatedAt           time.Time  `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt           time.Time  `gorm:"column:updated_at" json:"updatedAt"`
	AcquisitionDate     *time.Time `gorm:"column:acquisition_date" json:"acquisitionDate"`
	DisposalDate        *time.Time `gorm:"column:disposal_date" json:"disposalDate"`
	ID                  string     `gorm:"primaryKey;size:36" json:"propertyId"`
	DisplayName         string     `gorm:"size:255" json:"displayName"`
	AddressLine1        string     `gorm:"column:address_line1;size:500" json:"addressLine1"`
	City                string     `gorm:"size:255" json:"city"`
	PropertyType        string     `gorm:"size:64" json:"propertyType"`
	OwnershipPercentage float64    `gorm:"not null" json:"ownershipPercentage"`
	IsMainHome          bool       `gorm:"not null;default:false" json:"isMainHome"`
	IsNewBuild          bool       `gorm:"not null;default:false" json:"isNewBuild"`
	IsActive            bool       `gorm:"not null;index" json:"isActive"`
}

// TableName specifies the table name for GORM.
func (Property) TableName() string {
	return "properties"
}
