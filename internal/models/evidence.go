package models

import (
	"time"
)

// Evidence is the metadata of a supporting document attached to a workpaper.
// Expense lines cite evidence by ID; the reference is weak, so a cited ID may
// point at evidence that has since been removed.
type Evidence struct {
	UploadedAt  time.Time `gorm:"column:uploaded_at" json:"uploadedAt"`
	ID          string    `gorm:"primaryKey;size:36" json:"evidenceId"`
	WorkpaperID string    `gorm:"size:36;not null;index" json:"workpaperId"`
	FileName    string    `gorm:"size:255;not null" json:"fileName"`
	ContentType string    `gorm:"size:128" json:"contentType"`
	UploadedBy  string    `gorm:"size:128" json:"uploadedBy"`
	SizeBytes   int64     `gorm:"not null;default:0" json:"sizeBytes"`
}

// TableName specifies the table name for GORM.
func (Evidence) TableName() string {
	return "evidence"
}
