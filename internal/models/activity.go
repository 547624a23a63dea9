package models

import (
	"time"
)

// ActionType names the kind of change an activity records.
type ActionType string

// Activity action types.
const (
	ActionCreated         ActionType = "Created"
	ActionStatusChange    ActionType = "StatusChange"
	ActionUpdatedInput    ActionType = "UpdatedInput"
	ActionAddedExpense    ActionType = "AddedExpense"
	ActionUpdatedExpense  ActionType = "UpdatedExpense"
	ActionRemovedExpense  ActionType = "RemovedExpense"
	ActionAddedEvidence   ActionType = "AddedEvidence"
	ActionRemovedEvidence ActionType = "RemovedEvidence"
)

// Activity is an immutable audit entry for a workpaper.
// Old and new values are stringified; nil means "no value".
type Activity struct {
	Timestamp   time.Time  `gorm:"not null;index" json:"timestamp"`
	FieldName   *string    `gorm:"size:64" json:"fieldName"`
	OldValue    *string    `gorm:"type:text" json:"oldValue"`
	NewValue    *string    `gorm:"type:text" json:"newValue"`
	ID          string     `gorm:"primaryKey;size:36" json:"activityId"`
	WorkpaperID string     `gorm:"size:36;not null;index" json:"workpaperId"`
	UserID      string     `gorm:"size:128;not null" json:"userId"`
	ActionType  ActionType `gorm:"size:32;not null" json:"actionType"`
	// Sequence numbers a workpaper's activities in append order from 1.
	Sequence int64 `gorm:"not null;default:0" json:"sequence"`
}

// TableName specifies the table name for GORM.
func (Activity) TableName() string {
	return "activities"
}
