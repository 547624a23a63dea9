package services

import (
	"errors"
	"sync"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Net-Advantage/ai-showcase/rental/internal/models"
)

// Service-level errors
var (
	ErrPropertyNotFound    = errors.New("property not found")
	ErrWorkpaperNotFound   = errors.New("workpaper not found")
	ErrExpenseLineNotFound = errors.New("expense line not found")
	ErrEvidenceNotFound    = errors.New("evidence not found")
	ErrInvalidInput        = errors.New("invalid input")
)

// activityCurrency is the currency expense amounts are displayed in.
const activityCurrency = money.NZD

// Clock returns the current time. Services use it for every timestamp they write.
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

// keyedMutex serializes work per key while letting distinct keys proceed.
// Entries are dropped once no goroutine holds or waits on them.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

type refLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refLock)}
}

// Lock blocks until key is free and returns the matching unlock func.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &refLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// newActivity builds an audit entry. Empty field names and values are stored as null.
func newActivity(workpaperID string, actor models.Actor, action models.ActionType, field, oldValue, newValue string, at time.Time) *models.Activity {
	return &models.Activity{
		ID:          uuid.NewString(),
		WorkpaperID: workpaperID,
		UserID:      actor.OrDefault().UserID,
		ActionType:  action,
		FieldName:   optional(field),
		OldValue:    optional(oldValue),
		NewValue:    optional(newValue),
		Timestamp:   at,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// FormatMoney renders amount in dollars with thousands separators, e.g. "$1,234.50".
func FormatMoney(amount float64) string {
	cur := money.GetCurrency(activityCurrency)
	d := decimal.NewFromFloat(amount).Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return money.New(d.IntPart(), activityCurrency).Display()
}

// describeLine is the activity value of an expense line, e.g. "Interest: $10,000.00".
func describeLine(category models.ExpenseCategory, amount float64) string {
	return string(category) + ": " + FormatMoney(amount)
}
