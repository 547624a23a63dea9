package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Net-Advantage/ai-showcase/rental/internal/models"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{amount: 0, want: "$0.00"},
		{amount: 10000, want: "$10,000.00"},
		{amount: 1234.5, want: "$1,234.50"},
		{amount: 0.125, want: "$0.13"},
		{amount: 1234567.89, want: "$1,234,567.89"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(tt.amount))
		})
	}
}

func TestDescribeLine(t *testing.T) {
	assert.Equal(t, "Interest: $10,000.00", describeLine(models.CategoryInterest, 10000))
}

func TestNewActivity_EmptyValuesAreNull(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	a := newActivity("wp", models.Actor{}, models.ActionCreated, "status", "", "NotStarted", at)

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, models.DefaultActor.UserID, a.UserID)
	assert.Nil(t, a.OldValue)
	assert.Equal(t, "NotStarted", *a.NewValue)
	assert.Equal(t, "status", *a.FieldName)
	assert.Equal(t, at, a.Timestamp)
}

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	k := newKeyedMutex()
	var (
		wg      sync.WaitGroup
		running int
		maxSeen int
		mu      sync.Mutex
	)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock("wp")
			defer unlock()

			mu.Lock()
			running++
			if running > maxSeen {
				maxSeen = running
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			running--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Empty(t, k.locks, "idle keys should be released")
}

func TestKeyedMutex_DistinctKeysDoNotBlock(t *testing.T) {
	k := newKeyedMutex()
	unlockA := k.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := k.Lock("b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a distinct key blocked")
	}
}
