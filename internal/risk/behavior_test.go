package risk

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBehaviorStoreProfile(t *testing.T) {
	now := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	s := NewBehaviorStore()
	s.now = func() time.Time { return now }

	s.recordAt("u1", decimal.NewFromInt(100), "ES", now.Add(-30*time.Minute))
	s.recordAt("u1", decimal.NewFromInt(200), "FR", now.Add(-2*time.Hour))
	s.recordAt("u1", decimal.NewFromInt(300), "ES", now.Add(-23*time.Hour))
	// Outside the 24h window.
	s.recordAt("u1", decimal.NewFromInt(999), "JP", now.Add(-25*time.Hour))

	p := s.Profile("u1")
	assert.Equal(t, 3, p.TransactionCount24h)
	assert.Equal(t, 1, p.TransactionCount1h)
	assert.True(t, p.TotalAmount24hUSD.Equal(decimal.NewFromInt(600)))
	assert.Equal(t, 2, p.RecipientCountries24h)
	assert.Equal(t, now.Add(-30*time.Minute), p.LastTransactionAt)
}

func TestBehaviorStoreUnknownUser(t *testing.T) {
	s := NewBehaviorStore()
	p := s.Profile("nobody")
	assert.Zero(t, p.TransactionCount24h)
	assert.True(t, p.TotalAmount24hUSD.IsZero())
}

func TestBehaviorStoreEvictsExpiredUsers(t *testing.T) {
	now := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	s := NewBehaviorStore()
	s.now = func() time.Time { return now }

	s.recordAt("u1", decimal.NewFromInt(100), "ES", now.Add(-25*time.Hour))
	_ = s.Profile("u1")

	sh := s.shard("u1")
	sh.mu.Lock()
	_, ok := sh.history["u1"]
	sh.mu.Unlock()
	assert.False(t, ok, "expired user should be removed from the map")
}

func TestBehaviorStoreRetentionCap(t *testing.T) {
	now := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	s := NewBehaviorStore()
	s.now = func() time.Time { return now }

	for i := 0; i < 150; i++ {
		s.recordAt("u1", decimal.NewFromInt(1), "ES", now.Add(-time.Minute))
	}
	p := s.Profile("u1")
	assert.Equal(t, 100, p.TransactionCount24h)
}

func TestBehaviorStoreConcurrentAccess(t *testing.T) {
	s := NewBehaviorStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := fmt.Sprintf("user-%d", i%4)
			for j := 0; j < 50; j++ {
				s.Record(user, decimal.NewFromInt(10), "ES")
				_ = s.Profile(user)
			}
		}(i)
	}
	wg.Wait()

	p := s.Profile("user-0")
	assert.Equal(t, 100, p.TransactionCount24h)
}
