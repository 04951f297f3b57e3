package risk

import (
	"hash/fnv"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// BehaviorProfile is an immutable snapshot of a user's recent transfer
// activity. Reads against a snapshot need no synchronization.
type BehaviorProfile struct {
	TransactionCount24h   int             `json:"transaction_count_24h"`
	TransactionCount1h    int             `json:"transaction_count_1h"`
	TotalAmount24hUSD     decimal.Decimal `json:"total_amount_24h_usd"`
	RecipientCountries24h int             `json:"recipient_countries_24h"`
	LastTransactionAt     time.Time       `json:"last_transaction_at"`
}

type behaviorEntry struct {
	amountUSD        decimal.Decimal
	recipientCountry string
	at               time.Time
}

const behaviorShardCount = 64

// behaviorShard holds the histories of the users hashing into it. Users in
// different shards never contend.
type behaviorShard struct {
	mu      sync.Mutex
	history map[string][]behaviorEntry
}

// BehaviorStore keeps a rolling window of completed transactions per user.
// Entries older than 24 hours are evicted lazily on read; at most
// maxPerUser entries are retained per user.
type BehaviorStore struct {
	shards [behaviorShardCount]behaviorShard

	maxPerUser int
	window     time.Duration
	now        func() time.Time
}

// NewBehaviorStore returns an empty store with a 24h window and the
// historical 100-entry retention cap.
func NewBehaviorStore() *BehaviorStore {
	s := &BehaviorStore{
		maxPerUser: 100,
		window:     24 * time.Hour,
		now:        time.Now,
	}
	for i := range s.shards {
		s.shards[i].history = make(map[string][]behaviorEntry)
	}
	return s
}

func (s *BehaviorStore) shard(userID string) *behaviorShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return &s.shards[h.Sum32()%behaviorShardCount]
}

// Record appends a completed transaction to the user's window.
func (s *BehaviorStore) Record(userID string, amountUSD decimal.Decimal, recipientCountry string) {
	s.recordAt(userID, amountUSD, recipientCountry, s.now())
}

func (s *BehaviorStore) recordAt(userID string, amountUSD decimal.Decimal, recipientCountry string, at time.Time) {
	sh := s.shard(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	entries := append(sh.history[userID], behaviorEntry{
		amountUSD:        amountUSD,
		recipientCountry: recipientCountry,
		at:               at,
	})
	if len(entries) > s.maxPerUser {
		entries = entries[len(entries)-s.maxPerUser:]
	}
	sh.history[userID] = entries
}

// Profile evicts expired entries and returns a snapshot of the user's
// rolling window. Unknown users get a zero profile.
func (s *BehaviorStore) Profile(userID string) BehaviorProfile {
	now := s.now()
	cutoff24 := now.Add(-s.window)
	cutoff1 := now.Add(-time.Hour)

	sh := s.shard(userID)
	sh.mu.Lock()
	entries := sh.history[userID]
	kept := entries[:0]
	for _, e := range entries {
		if e.at.After(cutoff24) {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		delete(sh.history, userID)
	} else {
		sh.history[userID] = kept
	}
	snapshot := make([]behaviorEntry, len(kept))
	copy(snapshot, kept)
	sh.mu.Unlock()

	profile := BehaviorProfile{TotalAmount24hUSD: decimal.Zero}
	countries := make(map[string]struct{})
	for _, e := range snapshot {
		profile.TransactionCount24h++
		profile.TotalAmount24hUSD = profile.TotalAmount24hUSD.Add(e.amountUSD)
		if e.recipientCountry != "" {
			countries[e.recipientCountry] = struct{}{}
		}
		if e.at.After(cutoff1) {
			profile.TransactionCount1h++
		}
		if e.at.After(profile.LastTransactionAt) {
			profile.LastTransactionAt = e.at
		}
	}
	profile.RecipientCountries24h = len(countries)
	return profile
}
