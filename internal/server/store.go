package server

import (
	"sync"
	"time"

	"github.com/nats-io/nuid"

	"co-attain/internal/model"
)

// storedResult is one processed upload held for download: the computed
// results plus the already-serialized workbook.
type storedResult struct {
	data      *model.ReportData
	excel     []byte
	createdAt time.Time
}

// ResultStore keeps processed uploads keyed by an opaque download token.
// Entries expire after the configured TTL so abandoned uploads do not pin
// memory.
type ResultStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	results map[string]*storedResult
	done    chan struct{}
}

// NewResultStore creates a store and starts its expiry sweeper.
func NewResultStore(ttl time.Duration) *ResultStore {
	s := &ResultStore{
		ttl:     ttl,
		results: make(map[string]*storedResult),
		done:    make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Put stores a result and returns its download token.
func (s *ResultStore) Put(data *model.ReportData, excel []byte) string {
	token := nuid.Next()

	s.mu.Lock()
	s.results[token] = &storedResult{
		data:      data,
		excel:     excel,
		createdAt: time.Now(),
	}
	s.mu.Unlock()

	return token
}

// Get returns the stored result for a token, or false when the token is
// unknown or expired.
func (s *ResultStore) Get(token string) (*storedResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.results[token]
	if !ok {
		return nil, false
	}
	if time.Since(res.createdAt) > s.ttl {
		delete(s.results, token)
		return nil, false
	}
	return res, true
}

// Len reports the number of live entries.
func (s *ResultStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

// Close stops the expiry sweeper.
func (s *ResultStore) Close() {
	close(s.done)
}

func (s *ResultStore) sweep() {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-s.ttl)
			s.mu.Lock()
			for token, res := range s.results {
				if res.createdAt.Before(cutoff) {
					delete(s.results, token)
				}
			}
			s.mu.Unlock()
		}
	}
}
