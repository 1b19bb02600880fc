package model

import "sync"

// Store maps canonical page URLs to their records. It is the single source
// of deduplication truth for one crawl run: a URL appears at most once, and
// the crawl engine never dispatches a candidate already present here.
//
// Design decision: The store carries its own mutex rather than relying on
// external synchronization because:
//  1. Workers in the same batch write their own unique keys concurrently
//  2. Link extraction reads the store while sibling workers are writing
//  3. Keeping locking inside the type makes misuse impossible for callers
type Store struct {
	mu    sync.RWMutex
	pages map[string]*PageRecord
	order []string
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		pages: make(map[string]*PageRecord),
		order: make([]string, 0),
	}
}

// Add inserts a record under the given canonical URL. The first record for
// a URL wins; a second Add for the same URL is ignored so that first-discovery
// semantics hold even under a batch-internal race.
func (s *Store) Add(url string, record *PageRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.pages[url]; exists {
		return
	}
	s.pages[url] = record
	s.order = append(s.order, url)
}

// Has reports whether a record exists for the given canonical URL.
func (s *Store) Has(url string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.pages[url]
	return ok
}

// Get returns the record for the given canonical URL, or nil.
func (s *Store) Get(url string) *PageRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pages[url]
}

// Len returns the number of records in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pages)
}

// URLs returns all record URLs in insertion order.
func (s *Store) URLs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	urls := make([]string, len(s.order))
	copy(urls, s.order)
	return urls
}

// Records returns all records in insertion order.
func (s *Store) Records() []*PageRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]*PageRecord, 0, len(s.order))
	for _, url := range s.order {
		records = append(records, s.pages[url])
	}
	return records
}

// Snapshot returns a copy of the URL-to-record mapping. The records
// themselves are shared; callers must not mutate them after the crawl.
func (s *Store) Snapshot() map[string]*PageRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make(map[string]*PageRecord, len(s.pages))
	for url, record := range s.pages {
		snapshot[url] = record
	}
	return snapshot
}
