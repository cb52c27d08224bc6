package search

import (
	"context"
	"errors"
	"strings"
	"sync"

	"hema-storefront/internal/model"
)

// ErrStale is returned when a response arrives after a newer query was started.
var ErrStale = errors.New("search: stale response")

// Snapshot is the accumulated state of a paginated search.
type Snapshot struct {
	Query    string                `json:"query"`
	Products []model.ScoredProduct `json:"products"`
	MaxScore float64               `json:"maxScore"`
	HasMore  bool                  `json:"hasMore"`
}

// Session paginates one query at a time. Pages are merged by product id with the
// latest occurrence replacing earlier ones. Starting a new query invalidates any
// response still in flight for the previous one.
type Session struct {
	searcher Searcher
	pageSize int

	mu        sync.Mutex
	token     uint64
	query     string
	embedding []float32
	products  []model.ScoredProduct
	index     map[string]int
	fetched   int
	maxScore  float64
	hasMore   bool
	loading   bool
}

func NewSession(searcher Searcher, pageSize int) *Session {
	if pageSize <= 0 {
		pageSize = 15
	}
	return &Session{
		searcher: searcher,
		pageSize: pageSize,
		index:    map[string]int{},
	}
}

// Start replaces the current query and fetches its first page.
func (s *Session) Start(ctx context.Context, query string) (Snapshot, error) {
	query = strings.TrimSpace(query)

	s.mu.Lock()
	s.token++
	token := s.token
	s.reset(query)
	if query == "" {
		snap := s.snapshot()
		s.mu.Unlock()
		return snap, nil
	}
	s.loading = true
	s.mu.Unlock()

	result, err := s.searcher.Search(ctx, query, s.pageSize, 0, nil)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.token {
		return Snapshot{}, ErrStale
	}
	s.loading = false
	if err != nil {
		return s.snapshot(), err
	}

	s.embedding = result.Embedding
	s.maxScore = result.MaxScore
	s.merge(result.Products)
	return s.snapshot(), nil
}

// NextPage appends the following page of the current query. It is a no-op while
// another page is loading or when the previous page came back short.
func (s *Session) NextPage(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	if s.query == "" || !s.hasMore || s.loading {
		snap := s.snapshot()
		s.mu.Unlock()
		return snap, nil
	}
	token := s.token
	query, offset, embedding := s.query, s.fetched, s.embedding
	s.loading = true
	s.mu.Unlock()

	result, err := s.searcher.Search(ctx, query, s.pageSize, offset, embedding)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.token {
		return Snapshot{}, ErrStale
	}
	s.loading = false
	if err != nil {
		return s.snapshot(), err
	}

	if len(s.embedding) == 0 {
		s.embedding = result.Embedding
	}
	s.merge(result.Products)
	return s.snapshot(), nil
}

// Snapshot returns the current state without fetching.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) reset(query string) {
	s.query = query
	s.embedding = nil
	s.products = nil
	s.index = map[string]int{}
	s.fetched = 0
	s.maxScore = 0
	s.hasMore = false
	s.loading = false
}

func (s *Session) merge(page []model.ScoredProduct) {
	for _, p := range page {
		if i, ok := s.index[p.Id]; ok {
			s.products[i] = p
			continue
		}
		s.index[p.Id] = len(s.products)
		s.products = append(s.products, p)
	}
	s.fetched += len(page)
	s.hasMore = len(page) >= s.pageSize
}

func (s *Session) snapshot() Snapshot {
	products := make([]model.ScoredProduct, len(s.products))
	copy(products, s.products)
	return Snapshot{
		Query:    s.query,
		Products: products,
		MaxScore: s.maxScore,
		HasMore:  s.hasMore,
	}
}
