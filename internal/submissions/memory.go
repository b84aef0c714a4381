package submissions

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/JaimeStill/landmark/pkg/pagination"
)

// MemoryStore is an in-process Store. Transition holds the write lock across
// the status check and the update, giving the same precondition semantics as
// the database store.
type MemoryStore struct {
	mu          sync.RWMutex
	submissions map[uuid.UUID]Submission
}

// NewMemoryStore creates a store seeded with the given submissions.
func NewMemoryStore(seed ...Submission) *MemoryStore {
	m := &MemoryStore{submissions: make(map[uuid.UUID]Submission, len(seed))}
	for _, s := range seed {
		m.submissions[s.ID] = s
	}
	return m
}

func (m *MemoryStore) Create(ctx context.Context, s Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.submissions[s.ID] = s
	return nil
}

func (m *MemoryStore) Find(ctx context.Context, id uuid.UUID) (Submission, error) {
	if err := ctx.Err(); err != nil {
		return Submission{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.submissions[id]
	if !ok {
		return Submission{}, ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) Transition(ctx context.Context, id uuid.UUID, r Review) (Submission, error) {
	if err := ctx.Err(); err != nil {
		return Submission{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.submissions[id]
	if !ok {
		return Submission{}, ErrNotFound
	}

	next, err := current.Apply(r)
	if err != nil {
		return Submission{}, err
	}

	m.submissions[id] = next
	return next, nil
}

func (m *MemoryStore) List(
	ctx context.Context,
	filters Filters,
	page pagination.PageRequest,
) (*pagination.PageResult[Submission], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	items := make([]Submission, 0, len(m.submissions))
	for _, s := range m.submissions {
		if filters.Match(s, page.Search) {
			items = append(items, s)
		}
	}
	m.mu.RUnlock()

	slices.SortFunc(items, func(a, b Submission) int {
		if c := b.SubmittedAt.Compare(a.SubmittedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID.String(), a.ID.String())
	})

	result := pagination.Slice(items, page)
	return &result, nil
}
