package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"compass/internal/domain"
	"compass/internal/repository"
)

type mockFamilyRepo struct {
	mu       sync.Mutex
	byID     map[string]domain.Family
	getErr   error
	createFn func(domain.Family) error
}

func newMockFamilyRepo(families ...domain.Family) *mockFamilyRepo {
	m := &mockFamilyRepo{byID: make(map[string]domain.Family)}
	for _, f := range families {
		m.byID[f.ID] = f
	}
	return m
}

func (m *mockFamilyRepo) Create(_ context.Context, family domain.Family) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createFn != nil {
		if err := m.createFn(family); err != nil {
			return err
		}
	}
	for _, f := range m.byID {
		if f.OwnerID == family.OwnerID {
			return repository.ErrDuplicate
		}
	}
	m.byID[family.ID] = family
	return nil
}

func (m *mockFamilyRepo) GetByID(_ context.Context, id string) (domain.Family, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return domain.Family{}, m.getErr
	}
	f, ok := m.byID[id]
	if !ok {
		return domain.Family{}, pgx.ErrNoRows
	}
	return f, nil
}

func (m *mockFamilyRepo) GetByOwnerID(_ context.Context, ownerID string) (domain.Family, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return domain.Family{}, m.getErr
	}
	for _, f := range m.byID {
		if f.OwnerID == ownerID {
			return f, nil
		}
	}
	return domain.Family{}, pgx.ErrNoRows
}

func (m *mockFamilyRepo) Update(_ context.Context, family domain.Family) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[family.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.byID[family.ID] = family
	return nil
}

func (m *mockFamilyRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.byID, id)
	return nil
}

type mockChildRepo struct {
	mu      sync.Mutex
	byID    map[string]domain.ChildProfile
	deleted map[string]time.Time
}

func newMockChildRepo(children ...domain.ChildProfile) *mockChildRepo {
	m := &mockChildRepo{byID: make(map[string]domain.ChildProfile), deleted: make(map[string]time.Time)}
	for _, c := range children {
		m.byID[c.ID] = c
	}
	return m
}

func (m *mockChildRepo) Create(_ context.Context, child domain.ChildProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[child.ID] = child
	return nil
}

func (m *mockChildRepo) GetByID(_ context.Context, id string) (domain.ChildProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if _, gone := m.deleted[id]; !ok || gone {
		return domain.ChildProfile{}, pgx.ErrNoRows
	}
	return c, nil
}

func (m *mockChildRepo) ListByFamily(_ context.Context, familyID string) ([]domain.ChildProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ChildProfile
	for id, c := range m.byID {
		if _, gone := m.deleted[id]; c.FamilyID == familyID && !gone {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockChildRepo) Update(_ context.Context, child domain.ChildProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[child.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.byID[child.ID] = child
	return nil
}

func (m *mockChildRepo) SoftDelete(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byID[id]
	if _, gone := m.deleted[id]; !ok || gone {
		return pgx.ErrNoRows
	}
	m.deleted[id] = at
	return nil
}

type mockActivityRepo struct {
	activities []domain.Activity
	err        error
	lastAge    int
	lastLimit  int
	lastFilter repository.ActivityFilter
	// block, si no es nil, detiene ListCandidates hasta que se cierre.
	block   chan struct{}
	entered chan struct{}
}

func (m *mockActivityRepo) ListCandidates(ctx context.Context, age, limit int) ([]domain.Activity, error) {
	m.lastAge = age
	m.lastLimit = limit
	if m.entered != nil {
		m.entered <- struct{}{}
	}
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.Activity, len(m.activities))
	copy(out, m.activities)
	return out, nil
}

func (m *mockActivityRepo) Create(_ context.Context, activity domain.Activity) error {
	m.activities = append(m.activities, activity)
	return nil
}

func (m *mockActivityRepo) List(_ context.Context, filter repository.ActivityFilter) ([]domain.Activity, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Activity
	for _, a := range m.activities {
		if a.IsActive != filter.IsActive {
			continue
		}
		if filter.ActivityType != "" && a.ActivityType != filter.ActivityType {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *mockActivityRepo) GetByID(_ context.Context, id string) (domain.Activity, error) {
	if m.err != nil {
		return domain.Activity{}, m.err
	}
	for _, a := range m.activities {
		if a.ID == id {
			return a, nil
		}
	}
	return domain.Activity{}, pgx.ErrNoRows
}

type mockRecommendationRepo struct {
	mu         sync.Mutex
	byChild    map[string][]domain.Recommendation
	replaceErr error
	replaces   int
}

func newMockRecommendationRepo() *mockRecommendationRepo {
	return &mockRecommendationRepo{byChild: make(map[string][]domain.Recommendation)}
}

func (m *mockRecommendationRepo) ReplaceForChild(_ context.Context, childID string, recs []domain.Recommendation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replaces++
	m.byChild[childID] = append([]domain.Recommendation(nil), recs...)
	return nil
}

func (m *mockRecommendationRepo) ListByChild(_ context.Context, familyID, childID string) ([]domain.Recommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Recommendation
	for _, r := range m.byChild[childID] {
		if r.FamilyID == familyID {
			out = append(out, r)
		}
	}
	return out, nil
}

type stubLimiter struct{ allow bool }

func (s stubLimiter) Allow(string) bool { return s.allow }

type failingLock struct{ err error }

func (f failingLock) Acquire(context.Context, string) (func(), error) { return nil, f.err }

// countingLock delega en el lock en memoria y registra que ninos se intentaron bloquear.
type countingLock struct {
	mu       sync.Mutex
	inner    GenerationLock
	acquired []string
}

func newCountingLock() *countingLock {
	return &countingLock{inner: NewMemoryGenerationLock()}
}

func (l *countingLock) Acquire(ctx context.Context, childID string) (func(), error) {
	l.mu.Lock()
	l.acquired = append(l.acquired, childID)
	l.mu.Unlock()
	return l.inner.Acquire(ctx, childID)
}
