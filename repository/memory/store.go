// Package memory provides a mutex-guarded in-memory implementation of the
// backing-store contract, used by tests and embedders that need a fake.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/focusloop/backend/domain"
	"github.com/focusloop/backend/repository"
)

// Store keeps every entity in plain maps behind one mutex. Holding the
// mutex across AssignFocus's count-then-write gives it the same atomicity a
// store transaction would.
type Store struct {
	mu       sync.RWMutex
	users    map[string]*domain.User
	items    map[string]*domain.FocusItem
	reviews  map[string][]*domain.ReviewRecord // userID -> records
	sessions map[string][]*domain.FocusSession // userID -> sessions
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]*domain.User),
		items:    make(map[string]*domain.FocusItem),
		reviews:  make(map[string][]*domain.ReviewRecord),
		sessions: make(map[string][]*domain.FocusSession),
	}
}

// Users returns the store's UserRepository view.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Items returns the store's ItemRepository view.
func (s *Store) Items() repository.ItemRepository { return itemRepo{s} }

// Reviews returns the store's ReviewRepository view.
func (s *Store) Reviews() repository.ReviewRepository { return reviewRepo{s} }

// Sessions returns the store's SessionRepository view.
func (s *Store) Sessions() repository.SessionRepository { return sessionRepo{s} }

type userRepo struct{ s *Store }

func (r userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r userRepo) Upsert(ctx context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	clone := *user
	r.s.users[user.ID] = &clone
	return nil
}

type itemRepo struct{ s *Store }

func (r itemRepo) GetByID(ctx context.Context, userID, itemID string) (*domain.FocusItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	item, ok := r.s.items[itemID]
	if !ok || item.UserID != userID {
		return nil, domain.ErrItemNotFound
	}
	clone := *item
	return &clone, nil
}

func (r itemRepo) List(ctx context.Context, filter repository.ItemFilter) ([]domain.FocusItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []domain.FocusItem
	for _, item := range r.s.items {
		if filter.UserID != "" && item.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r itemRepo) Create(ctx context.Context, item *domain.FocusItem) (*domain.FocusItem, error) {
	if item == nil || item.UserID == "" {
		return nil, domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Status == "" {
		item.Status = domain.StatusBacklog
	}
	now := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	clone := *item
	r.s.items[item.ID] = &clone
	return item, nil
}

func (r itemRepo) AssignFocus(ctx context.Context, userID, itemID, day string, limit int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item, ok := r.s.items[itemID]
	if !ok || item.UserID != userID {
		return domain.ErrItemNotFound
	}
	if item.InFocusOn(day) {
		return nil
	}
	if countFocusedLocked(r.s, userID, day) >= limit {
		return domain.ErrSlotsExhausted
	}

	item.Status = domain.StatusFocus
	item.FocusDay = day
	item.GoalMinutes = nil
	item.UpdatedAt = time.Now()
	return nil
}

func (r itemRepo) ReleaseFocus(ctx context.Context, userID, itemID, newStatus string, completedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item, ok := r.s.items[itemID]
	if !ok || item.UserID != userID {
		return domain.ErrItemNotFound
	}

	item.Status = newStatus
	item.FocusDay = ""
	item.GoalMinutes = nil
	if newStatus == domain.StatusDone && item.CompletedAt == nil {
		at := completedAt
		item.CompletedAt = &at
	}
	item.UpdatedAt = time.Now()
	return nil
}

func (r itemRepo) CountFocused(ctx context.Context, userID, day string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return countFocusedLocked(r.s, userID, day), nil
}

func countFocusedLocked(s *Store, userID, day string) int {
	count := 0
	for _, item := range s.items {
		if item.UserID == userID && item.InFocusOn(day) {
			count++
		}
	}
	return count
}

func (r itemRepo) ListFocusedIDs(ctx context.Context, userID, day string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var ids []string
	for _, item := range r.s.items {
		if item.UserID == userID && item.InFocusOn(day) {
			ids = append(ids, item.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r itemRepo) CompletionTimes(ctx context.Context, userID string) ([]time.Time, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []time.Time
	for _, item := range r.s.items {
		if item.UserID == userID && item.CompletedAt != nil {
			out = append(out, *item.CompletedAt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

func (r itemRepo) CountCompleted(ctx context.Context, userID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for _, item := range r.s.items {
		if item.UserID == userID && item.CompletedAt != nil {
			count++
		}
	}
	return count, nil
}

type reviewRepo struct{ s *Store }

func (r reviewRepo) Create(ctx context.Context, record *domain.ReviewRecord) (*domain.ReviewRecord, error) {
	if record == nil || record.UserID == "" {
		return nil, domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	// Mirrors the unique (user, type, period_end) constraint of the SQL
	// schema.
	for _, existing := range r.s.reviews[record.UserID] {
		if existing.Type == record.Type && existing.PeriodEnd.Equal(record.PeriodEnd) {
			return nil, domain.ErrAlreadySubmitted
		}
	}
	clone := *record
	r.s.reviews[record.UserID] = append(r.s.reviews[record.UserID], &clone)
	return record, nil
}

func (r reviewRepo) Latest(ctx context.Context, userID, reviewType string) (*domain.ReviewRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var latest *domain.ReviewRecord
	for _, record := range r.s.reviews[userID] {
		if record.Type != reviewType {
			continue
		}
		if latest == nil || record.PeriodEnd.After(latest.PeriodEnd) {
			latest = record
		}
	}
	if latest == nil {
		return nil, domain.ErrReviewNotFound
	}
	clone := *latest
	return &clone, nil
}

func (r reviewRepo) ExistsInRange(ctx context.Context, userID, reviewType string, from, to time.Time) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, record := range r.s.reviews[userID] {
		if record.Type != reviewType {
			continue
		}
		if !record.PeriodEnd.Before(from) && record.PeriodEnd.Before(to) {
			return true, nil
		}
	}
	return false, nil
}

func (r reviewRepo) PeriodStarts(ctx context.Context, userID, reviewType string) ([]time.Time, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []time.Time
	for _, record := range r.s.reviews[userID] {
		if record.Type == reviewType {
			out = append(out, record.PeriodStart)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

type sessionRepo struct{ s *Store }

func (r sessionRepo) Create(ctx context.Context, session *domain.FocusSession) (*domain.FocusSession, error) {
	if session == nil || session.UserID == "" {
		return nil, domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	clone := *session
	r.s.sessions[session.UserID] = append(r.s.sessions[session.UserID], &clone)
	return session, nil
}

func (r sessionRepo) Finish(ctx context.Context, userID, sessionID string, endedAt time.Time, durationMinutes int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, session := range r.s.sessions[userID] {
		if session.ID != sessionID {
			continue
		}
		if session.EndedAt != nil {
			return nil
		}
		at := endedAt
		session.EndedAt = &at
		session.DurationMinutes = durationMinutes
		return nil
	}
	return domain.ErrSessionNotFound
}

func (r sessionRepo) CountEndedBetween(ctx context.Context, userID string, from, to time.Time) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for _, session := range r.s.sessions[userID] {
		if session.EndedAt == nil {
			continue
		}
		if !session.EndedAt.Before(from) && session.EndedAt.Before(to) {
			count++
		}
	}
	return count, nil
}

func (r sessionRepo) EndTimes(ctx context.Context, userID string) ([]time.Time, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []time.Time
	for _, session := range r.s.sessions[userID] {
		if session.EndedAt != nil {
			out = append(out, *session.EndedAt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

func (r sessionRepo) TotalMinutes(ctx context.Context, userID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	total := 0
	for _, session := range r.s.sessions[userID] {
		if session.EndedAt != nil {
			total += session.DurationMinutes
		}
	}
	return total, nil
}
