package bolt

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	bboltdb "go.etcd.io/bbolt"

	"github.com/focusloop/backend/domain"
	"github.com/focusloop/backend/repository"
)

type userRepo struct{ s *Store }

func (r userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user *domain.User
	err := r.s.db.View(func(tx *bboltdb.Tx) error {
		raw := tx.Bucket(bucketUsers).Get([]byte(id))
		if raw == nil {
			return domain.ErrUserNotFound
		}
		user = &domain.User{}
		return jsonUnmarshal(raw, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r userRepo) Upsert(ctx context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return domain.ErrInvalidPayload
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	return r.s.db.Update(func(tx *bboltdb.Tx) error {
		return put(tx.Bucket(bucketUsers), []byte(user.ID), user)
	})
}

type itemRepo struct{ s *Store }

func (r itemRepo) GetByID(ctx context.Context, userID, itemID string) (*domain.FocusItem, error) {
	var item *domain.FocusItem
	err := r.s.db.View(func(tx *bboltdb.Tx) error {
		raw := tx.Bucket(bucketItems).Get(itemKey(userID, itemID))
		if raw == nil {
			return domain.ErrItemNotFound
		}
		item = &domain.FocusItem{}
		return jsonUnmarshal(raw, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r itemRepo) List(ctx context.Context, filter repository.ItemFilter) ([]domain.FocusItem, error) {
	var out []domain.FocusItem
	err := r.s.db.View(func(tx *bboltdb.Tx) error {
		prefix := userPrefix(filter.UserID)
		if filter.UserID == "" {
			prefix = []byte{}
		}
		return forEachPrefix(tx.Bucket(bucketItems), prefix, func(item *domain.FocusItem) error {
			if filter.Status != "" && item.Status != filter.Status {
				return nil
			}
			out = append(out, *item)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r itemRepo) Create(ctx context.Context, item *domain.FocusItem) (*domain.FocusItem, error) {
	if item == nil || item.UserID == "" {
		return nil, domain.ErrInvalidPayload
	}
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
	if err := r.s.db.Update(func(tx *bboltdb.Tx) error {
		return put(tx.Bucket(bucketItems), itemKey(item.UserID, item.ID), item)
	}); err != nil {
		return nil, err
	}
	return item, nil
}

func (r itemRepo) AssignFocus(ctx context.Context, userID, itemID, day string, limit int) error {
	return r.s.db.Update(func(tx *bboltdb.Tx) error {
		items := tx.Bucket(bucketItems)
		raw := items.Get(itemKey(userID, itemID))
		if raw == nil {
			return domain.ErrItemNotFound
		}
		var item domain.FocusItem
		if err := jsonUnmarshal(raw, &item); err != nil {
			return err
		}
		if item.InFocusOn(day) {
			return nil
		}

		count := 0
		err := forEachPrefix(items, userPrefix(userID), func(other *domain.FocusItem) error {
			if other.InFocusOn(day) {
				count++
			}
			return nil
		})
		if err != nil {
			return err
		}
		if count >= limit {
			return domain.ErrSlotsExhausted
		}

		item.Status = domain.StatusFocus
		item.FocusDay = day
		item.GoalMinutes = nil
		item.UpdatedAt = time.Now()
		return put(items, itemKey(userID, itemID), &item)
	})
}

func (r itemRepo) ReleaseFocus(ctx context.Context, userID, itemID, newStatus string, completedAt time.Time) error {
	return r.s.db.Update(func(tx *bboltdb.Tx) error {
		items := tx.Bucket(bucketItems)
		raw := items.Get(itemKey(userID, itemID))
		if raw == nil {
			return domain.ErrItemNotFound
		}
		var item domain.FocusItem
		if err := jsonUnmarshal(raw, &item); err != nil {
			return err
		}

		item.Status = newStatus
		item.FocusDay = ""
		item.GoalMinutes = nil
		if newStatus == domain.StatusDone && item.CompletedAt == nil {
			at := completedAt
			item.CompletedAt = &at
		}
		item.UpdatedAt = time.Now()
		return put(items, itemKey(userID, itemID), &item)
	})
}

func (r itemRepo) CountFocused(ctx context.Context, userID, day string) (int, error) {
	count := 0
	err := r.s.db.View(func(tx *bboltdb.Tx) error {
		return forEachPrefix(tx.Bucket(bucketItems), userPrefix(userID), func(item *domain.FocusItem) error {
			if item.InFocusOn(day) {
				count++
			}
			return nil
		})
	})
	return count, err
}

func (r itemRepo) ListFocusedIDs(ctx context.Context, userID, day string) ([]string, error) {
	var ids []string
	err := r.s.db.View(func(tx *bboltdb.Tx) error {
		return forEachPrefix(tx.Bucket(bucketItems), userPrefix(userID), func(item *domain.FocusItem) error {
			if item.InFocusOn(day) {
				ids = append(ids, item.ID)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

func (r itemRepo) CompletionTimes(ctx context.Context, userID string) ([]time.Time, error) {
	var out []time.Time
	err := r.s.db.View(func(tx *bboltdb.Tx) error {
		return forEachPrefix(tx.Bucket(bucketItems), userPrefix(userID), func(item *domain.FocusItem) error {
			if item.CompletedAt != nil {
				out = append(out, *item.CompletedAt)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

func (r itemRepo) CountCompleted(ctx context.Context, userID string) (int, error) {
	count := 0
	err := r.s.db.View(func(tx *bboltdb.Tx) error {
		return forEachPrefix(tx.Bucket(bucketItems), userPrefix(userID), func(item *domain.FocusItem) error {
			if item.CompletedAt != nil {
				count++
			}
			return nil
		})
	})
	return count, err
}

type reviewRepo struct{ s *Store }

func (r reviewRepo) Create(ctx context.Context, record *domain.ReviewRecord) (*domain.ReviewRecord, error) {
	if record == nil || record.UserID == "" || !domain.ValidReviewType(record.Type) {
		return nil, domain.ErrInvalidPayload
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	err := r.s.db.Update(func(tx *bboltdb.Tx) error {
		reviews := tx.Bucket(bucketReviews)
		key := reviewKey(record.UserID, record.Type, record.PeriodEnd)
		if reviews.Get(key) != nil {
			return domain.ErrAlreadySubmitted
		}
		return put(reviews, key, record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r reviewRepo) Latest(ctx context.Context, userID, reviewType string) (*domain.ReviewRecord, error) {
	var latest *domain.ReviewRecord
	err := r.s.db.View(func(tx *bboltdb.Tx) error {
		return forEachPrefix(tx.Bucket(bucketReviews), reviewPrefix(userID, reviewType), func(record *domain.ReviewRecord) error {
			if latest == nil || record.PeriodEnd.After(latest.PeriodEnd) {
				clone := *record
				latest = &clone
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, domain.ErrReviewNotFound
	}
	return latest, nil
}

func (r reviewRepo) ExistsInRange(ctx context.Context, userID, reviewType string, from, to time.Time) (bool, error) {
	exists := false
	err := r.s.db.View(func(tx *bboltdb.Tx) error {
		return forEachPrefix(tx.Bucket(bucketReviews), reviewPrefix(userID, reviewType), func(record *domain.ReviewRecord) error {
			if !record.PeriodEnd.Before(from) && record.PeriodEnd.Before(to) {
				exists = true
			}
			return nil
		})
	})
	return exists, err
}

func (r reviewRepo) PeriodStarts(ctx context.Context, userID, reviewType string) ([]time.Time, error) {
	var out []time.Time
	err := r.s.db.View(func(tx *bboltdb.Tx) error {
		return forEachPrefix(tx.Bucket(bucketReviews), reviewPrefix(userID, reviewType), func(record *domain.ReviewRecord) error {
			out = append(out, record.PeriodStart)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

type sessionRepo struct{ s *Store }

func (r sessionRepo) Create(ctx context.Context, session *domain.FocusSession) (*domain.FocusSession, error) {
	if session == nil || session.UserID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if err := r.s.db.Update(func(tx *bboltdb.Tx) error {
		return put(tx.Bucket(bucketSessions), sessionKey(session.UserID, session.ID), session)
	}); err != nil {
		return nil, err
	}
	return session, nil
}

func (r sessionRepo) Finish(ctx context.Context, userID, sessionID string, endedAt time.Time, durationMinutes int) error {
	return r.s.db.Update(func(tx *bboltdb.Tx) error {
		sessions := tx.Bucket(bucketSessions)
		raw := sessions.Get(sessionKey(userID, sessionID))
		if raw == nil {
			return domain.ErrSessionNotFound
		}
		var session domain.FocusSession
		if err := jsonUnmarshal(raw, &session); err != nil {
			return err
		}
		if session.EndedAt != nil {
			return nil
		}
		at := endedAt
		session.EndedAt = &at
		session.DurationMinutes = durationMinutes
		return put(sessions, sessionKey(userID, sessionID), &session)
	})
}

func (r sessionRepo) CountEndedBetween(ctx context.Context, userID string, from, to time.Time) (int, error) {
	count := 0
	err := r.s.db.View(func(tx *bboltdb.Tx) error {
		return forEachPrefix(tx.Bucket(bucketSessions), userPrefix(userID), func(session *domain.FocusSession) error {
			if session.EndedAt != nil && !session.EndedAt.Before(from) && session.EndedAt.Before(to) {
				count++
			}
			return nil
		})
	})
	return count, err
}

func (r sessionRepo) EndTimes(ctx context.Context, userID string) ([]time.Time, error) {
	var out []time.Time
	err := r.s.db.View(func(tx *bboltdb.Tx) error {
		return forEachPrefix(tx.Bucket(bucketSessions), userPrefix(userID), func(session *domain.FocusSession) error {
			if session.EndedAt != nil {
				out = append(out, *session.EndedAt)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

func (r sessionRepo) TotalMinutes(ctx context.Context, userID string) (int, error) {
	total := 0
	err := r.s.db.View(func(tx *bboltdb.Tx) error {
		return forEachPrefix(tx.Bucket(bucketSessions), userPrefix(userID), func(session *domain.FocusSession) error {
			if session.EndedAt != nil {
				total += session.DurationMinutes
			}
			return nil
		})
	})
	return total, err
}
