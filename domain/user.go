package domain

import "time"

// User represents an account whose calendar-day math is always evaluated in
// its own IANA timezone. Timezone is mutable and must be re-read on every
// call; nothing in the core may cache it.
type User struct {
	ID        string    `json:"id"`
	Timezone  string    `json:"timezone"`
	AnchorAt  time.Time `json:"anchor_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasAnchor reports whether onboarding completed and the weekly-review seed
// instant is available.
func (u *User) HasAnchor() bool {
	return u != nil && !u.AnchorAt.IsZero()
}
