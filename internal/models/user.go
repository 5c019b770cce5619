package models

import "time"

// User is an account that owns list entries.
type User struct {
	ID        string     `json:"id"`
	Sequence  int        `json:"-"`
	Email     string     `json:"email" validate:"required,email"`
	Name      string     `json:"name" validate:"max=191"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"-"`
}

// NewUser creates a [User] with both timestamps set to now.
func NewUser(email, name string) *User {
	now := time.Now()
	return &User{Email: email, Name: name, CreatedAt: now, UpdatedAt: now}
}

func (u *User) Key() string { return u.ID }

// Touch refreshes UpdatedAt and fills CreatedAt when unset.
func (u *User) Touch(now time.Time) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
}

func (u *User) Validate() error { return Validate(u) }
