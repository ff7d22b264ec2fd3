package domain

import "time"

// Status is the verification state of an account: either Pending or Verified.
type Status interface {
	status()
}

// Pending accounts carry the only code that can verify them.
type Pending struct {
	Code      string
	ExpiresAt time.Time
}

// Verified is terminal.
type Verified struct {
	At time.Time
}

func (Pending) status()  {}
func (Verified) status() {}

// Expired reports whether the code is no longer usable at now.
func (p Pending) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

type Profile struct {
	FirstName string
	LastName  string
	Bio       string
	Picture   string
	Interests []string
}

type Account struct {
	ID           uint
	Username     string
	Email        string
	PasswordHash string
	Status       Status
	Profile      Profile
	CreatedAt    time.Time
}

func (a *Account) IsVerified() bool {
	_, ok := a.Status.(Verified)
	return ok
}

// PendingCode returns the outstanding verification code, if any.
func (a *Account) PendingCode() (Pending, bool) {
	p, ok := a.Status.(Pending)
	return p, ok
}
