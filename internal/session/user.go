package session

import (
	"github.com/tejashwikalptaru/gospot/internal/domain"
	"github.com/tejashwikalptaru/gospot/internal/handle"
)

// User is a service user, such as the logged in user or a playlist owner.
type User struct {
	entity

	canonicalName string
	displayName   string
}

func newUser(s *Session, h *handle.Strong) *User {
	u := &User{}
	u.init(s, h, u, u, true)
	return u
}

func (u *User) load(_ *harvest, raw domain.Handle) {
	info := u.s.native.UserInfo(raw)
	u.commitLoaded(func() {
		u.canonicalName = info.CanonicalName
		u.displayName = info.DisplayName
	})
}

func (u *User) clear() {
	u.commitCleared(func() {
		u.canonicalName = ""
		u.displayName = ""
	})
}

func (u *User) children() []Entity { return nil }

// CanonicalName returns the user name used to log in.
func (u *User) CanonicalName() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.canonicalName
}

// DisplayName returns the name shown in clients.
func (u *User) DisplayName() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.displayName
}

// Name returns the display name, or the canonical name when there is none.
func (u *User) Name() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if u.displayName != "" {
		return u.displayName
	}
	return u.canonicalName
}

// Link creates a profile link to the user.
func (u *User) Link() (*Link, error) {
	return u.s.linkFrom(&u.entity, domain.LinkOptions{})
}
