package ports

import "context"

// Session is the ambient authentication state a call runs under. Exactly one
// of Authenticated/GuestMode is true once the state has resolved.
type Session struct {
	Authenticated bool
	GuestMode     bool
	UserID        string
	Email         string
}

// Guest is the session every unauthenticated caller runs under.
func Guest() Session {
	return Session{GuestMode: true}
}

// EffectiveUserID resolves the owner id queries run against: the real user
// id when authenticated, the local-store sentinel otherwise.
func (s Session) EffectiveUserID(guestID string) string {
	if s.Authenticated && s.UserID != "" {
		return s.UserID
	}
	return guestID
}

// SessionReader exposes the current session state. The storage router and the
// use cases receive one explicitly instead of reading global state; readings
// are synchronous and evaluated fresh on every call.
type SessionReader interface {
	// Current returns the session the given call context runs under.
	Current(ctx context.Context) Session

	// Watch emits a value whenever the session transitions (sign-in,
	// sign-out). The channel closes when ctx is cancelled. Readers backing
	// fixed, per-request sessions may return a channel that never emits.
	Watch(ctx context.Context) <-chan Session
}
