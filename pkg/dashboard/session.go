package dashboard

// Session identifies whose meal entries a view shows.
type Session struct {
	OwnerID       string
	Authenticated bool
}

// SessionProvider yields the session of the current caller, if any.
// Callers without one are sent to the login flow.
type SessionProvider interface {
	CurrentSession() (Session, bool)
}

func NewSession(ownerID string) Session {
	return Session{
		OwnerID:       ownerID,
		Authenticated: ownerID != "",
	}
}
