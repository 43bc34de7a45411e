package app

// SessionRegistry abstracts how live rooms are stored by PIN (in-memory,
// redis-marked, etc). A PIN maps to at most one live session; a code is
// reusable only after Remove.
type SessionRegistry interface {
	// Reserve stores the session under pin unless the code is already live.
	Reserve(pin string, session *Session) bool
	Get(pin string) (*Session, bool)
	// Remove deletes the room; removing an unknown pin is a no-op.
	Remove(pin string)
	// List snapshots all live sessions, in no particular order.
	List() []*Session
}
