package session

import "errors"

// ErrPartialSession is returned by [Store.Write] when the record would
// violate the no-partial-session invariant (empty token or missing user).
var ErrPartialSession = errors.New("partial session rejected")

// SlotKey is the fixed storage slot holding the session record.
const SlotKey = "auth"

// LegacySlotKey is a duplicate bare-token slot kept for older guard
// implementations. It is written alongside [SlotKey] and both are removed
// together on Clear.
const LegacySlotKey = "token"

// Store is the durable home of the single process-wide [Session].
//
// Read reports absent (nil, false) for missing and for malformed records
// alike; it never returns an error. Write replaces any prior record whole
// and rejects partial sessions with [ErrPartialSession]. Clear removes the
// record and the legacy token slot and is idempotent.
//
// Only the login flow, user refresh, and logout paths may call Write or
// Clear; everything else reads.
type Store interface {
	Read() (*Session, bool)
	Write(token, tokenType string, user *User) error
	Clear() error
}

// Token is the convenience projection of Read().Token.
func Token(s Store) (string, bool) {
	sess, ok := s.Read()
	if !ok {
		return "", false
	}
	return sess.Token, true
}

// CurrentUser is the convenience projection of Read().User.
func CurrentUser(s Store) (*User, bool) {
	sess, ok := s.Read()
	if !ok {
		return nil, false
	}
	return sess.User, true
}

func checkWrite(token string, user *User) error {
	if token == "" || user == nil || user.ID <= 0 {
		return ErrPartialSession
	}
	return nil
}
