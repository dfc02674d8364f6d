package session

// User is the identity snapshot embedded in a [Session]. Field names follow
// the remote API's wire format ("nombre" is the display name). Roles and
// Permissions are captured at login or refresh time and are not guaranteed
// fresh relative to the server.
type User struct {
	ID          int      `json:"id"`
	Nombre      string   `json:"nombre"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// PermissionSet returns the user's permission names. Safe on a nil user;
// callers always get a usable (possibly empty) set.
func (u *User) PermissionSet() []string {
	if u == nil || u.Permissions == nil {
		return []string{}
	}
	return u.Permissions
}

// RoleSet returns the user's role names, empty when absent.
func (u *User) RoleSet() []string {
	if u == nil || u.Roles == nil {
		return []string{}
	}
	return u.Roles
}

func (u *User) clone() *User {
	if u == nil {
		return nil
	}
	out := *u
	if u.Roles != nil {
		out.Roles = append([]string(nil), u.Roles...)
	}
	if u.Permissions != nil {
		out.Permissions = append([]string(nil), u.Permissions...)
	}
	return &out
}

// Session is the persisted record of who is signed in and with what
// credential. A valid Session always carries a non-empty Token and a User
// with a positive ID; partial records are rejected at write time and treated
// as absent at read time.
type Session struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	User      *User  `json:"user"`
}

// valid reports whether the record satisfies the no-partial-session
// invariant.
func (s *Session) valid() bool {
	return s != nil && s.Token != "" && s.User != nil && s.User.ID > 0
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	return &Session{Token: s.Token, TokenType: s.TokenType, User: s.User.clone()}
}
