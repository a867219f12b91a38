package auth

// Kind distinguishes which identity store a principal was resolved from.
type Kind string

const (
	KindEndUser   Kind = "user"
	KindOrganizer Kind = "organizer"
	KindAnonymous Kind = "anonymous"
)

// Role is the authorization fact attached to a principal. End users carry
// "user" or "admin" verbatim from their stored record; organizers are always
// "organizer" and never administrators.
type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleOrganizer Role = "organizer"
)

// Principal is the typed, resolved identity attached to a request after the
// gate ran. Request-scoped, never persisted.
type Principal struct {
	ID    string
	Kind  Kind
	Role  Role
	Name  string
	Email string
}

// Anonymous is the principal attached by OptionalAuth when no credential is
// present or the subject no longer resolves.
func Anonymous() Principal {
	return Principal{Kind: KindAnonymous}
}

func (p Principal) IsAnonymous() bool {
	return p.Kind == KindAnonymous || p.Kind == ""
}

func (p Principal) IsEndUser() bool {
	return p.Kind == KindEndUser
}

func (p Principal) IsOrganizer() bool {
	return p.Kind == KindOrganizer
}

func (p Principal) IsAdmin() bool {
	return p.Kind == KindEndUser && p.Role == RoleAdmin
}
