package editor

// Role is the editor role carried by a session. Authorization is flat: admin
// holds every capability, viewer holds none.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

// Permissions are the derived capability booleans handed to services. They
// are computed from the role, never stored.
type Permissions struct {
	CanCreate  bool `json:"canCreate"`
	CanEdit    bool `json:"canEdit"`
	CanReview  bool `json:"canReview"`
	CanPublish bool `json:"canPublish"`
	CanDelete  bool `json:"canDelete"`
}

// Session identifies the acting user for editor operations.
type Session struct {
	UserID      string      `json:"userId"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        Role        `json:"role"`
	Permissions Permissions `json:"permissions"`
}

// NewSession builds a session with capabilities derived from the role.
func NewSession(userID, name, email string, role Role) Session {
	if role != RoleAdmin {
		role = RoleViewer
	}
	admin := role == RoleAdmin
	return Session{
		UserID: userID,
		Name:   name,
		Email:  email,
		Role:   role,
		Permissions: Permissions{
			CanCreate:  admin,
			CanEdit:    admin,
			CanReview:  admin,
			CanPublish: admin,
			CanDelete:  admin,
		},
	}
}

// IsAdmin reports whether the session holds the admin role.
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }
