package auth

// Viewer is who the current session belongs to, resolved once by the Manager
// and passed down to anything that gates rendering or commands on role.
type Viewer int

const (
	Anonymous Viewer = iota
	StandardUser
	Admin
)

func (v Viewer) String() string {
	switch v {
	case StandardUser:
		return "user"
	case Admin:
		return "admin"
	default:
		return "anonymous"
	}
}
