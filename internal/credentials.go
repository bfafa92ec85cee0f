package internal

// Credentials is the persisted session state: the four keys that live and die
// together. A zero value means "no session".
type Credentials struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	UserID       int    `json:"userId"`
	UserRole     string `json:"userRole"`
}

func (c Credentials) Empty() bool {
	return c.Token == "" && c.RefreshToken == "" && c.UserID == 0 && c.UserRole == ""
}

// CredentialStore persists at most one set of credentials. Clear must remove
// every key; partial sessions are never written.
type CredentialStore interface {
	Load() (Credentials, error)
	Save(Credentials) error
	Clear() error
}
