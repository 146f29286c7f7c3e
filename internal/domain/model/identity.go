package model

// Identity is a user identity as reported by the remote service.
type Identity struct {
	ID          string
	DisplayName string
	UniqueName  string
	AvatarURL   string
}
