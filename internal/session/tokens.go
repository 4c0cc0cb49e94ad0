package session

import "github.com/issuelane/issuelane/internal/credential"

// KeyringTokens stores the remembered refresh token in the system
// keyring.
type KeyringTokens struct{}

func (KeyringTokens) Save(token string) error {
	return credential.Set(credential.SessionTokenKey, token)
}

func (KeyringTokens) Load() (string, error) {
	return credential.Get(credential.SessionTokenKey)
}

func (KeyringTokens) Clear() error {
	return credential.Delete(credential.SessionTokenKey)
}
