package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/naveenspark/mbadmin/internal/storage"
	"github.com/naveenspark/mbadmin/pkg/domain"
)

// Storage keys for the raw credential pair.
const (
	TokenKey    = "mb_access_token"
	UserDataKey = "mb_user_data"
)

// CredentialStore keeps the bearer token and the principal in durable storage.
// It satisfies client.Credentials so the gateway reads the token on every request.
type CredentialStore struct {
	kv storage.Storage
}

// NewCredentialStore wraps kv.
func NewCredentialStore(kv storage.Storage) *CredentialStore {
	return &CredentialStore{kv: kv}
}

// StoreAuthData writes the token and the JSON-encoded principal.
func (c *CredentialStore) StoreAuthData(token string, user domain.UserData) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user data: %w", err)
	}
	if err := c.kv.Set(TokenKey, token); err != nil {
		return err
	}
	return c.kv.Set(UserDataKey, string(data))
}

// GetStoredToken returns the persisted token, or "" when none is stored.
func (c *CredentialStore) GetStoredToken() (string, error) {
	tok, _, err := c.kv.Get(TokenKey)
	return tok, err
}

// GetStoredUserData returns the persisted principal, or nil when none is stored.
func (c *CredentialStore) GetStoredUserData() (*domain.UserData, error) {
	raw, ok, err := c.kv.Get(UserDataKey)
	if err != nil || !ok || raw == "" {
		return nil, err
	}
	var user domain.UserData
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("decode stored user data: %w", err)
	}
	return &user, nil
}

// Token implements client.Credentials.
func (c *CredentialStore) Token() string {
	tok, _ := c.GetStoredToken()
	return tok
}

// Clear removes both keys.
func (c *CredentialStore) Clear() error {
	return errors.Join(c.kv.Remove(TokenKey), c.kv.Remove(UserDataKey))
}
