package driven

import (
	"context"
	"errors"

	"github.com/azdopanel/azdopanel/internal/domain/model"
)

// ErrEncryptionKeyNotSet is returned by CredentialStore implementations when
// no encryption key was configured and credential storage is disabled.
var ErrEncryptionKeyNotSet = errors.New("credential encryption key not set")

// CredentialStore persists secret values encrypted at rest.
type CredentialStore interface {
	Set(ctx context.Context, service, plaintext string) error
	// Get returns ("", nil) when no credential exists for the service.
	Get(ctx context.Context, service string) (string, error)
	List(ctx context.Context) ([]model.Credential, error)
	Delete(ctx context.Context, service string) error
}
