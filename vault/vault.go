package vault

import (
	"context"

	"github.com/cockroachdb/errors"
)

// NotFoundError is returned by Get when no secret is stored under a key
var NotFoundError = errors.New("secret not found")

// Vault stores secrets at rest. Implementations cover the OS keychain, an
// encrypted file per entry and an in-memory store for injected secrets.
type Vault interface {
	// Get retrieves the secret stored under the id
	Get(ctx context.Context, id *SecretID) (*Secret, error)
	// Set stores the secret under its key and returns the id
	Set(ctx context.Context, secret *Secret) (*SecretID, error)
	// Delete removes the secret stored under the id
	Delete(ctx context.Context, id *SecretID) error
	// Keys lists the ids of all stored secrets
	Keys(ctx context.Context) ([]*SecretID, error)
}

type SecretID struct {
	Key string
}

type Secret struct {
	Key   string
	Label string
	Data  []byte
}
