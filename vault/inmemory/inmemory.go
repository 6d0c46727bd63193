package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/virtadm/virtadm/vault"
)

// New returns a vault that holds secrets in memory, e.g. injected secrets
// or test fixtures. Entries live for the process lifetime.
func New() *Vault {
	return &Vault{
		secrets: map[string]*vault.Secret{},
	}
}

type Vault struct {
	mu      sync.RWMutex
	secrets map[string]*vault.Secret
}

func (v *Vault) Get(ctx context.Context, id *vault.SecretID) (*vault.Secret, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	secret, ok := v.secrets[id.Key]
	if !ok {
		return nil, vault.NotFoundError
	}
	return secret, nil
}

func (v *Vault) Set(ctx context.Context, secret *vault.Secret) (*vault.SecretID, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.secrets[secret.Key] = secret
	return &vault.SecretID{Key: secret.Key}, nil
}

func (v *Vault) Delete(ctx context.Context, id *vault.SecretID) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.secrets[id.Key]; !ok {
		return vault.NotFoundError
	}
	delete(v.secrets, id.Key)
	return nil
}

func (v *Vault) Keys(ctx context.Context) ([]*vault.SecretID, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	res := make([]*vault.SecretID, 0, len(v.secrets))
	for k := range v.secrets {
		res = append(res, &vault.SecretID{Key: k})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Key < res[j].Key })
	return res, nil
}
