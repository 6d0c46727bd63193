package keyring

import (
	"context"

	"github.com/99designs/keyring"
	"github.com/cockroachdb/errors"
	"github.com/virtadm/virtadm/vault"
)

// New uses the OS keychain for storage
func New(serviceName string) *Vault {
	return &Vault{
		ServiceName: serviceName,
	}
}

// NewEncryptedFile stores each secret in its own encrypted file below path,
// named by the secret key
func NewEncryptedFile(path string, serviceName string, password string) *Vault {
	return &Vault{
		ServiceName:  serviceName,
		fileDir:      path,
		filePassword: password,
	}
}

type Vault struct {
	ServiceName  string
	fileDir      string
	filePassword string
}

func (v *Vault) open() (keyring.Keyring, error) {
	if v.fileDir != "" {
		return keyring.Open(keyring.Config{
			ServiceName:      v.ServiceName,
			AllowedBackends:  []keyring.BackendType{keyring.FileBackend},
			FileDir:          v.fileDir,
			FilePasswordFunc: keyring.FixedStringPrompt(v.filePassword),
		})
	}
	return keyring.Open(keyring.Config{
		ServiceName: v.ServiceName,
	})
}

func (v *Vault) Set(ctx context.Context, secret *vault.Secret) (*vault.SecretID, error) {
	ring, err := v.open()
	if err != nil {
		return nil, err
	}

	err = ring.Set(keyring.Item{
		Key:   secret.Key,
		Label: secret.Label,
		Data:  secret.Data,
	})
	if err != nil {
		return nil, err
	}

	return &vault.SecretID{
		Key: secret.Key,
	}, nil
}

func (v *Vault) Get(ctx context.Context, id *vault.SecretID) (*vault.Secret, error) {
	ring, err := v.open()
	if err != nil {
		return nil, err
	}

	i, err := ring.Get(id.Key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return nil, vault.NotFoundError
		}
		return nil, err
	}

	return &vault.Secret{
		Key:   i.Key,
		Label: i.Label,
		Data:  i.Data,
	}, nil
}

func (v *Vault) Delete(ctx context.Context, id *vault.SecretID) error {
	ring, err := v.open()
	if err != nil {
		return err
	}

	err = ring.Remove(id.Key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return vault.NotFoundError
	}
	return err
}

func (v *Vault) Keys(ctx context.Context) ([]*vault.SecretID, error) {
	ring, err := v.open()
	if err != nil {
		return nil, err
	}

	keys, err := ring.Keys()
	if err != nil {
		return nil, err
	}

	res := make([]*vault.SecretID, 0, len(keys))
	for i := range keys {
		res = append(res, &vault.SecretID{Key: keys[i]})
	}
	return res, nil
}
