package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/virtadm/virtadm/session"
	"github.com/virtadm/virtadm/vault"
	"github.com/virtadm/virtadm/vault/credentials"
	"github.com/virtadm/virtadm/vault/inmemory"
)

func TestResolveCredentialIdempotent(t *testing.T) {
	v := inmemory.New()
	secret, err := vault.NewSecret("vcenter.lan-root", vault.NewPasswordCredential("root", "persisted"))
	require.NoError(t, err)
	_, err = v.Set(context.Background(), secret)
	require.NoError(t, err)

	sess := session.New()
	r := &credentials.Resolver{Vault: v}

	cred, err := ResolveCredential(context.Background(), sess, r, "vcenter.lan", "root", "")
	require.NoError(t, err)

	// drop the backing entry, the session still answers
	require.NoError(t, v.Delete(context.Background(), &vault.SecretID{Key: "vcenter.lan-root"}))

	again, err := ResolveCredential(context.Background(), sess, r, "vcenter.lan", "root", "")
	require.NoError(t, err)
	assert.Same(t, cred, again)
}

func TestResolveCredentialExplicitOverwrites(t *testing.T) {
	sess := session.New()
	r := &credentials.Resolver{Vault: inmemory.New()}

	cred, err := ResolveCredential(context.Background(), sess, r, "vcenter.lan", "root", "first")
	require.NoError(t, err)
	assert.Equal(t, "first", cred.Password())

	cred, err = ResolveCredential(context.Background(), sess, r, "vcenter.lan", "root", "second")
	require.NoError(t, err)
	assert.Equal(t, "second", cred.Password())

	// the overwritten entry is what later calls see
	cred, err = ResolveCredential(context.Background(), sess, r, "vcenter.lan", "root", "")
	require.NoError(t, err)
	assert.Equal(t, "second", cred.Password())
}

func TestDecodeOptions(t *testing.T) {
	var opts struct {
		Org         string `mapstructure:"org"`
		SessionAuth bool   `mapstructure:"session-auth"`
	}
	err := DecodeOptions(map[string]string{"org": "acme", "session-auth": "true", "extra": "ignored"}, &opts)
	require.NoError(t, err)
	assert.Equal(t, "acme", opts.Org)
	assert.True(t, opts.SessionAuth)
}

func TestConfigAddress(t *testing.T) {
	c := NewConfig(Backend_NSX, "nsx01.lan")
	assert.Equal(t, "nsx01.lan", c.Address())

	c = NewConfig(Backend_NSX, "nsx01.lan", WithPort(8443), WithInsecure())
	assert.Equal(t, "nsx01.lan:8443", c.Address())
	assert.True(t, c.Insecure)
}
