package providers

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/virtadm/virtadm/session"
	"github.com/virtadm/virtadm/vault"
	"github.com/virtadm/virtadm/vault/credentials"
)

// Instance is a connected target system
type Instance interface {
	Name() string
	Close()
}

// ResolveCredential produces the credential for an endpoint, reusing one
// already resolved in this session. An explicitly provided password always
// re-resolves and overwrites the session entry.
func ResolveCredential(ctx context.Context, sess *session.Session, r *credentials.Resolver, server string, user string, password string) (*vault.Credential, error) {
	key := credentials.Key(server, user)

	if password == "" {
		if h, ok := sess.Handle(session.NamespaceCredentials, key); ok {
			if cred, ok := h.(*vault.Credential); ok {
				log.Debug().Str("key", key).Msg("reusing credential resolved in this session")
				return cred, nil
			}
		}
	}

	cred, err := r.Resolve(ctx, server, user, password)
	if err != nil {
		return nil, err
	}
	sess.SetHandle(session.NamespaceCredentials, key, cred)
	return cred, nil
}
