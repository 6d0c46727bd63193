package credentials

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"github.com/virtadm/virtadm/vault"
)

// SecretPromptFunc asks the caller for a secret, e.g. on a terminal
type SecretPromptFunc func(msg string) (string, error)

// NotFoundError is returned when every resolution strategy failed
type NotFoundError struct {
	// Keys that were attempted, in order
	Keys []string
	// Store describes where the keys were looked up
	Store string
}

func (e *NotFoundError) Error() string {
	msg := "no credential found for " + strings.Join(e.Keys, ", ")
	if e.Store != "" {
		msg += " in " + e.Store
	}
	return msg
}

// Key returns the vault key for a server/user pair: `{server}-{user}`, or
// `{user}` alone when no server is given
func Key(server string, user string) string {
	if server == "" {
		return user
	}
	return server + "-" + user
}

// Resolver produces a credential for a server/user pair. Strategies are
// attempted in a fixed order, the first success wins:
//
//  1. an explicitly provided password (decoded when it carries the
//     encoded-secret marker, plaintext otherwise)
//  2. a persisted entry under `{server}-{user}`
//  3. an interactive prompt, persisted on request
//  4. a persisted entry under `{user}` alone
//
// Anything else is a NotFoundError naming the attempted keys.
type Resolver struct {
	// Vault holds persisted credentials
	Vault vault.Vault
	// Store describes the vault location in error messages
	Store string
	// Prompt enables the interactive strategy when non-nil
	Prompt SecretPromptFunc
	// Persist stores a prompted secret in the vault
	Persist bool
}

func (r *Resolver) Resolve(ctx context.Context, server string, user string, password string) (*vault.Credential, error) {
	// explicit credentials always win, even over a matching persisted entry
	if user != "" && password != "" {
		return vault.NewPasswordCredential(user, vault.DecodeSecret(password)), nil
	}

	if user == "" {
		return nil, errors.New("cannot resolve a credential without a user")
	}

	attempted := []string{}

	if server != "" {
		key := Key(server, user)
		attempted = append(attempted, key)
		if cred, ok := r.lookup(ctx, key); ok {
			return cred, nil
		}
	}

	if r.Prompt != nil {
		target := user
		if server != "" {
			target = user + "@" + server
		}
		secret, err := r.Prompt("Enter password for " + target)
		if err != nil {
			return nil, errors.Wrap(err, "could not read the secret")
		}

		cred := vault.NewPasswordCredential(user, secret)
		if r.Persist {
			key := Key(server, user)
			secret, err := vault.NewSecret(key, cred)
			if err != nil {
				return nil, err
			}
			if _, err := r.Vault.Set(ctx, secret); err != nil {
				return nil, errors.Wrap(err, "could not persist the credential")
			}
			log.Info().Str("key", key).Msg("credential persisted")
		}
		return cred, nil
	}

	key := Key("", user)
	attempted = append(attempted, key)
	if cred, ok := r.lookup(ctx, key); ok {
		return cred, nil
	}

	return nil, &NotFoundError{Keys: attempted, Store: r.Store}
}

// lookup loads one persisted entry. A missing or malformed entry falls
// through to the next strategy, it never aborts resolution.
func (r *Resolver) lookup(ctx context.Context, key string) (*vault.Credential, bool) {
	if r.Vault == nil {
		return nil, false
	}

	secret, err := r.Vault.Get(ctx, &vault.SecretID{Key: key})
	if err != nil {
		if !errors.Is(err, vault.NotFoundError) {
			log.Debug().Err(err).Str("key", key).Msg("could not read persisted credential")
		}
		return nil, false
	}

	cred, err := secret.Credential()
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("persisted credential is malformed")
		return nil, false
	}
	return cred, true
}
