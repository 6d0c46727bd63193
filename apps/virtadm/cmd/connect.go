package cmd

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	isatty "github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/virtadm/virtadm/cli/config"
	"github.com/virtadm/virtadm/cli/prompt"
	"github.com/virtadm/virtadm/providers"
	"github.com/virtadm/virtadm/session"
	"github.com/virtadm/virtadm/vault"
	"github.com/virtadm/virtadm/vault/credentials"
	"github.com/virtadm/virtadm/vault/keyring"
)

// registerConnectionFlags adds the flags every provider command shares.
// They are persistent so subcommands inherit them.
func registerConnectionFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP("server", "s", "", "server address of the endpoint")
	cmd.PersistentFlags().StringP("user", "u", "", "user to authenticate with")
	cmd.PersistentFlags().StringP("password", "p", "", "password, prefer --ask-pass or persisted credentials")
	cmd.PersistentFlags().Bool("ask-pass", false, "prompt for the password")
	cmd.PersistentFlags().Bool("save-credentials", false, "persist the password in the credential store")
}

// vaultPassword returns the password protecting the credential files.
// Without VIRTADM_VAULT_PASSWORD the files are only obfuscated.
func vaultPassword() string {
	if v := os.Getenv("VIRTADM_VAULT_PASSWORD"); v != "" {
		return v
	}
	return "virtadm"
}

func credentialStore() *keyring.Vault {
	return keyring.NewEncryptedFile(config.CredentialsDir(), "virtadm", vaultPassword())
}

func credentialResolver(cmd *cobra.Command) *credentials.Resolver {
	persist, err := cmd.Flags().GetBool("save-credentials")
	if err != nil {
		persist = false
	}

	// prompting is only a strategy when a user could answer
	var promptFn credentials.SecretPromptFunc
	if isatty.IsTerminal(os.Stdin.Fd()) {
		promptFn = func(msg string) (string, error) {
			return prompt.Secret(msg + ": ")
		}
	}

	return &credentials.Resolver{
		Vault:   credentialStore(),
		Store:   config.CredentialsDir(),
		Prompt:  promptFn,
		Persist: persist,
	}
}

// resolveEndpoint merges flags, config file defaults and values cached in
// the session into the connection config for one target. Flags win over
// the config file.
func resolveEndpoint(cmd *cobra.Command, sess *session.Session, backend providers.Backend, namespace string, ep *config.Endpoint) (*providers.Config, error) {
	flags := cmd.Flags()

	server, _ := flags.GetString("server")
	if server == "" {
		server = ep.GetServer()
	}
	server, err := sess.Sync(namespace, "server", server, true)
	if err != nil {
		return nil, errors.Wrap(err, "set --server or add the endpoint to the config file")
	}

	user, _ := flags.GetString("user")
	if user == "" {
		user = ep.GetUser()
	}
	user, err = sess.Sync(namespace, "user", user, true)
	if err != nil {
		return nil, errors.Wrap(err, "set --user or add the endpoint to the config file")
	}

	askPass, err := flags.GetBool("ask-pass")
	if err == nil && askPass {
		askForPassword("Enter password: ", flags)
	}
	password, _ := flags.GetString("password")

	resolver := credentialResolver(cmd)
	cred, err := providers.ResolveCredential(context.Background(), sess, resolver, server, user, password)
	if err != nil {
		return nil, err
	}

	// the resolver persists prompted secrets on its own, explicitly
	// provided ones are stored here
	if persist, perr := flags.GetBool("save-credentials"); perr == nil && persist && password != "" {
		persistCredential(resolver.Vault, server, user, cred)
	}

	opts := []providers.ConfigOption{providers.WithCredential(cred)}
	if viper.GetBool("insecure") || ep.GetInsecure() {
		opts = append(opts, providers.WithInsecure())
	}
	return providers.NewConfig(backend, server, opts...), nil
}

func persistCredential(store vault.Vault, server string, user string, cred *vault.Credential) {
	key := credentials.Key(server, user)
	secret, err := vault.NewSecret(key, cred)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("could not persist the credential")
		return
	}
	if _, err := store.Set(context.Background(), secret); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("could not persist the credential")
		return
	}
	log.Info().Str("key", key).Msg("credential persisted")
}
