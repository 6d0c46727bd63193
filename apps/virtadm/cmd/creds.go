package cmd

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/virtadm/virtadm/cli/prompt"
	"github.com/virtadm/virtadm/vault"
	"github.com/virtadm/virtadm/vault/credentials"
)

func init() {
	credsSetCmd.Flags().String("server", "", "server the credential belongs to, empty for a user-wide entry")
	credsSetCmd.Flags().StringP("user", "u", "", "user the credential belongs to")
	credsSetCmd.MarkFlagRequired("user")
	credsSetCmd.Flags().StringP("password", "p", "", "password to store, prompted when omitted")
	credsCmd.AddCommand(credsSetCmd)

	credsShowCmd.Flags().String("server", "", "server the credential belongs to")
	credsShowCmd.Flags().StringP("user", "u", "", "user the credential belongs to")
	credsShowCmd.MarkFlagRequired("user")
	credsShowCmd.Flags().Bool("reveal", false, "print the stored password")
	credsCmd.AddCommand(credsShowCmd)

	credsRmCmd.Flags().String("server", "", "server the credential belongs to")
	credsRmCmd.Flags().StringP("user", "u", "", "user the credential belongs to")
	credsRmCmd.MarkFlagRequired("user")
	credsCmd.AddCommand(credsRmCmd)

	credsCmd.AddCommand(credsListCmd)

	rootCmd.AddCommand(credsCmd)
}

var credsCmd = &cobra.Command{
	Use:   "creds",
	Short: "Manage persisted credentials",
	Long:  ``,
}

func credsKey(cmd *cobra.Command) string {
	server, _ := cmd.Flags().GetString("server")
	user, _ := cmd.Flags().GetString("user")
	return credentials.Key(server, user)
}

var credsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store a credential",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		user, _ := cmd.Flags().GetString("user")
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			var err error
			password, err = prompt.Secret("Enter password: ")
			if err != nil {
				log.Fatal().Err(err).Msg("could not read the password")
			}
		}

		key := credsKey(cmd)
		secret, err := vault.NewSecret(key, vault.NewPasswordCredential(user, password))
		if err != nil {
			log.Fatal().Err(err).Msg("could not prepare the credential")
		}

		if _, err := credentialStore().Set(context.Background(), secret); err != nil {
			log.Fatal().Err(err).Msg("could not store the credential")
		}
		log.Info().Str("key", key).Msg("credential stored")
	},
}

var credsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display a stored credential",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		key := credsKey(cmd)
		secret, err := credentialStore().Get(context.Background(), &vault.SecretID{Key: key})
		if err != nil {
			if errors.Is(err, vault.NotFoundError) {
				log.Fatal().Msg("no credential stored under " + key)
			}
			log.Fatal().Err(err).Msg("could not read the credential")
		}

		cred, err := secret.Credential()
		if err != nil {
			log.Fatal().Err(err).Msg("stored credential is malformed")
		}

		view := struct {
			Key      string `json:"key"`
			User     string `json:"user"`
			Type     string `json:"type"`
			Password string `json:"password,omitempty"`
		}{
			Key:  secret.Key,
			User: cred.User,
			Type: string(cred.Type),
		}
		if reveal, rerr := cmd.Flags().GetBool("reveal"); rerr == nil && reveal {
			view.Password = cred.Password()
		}
		cliPrinter().Result(view, nil, nil)
	},
}

var credsRmCmd = &cobra.Command{
	Use:   "rm",
	Short: "Remove a stored credential",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		key := credsKey(cmd)
		err := credentialStore().Delete(context.Background(), &vault.SecretID{Key: key})
		if err != nil {
			if errors.Is(err, vault.NotFoundError) {
				log.Fatal().Msg("no credential stored under " + key)
			}
			log.Fatal().Err(err).Msg("could not remove the credential")
		}
		log.Info().Str("key", key).Msg("credential removed")
	},
}

type credView struct {
	Key string `json:"key"`
}

var credsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored credentials",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ids, err := credentialStore().Keys(context.Background())
		if err != nil {
			log.Fatal().Err(err).Msg("could not list credentials")
		}

		res := make([]credView, 0, len(ids))
		for i := range ids {
			res = append(res, credView{Key: ids[i].Key})
		}
		printResult(res, []string{"Key"}, "key")
	},
}
