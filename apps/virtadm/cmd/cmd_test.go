package cmd

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	isatty "github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/virtadm/virtadm/cli/config"
	"github.com/virtadm/virtadm/providers"
	"github.com/virtadm/virtadm/session"
	"github.com/virtadm/virtadm/vault/credentials"
)

func newConnectionCmd(t *testing.T, args ...string) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	registerConnectionFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestResolveEndpointFromFlags(t *testing.T) {
	viper.Set("credentials-dir", t.TempDir())
	t.Cleanup(viper.Reset)

	cmd := newConnectionCmd(t, "--server", "vc.example.com", "--user", "admin", "--password", "secret1")
	sess := session.New()

	conf, err := resolveEndpoint(cmd, sess, providers.Backend_VSPHERE, session.NamespaceVsphere, nil)
	require.NoError(t, err)
	assert.Equal(t, "vc.example.com", conf.Host)
	assert.Equal(t, "admin", conf.Credential.User)
	assert.Equal(t, "secret1", conf.Credential.Password())
	assert.False(t, conf.Insecure)

	// server, user and credential stick in the session
	cmd2 := newConnectionCmd(t)
	conf2, err := resolveEndpoint(cmd2, sess, providers.Backend_VSPHERE, session.NamespaceVsphere, nil)
	require.NoError(t, err)
	assert.Equal(t, "vc.example.com", conf2.Host)
	assert.Equal(t, "secret1", conf2.Credential.Password())
}

func TestResolveEndpointConfigDefaults(t *testing.T) {
	viper.Set("credentials-dir", t.TempDir())
	t.Cleanup(viper.Reset)

	ep := &config.Endpoint{
		Server:   "vcd.example.com",
		User:     "svc-deploy",
		Insecure: true,
	}

	cmd := newConnectionCmd(t, "--password", "secret1")
	conf, err := resolveEndpoint(cmd, session.New(), providers.Backend_VCLOUD, session.NamespaceVcloud, ep)
	require.NoError(t, err)
	assert.Equal(t, "vcd.example.com", conf.Host)
	assert.Equal(t, "svc-deploy", conf.Credential.User)
	assert.True(t, conf.Insecure)
}

func TestResolveEndpointMissingServer(t *testing.T) {
	viper.Set("credentials-dir", t.TempDir())
	t.Cleanup(viper.Reset)

	cmd := newConnectionCmd(t, "--user", "admin")
	_, err := resolveEndpoint(cmd, session.New(), providers.Backend_NSX, session.NamespaceNsx, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--server")
}

func TestResolveEndpointNoCredential(t *testing.T) {
	if isatty.IsTerminal(os.Stdin.Fd()) {
		t.Skip("stdin is a terminal, the resolver would prompt")
	}

	viper.Set("credentials-dir", t.TempDir())
	t.Cleanup(viper.Reset)

	cmd := newConnectionCmd(t, "--server", "vc.example.com", "--user", "admin")
	_, err := resolveEndpoint(cmd, session.New(), providers.Backend_VSPHERE, session.NamespaceVsphere, nil)
	require.Error(t, err)

	var notFound *credentials.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Contains(t, notFound.Keys, "vc.example.com-admin")
}

func TestResolveEndpointPersistsExplicitPassword(t *testing.T) {
	viper.Set("credentials-dir", t.TempDir())
	t.Cleanup(viper.Reset)

	cmd := newConnectionCmd(t, "--server", "vc.example.com", "--user", "admin",
		"--password", "secret1", "--save-credentials")
	_, err := resolveEndpoint(cmd, session.New(), providers.Backend_VSPHERE, session.NamespaceVsphere, nil)
	require.NoError(t, err)

	// a fresh session finds the persisted credential without a password
	cmd2 := newConnectionCmd(t, "--server", "vc.example.com", "--user", "admin")
	conf, err := resolveEndpoint(cmd2, session.New(), providers.Backend_VSPHERE, session.NamespaceVsphere, nil)
	require.NoError(t, err)
	assert.Equal(t, "secret1", conf.Credential.Password())
}

func TestVaultPassword(t *testing.T) {
	t.Setenv("VIRTADM_VAULT_PASSWORD", "file-secret")
	assert.Equal(t, "file-secret", vaultPassword())

	t.Setenv("VIRTADM_VAULT_PASSWORD", "")
	assert.Equal(t, "virtadm", vaultPassword())
}

func TestTerraformOptions(t *testing.T) {
	varsFile := filepath.Join(t.TempDir(), "vars.json")
	require.NoError(t, os.WriteFile(varsFile, []byte(`{"region":"us-east-1","count":2}`), 0o644))

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("vars", "", "")
	cmd.Flags().StringArray("var", nil, "")
	cmd.Flags().Bool("auto-approve", false, "")
	require.NoError(t, cmd.Flags().Set("vars", varsFile))
	require.NoError(t, cmd.Flags().Set("var", "region=eu-central-1"))
	require.NoError(t, cmd.Flags().Set("auto-approve", "true"))

	opts := terraformOptions(cmd)
	// single assignments win over the file
	assert.Equal(t, "eu-central-1", opts.Vars["region"])
	assert.Equal(t, float64(2), opts.Vars["count"])
	assert.True(t, opts.AutoApprove)
}

func TestRequestBody(t *testing.T) {
	newDataCmd := func(value string) *cobra.Command {
		cmd := &cobra.Command{Use: "test"}
		cmd.Flags().String("data", "", "")
		if value != "" {
			require.NoError(t, cmd.Flags().Set("data", value))
		}
		return cmd
	}

	body, err := requestBody(newDataCmd(""))
	require.NoError(t, err)
	assert.Nil(t, body)

	body, err = requestBody(newDataCmd(`{"display_name":"tz-overlay"}`))
	require.NoError(t, err)
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, `{"display_name":"tz-overlay"}`, string(data))

	payload := filepath.Join(t.TempDir(), "body.json")
	require.NoError(t, os.WriteFile(payload, []byte(`{"vni":5001}`), 0o644))
	body, err = requestBody(newDataCmd("@" + payload))
	require.NoError(t, err)
	data, err = io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, `{"vni":5001}`, string(data))

	body, err = requestBody(newDataCmd("-"))
	require.NoError(t, err)
	assert.Equal(t, os.Stdin, body)
}

func TestCredsKey(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("server", "", "")
	cmd.Flags().String("user", "", "")
	require.NoError(t, cmd.Flags().Set("server", "vc.example.com"))
	require.NoError(t, cmd.Flags().Set("user", "admin"))
	assert.Equal(t, "vc.example.com-admin", credsKey(cmd))

	cmd2 := &cobra.Command{Use: "test"}
	cmd2.Flags().String("server", "", "")
	cmd2.Flags().String("user", "", "")
	require.NoError(t, cmd2.Flags().Set("user", "admin"))
	assert.Equal(t, "admin", credsKey(cmd2))
}
