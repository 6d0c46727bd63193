package config

import (
	"path/filepath"
	"strings"
	"testing"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	home          = getHomeDir()
	homeConfigDir = filepath.Join(home, ".config", "virtadm")
	homeConfig    = filepath.Join(homeConfigDir, DefaultConfigFile)

	systemConfigDir = filepath.Join("/etc", "opt", "virtadm")
	systemConfig    = filepath.Join(systemConfigDir, DefaultConfigFile)

	configBody = []byte("theconfig")
)

func getHomeDir() string {
	home, _ := homedir.Dir()
	return home
}

func resetAppFsToMemFs() {
	AppFs = afero.NewMemMapFs()
	AppFs.MkdirAll(homeConfigDir, 0o755)
	AppFs.MkdirAll(systemConfigDir, 0o755)
}

func Test_autodetectConfig(t *testing.T) {
	defer func() {
		AppFs = afero.NewOsFs()
	}()

	t.Run("test homeConfig returned if exists", func(t *testing.T) {
		resetAppFsToMemFs()
		afero.WriteFile(AppFs, homeConfig, configBody, 0o644)

		config := autodetectConfig()
		assert.Equal(t, homeConfig, config)
	})

	t.Run("test homeConfig returned even if systemConfig exists", func(t *testing.T) {
		resetAppFsToMemFs()
		afero.WriteFile(AppFs, homeConfig, configBody, 0o644)
		afero.WriteFile(AppFs, systemConfig, configBody, 0o644)

		config := autodetectConfig()
		assert.Equal(t, homeConfig, config)
	})

	t.Run("test systemConfig returned", func(t *testing.T) {
		resetAppFsToMemFs()
		afero.WriteFile(AppFs, systemConfig, configBody, 0o644)

		config := autodetectConfig()
		assert.Equal(t, systemConfig, config)
	})

	t.Run("test homeConfig returned if nothing exists", func(t *testing.T) {
		resetAppFsToMemFs()

		config := autodetectConfig()
		assert.Equal(t, homeConfig, config)
	})
}

func Test_probeConfigMemFs(t *testing.T) {
	defer func() {
		AppFs = afero.NewOsFs()
	}()

	resetAppFsToMemFs()
	afero.WriteFile(AppFs, homeConfig, configBody, 0o644)

	assert.False(t, ProbeFile(homeConfigDir))
	assert.True(t, ProbeDir(homeConfigDir))
	assert.True(t, ProbeFile(homeConfig))
	assert.False(t, ProbeFile(homeConfig+".nothere"))
}

func Test_probeConfigOsFs(t *testing.T) {
	dir := t.TempDir()
	tmpConfig := filepath.Join(dir, DefaultConfigFile)
	afero.WriteFile(AppFs, tmpConfig, configBody, 0o644)

	assert.True(t, ProbeFile(tmpConfig))
	assert.False(t, ProbeFile(filepath.Join(dir, "nothere.yml")))
}

func TestConfigParsing(t *testing.T) {
	data := `
vsphere:
  server: vcenter.example.com
  user: administrator@vsphere.local
vcloud:
  server: vcd.example.com
  user: admin
  organization: system
  insecure: true
nsx:
  server: nsx.example.com
  user: audit
credentials-dir: /var/lib/virtadm/credentials
insecure: true
output: table
terraform:
  binary: /usr/local/bin/terraform
  dir: /srv/deployments
  min-version: 1.0.0
`

	viper.SetConfigType("yaml")
	err := viper.ReadConfig(strings.NewReader(data))
	require.NoError(t, err)

	cfg, err := Read()
	require.NoError(t, err)
	assert.Equal(t, "vcenter.example.com", cfg.Vsphere.GetServer())
	assert.Equal(t, "administrator@vsphere.local", cfg.Vsphere.GetUser())
	assert.False(t, cfg.Vsphere.GetInsecure())
	assert.Equal(t, "vcd.example.com", cfg.Vcloud.GetServer())
	assert.Equal(t, "system", cfg.Vcloud.GetOrganization())
	assert.True(t, cfg.Vcloud.GetInsecure())
	assert.Equal(t, "nsx.example.com", cfg.Nsx.GetServer())
	assert.Equal(t, "/var/lib/virtadm/credentials", cfg.CredentialsDir)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, "table", cfg.Output)
	assert.Equal(t, "/usr/local/bin/terraform", cfg.Terraform.Binary)
	assert.Equal(t, "/srv/deployments", cfg.Terraform.Dir)
	assert.Equal(t, "1.0.0", cfg.Terraform.MinVersion)
}

func TestEndpointNilGetters(t *testing.T) {
	var ep *Endpoint
	assert.Equal(t, "", ep.GetServer())
	assert.Equal(t, "", ep.GetUser())
	assert.Equal(t, "", ep.GetOrganization())
	assert.False(t, ep.GetInsecure())
}
