package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/virtadm/virtadm/logger"
)

/*
	Configuration is loaded in this order:
	ENV -> --config file -> autodetected file -> defaults
*/

var (
	// AppFs is the filesystem the config layer reads from, tests swap in
	// an in-memory fs
	AppFs afero.Fs = afero.NewOsFs()

	DefaultConfigFile = "virtadm.yml"

	// UserProvidedPath is the --config flag value
	UserProvidedPath string
	// Path is the currently loaded config location
	Path string
	// Source names where Path came from
	Source string
	// LoadedConfig reports whether a config file was actually read
	LoadedConfig bool
)

// Init registers the config flag and hooks the viper setup into cobra
func Init(rootCmd *cobra.Command) {
	cobra.OnInitialize(InitViperConfig)
	rootCmd.PersistentFlags().StringVar(&UserProvidedPath, "config", "", "Set config file path (default $HOME/.config/virtadm/virtadm.yml)")
}

func InitViperConfig() {
	viper.SetConfigType("yaml")

	Path = strings.TrimSpace(UserProvidedPath)
	if len(Path) == 0 && len(os.Getenv("VIRTADM_CONFIG_PATH")) > 0 {
		// fallback to env variable if provided, but only if --config is not used
		Source = "$VIRTADM_CONFIG_PATH"
		Path = os.Getenv("VIRTADM_CONFIG_PATH")
	} else if len(Path) != 0 {
		Source = "--config"
	} else {
		Source = "default"
	}

	// check if the default config file is available
	if Path == "" {
		Path = autodetectConfig()
	}

	// we set this here, so that sub commands that rely on writing config can
	// use the default config location
	viper.SetConfigFile(Path)

	// if the file exists, load it
	_, err := AppFs.Stat(Path)
	if err == nil {
		log.Debug().Str("configfile", viper.ConfigFileUsed()).Msg("try to load local config file")
		if err := viper.ReadInConfig(); err == nil {
			LoadedConfig = true
		} else {
			LoadedConfig = false
			log.Error().Err(err).Str("path", Path).Msg("could not read config file")
		}
	}

	// by default the cli uses console output, for scripted runs the config
	// can switch to json output
	if viper.GetString("log.format") == "json" {
		logger.UseJSONLogging(logger.LogOutputWriter)
	}

	// override values with env variables, VIRTADM_INSECURE=true matches the
	// insecure key, hyphens and dots become underscores
	viper.SetEnvPrefix("virtadm")
	replacer := strings.NewReplacer("-", "_", ".", "_")
	viper.SetEnvKeyReplacer(replacer)
	viper.AutomaticEnv()
}

// autodetectConfig probes the default locations and returns the first
// config file that exists, falling back to the user location
func autodetectConfig() string {
	homeConfig, err := HomePath(DefaultConfigFile)
	if err == nil && ProbeFile(homeConfig) {
		return homeConfig
	}

	systemConfig := filepath.Join("/etc", "opt", "virtadm", DefaultConfigFile)
	if ProbeFile(systemConfig) {
		return systemConfig
	}

	return homeConfig
}

// ProbeFile reports whether the path is a readable file
func ProbeFile(path string) bool {
	stat, err := AppFs.Stat(path)
	if err != nil || stat.IsDir() {
		return false
	}

	f, err := AppFs.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

// ProbeDir reports whether the path is a directory
func ProbeDir(path string) bool {
	stat, err := AppFs.Stat(path)
	return err == nil && stat.IsDir()
}

// HomePath assembles a path below the per-user config directory
func HomePath(subpath ...string) (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "could not determine user home directory")
	}
	return filepath.Join(append([]string{home, ".config", "virtadm"}, subpath...)...), nil
}

// CredentialsDir returns the configured credential directory or the
// default below the user config directory
func CredentialsDir() string {
	if dir := viper.GetString("credentials-dir"); dir != "" {
		return dir
	}
	dir, err := HomePath("credentials")
	if err != nil {
		log.Warn().Err(err).Msg("could not determine credential directory, using the working directory")
		return "credentials"
	}
	return dir
}

func DisplayUsedConfig() {
	if !LoadedConfig && len(UserProvidedPath) > 0 {
		log.Warn().Msg("could not load configuration file " + UserProvidedPath)
	} else if LoadedConfig {
		log.Debug().Msg("loaded configuration from " + viper.ConfigFileUsed() + " using source " + Source)
	} else {
		log.Debug().Msg("no configuration file provided, using defaults")
	}
}

// Read loads the viper state into a typed config
func Read() (*Config, error) {
	var opts Config
	err := viper.Unmarshal(&opts)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode into config struct")
	}

	return &opts, nil
}

type Config struct {
	// per-target defaults, flags always win over these
	Vsphere *Endpoint `json:"vsphere,omitempty" mapstructure:"vsphere"`
	Vcloud  *Endpoint `json:"vcloud,omitempty" mapstructure:"vcloud"`
	Nsx     *Endpoint `json:"nsx,omitempty" mapstructure:"nsx"`

	CredentialsDir string `json:"credentials-dir,omitempty" mapstructure:"credentials-dir"`
	Insecure       bool   `json:"insecure,omitempty" mapstructure:"insecure"`
	Output         string `json:"output,omitempty" mapstructure:"output"`

	Terraform TerraformConfig `json:"terraform,omitempty" mapstructure:"terraform"`
}

// Endpoint is one management endpoint in the config file
type Endpoint struct {
	Server       string `json:"server,omitempty" mapstructure:"server"`
	User         string `json:"user,omitempty" mapstructure:"user"`
	Organization string `json:"organization,omitempty" mapstructure:"organization"`
	Insecure     bool   `json:"insecure,omitempty" mapstructure:"insecure"`
}

func (e *Endpoint) GetServer() string {
	if e == nil {
		return ""
	}
	return e.Server
}

func (e *Endpoint) GetUser() string {
	if e == nil {
		return ""
	}
	return e.User
}

func (e *Endpoint) GetOrganization() string {
	if e == nil {
		return ""
	}
	return e.Organization
}

func (e *Endpoint) GetInsecure() bool {
	if e == nil {
		return false
	}
	return e.Insecure
}

type TerraformConfig struct {
	Binary     string `json:"binary,omitempty" mapstructure:"binary"`
	Dir        string `json:"dir,omitempty" mapstructure:"dir"`
	MinVersion string `json:"min-version,omitempty" mapstructure:"min-version"`
}
