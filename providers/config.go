package providers

import (
	"strconv"

	"github.com/mitchellh/mapstructure"
	"github.com/virtadm/virtadm/vault"
)

type Backend string

const (
	Backend_VSPHERE Backend = "vsphere"
	Backend_VCLOUD  Backend = "vcloud"
	Backend_NSX     Backend = "nsx"
)

// Config describes one management endpoint and how to reach it
type Config struct {
	Backend    Backend
	Host       string
	Port       int32
	Insecure   bool
	Options    map[string]string
	Credential *vault.Credential
}

type ConfigOption func(c *Config)

func WithCredential(credential *vault.Credential) ConfigOption {
	return func(c *Config) {
		c.Credential = credential
	}
}

func WithInsecure() ConfigOption {
	return func(c *Config) {
		c.Insecure = true
	}
}

func WithPort(port int32) ConfigOption {
	return func(c *Config) {
		c.Port = port
	}
}

func WithOption(key string, value string) ConfigOption {
	return func(c *Config) {
		c.Options[key] = value
	}
}

func NewConfig(backend Backend, host string, opts ...ConfigOption) *Config {
	c := &Config{
		Backend: backend,
		Host:    host,
		Options: map[string]string{},
	}
	for i := range opts {
		opts[i](c)
	}
	return c
}

// Address returns host or host:port when a port is configured
func (c *Config) Address() string {
	if c.Port == 0 {
		return c.Host
	}
	return c.Host + ":" + strconv.Itoa(int(c.Port))
}

// DecodeOptions maps the free-form option map onto a typed struct, unknown
// keys are ignored. Values are weakly typed so "true" fills a bool field.
func DecodeOptions(options map[string]string, target interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(options)
}
