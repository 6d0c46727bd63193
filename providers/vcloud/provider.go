package vcloud

import (
	"fmt"
	"net/url"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"github.com/vmware/go-vcloud-director/v2/govcd"
	"github.com/virtadm/virtadm/providers"
	"github.com/virtadm/virtadm/session"
	"github.com/virtadm/virtadm/vault"
)

var _ providers.Instance = (*Provider)(nil)

type vcdConfig struct {
	User     string
	Password string
	Token    string
	Host     string
	Org      string
	Insecure bool
}

func (c *vcdConfig) Href() string {
	return fmt.Sprintf("https://%s/api", c.Host)
}

func newVcdClient(c *vcdConfig) (*govcd.VCDClient, error) {
	u, err := url.ParseRequestURI(c.Href())
	if err != nil {
		return nil, errors.Wrap(err, "invalid url "+c.Href())
	}

	client := govcd.NewVCDClient(*u, c.Insecure)

	if c.Token != "" {
		if _, err := client.SetApiToken(c.Org, c.Token); err != nil {
			return nil, errors.Wrap(err, "could not authenticate to Cloud Director with api token")
		}
		return client, nil
	}

	if err := client.Authenticate(c.User, c.Password, c.Org); err != nil {
		return nil, errors.Wrap(err, "could not authenticate to Cloud Director "+c.Href())
	}
	return client, nil
}

// New connects to the Cloud Director endpoint. Like the vSphere provider,
// the live client is cached in the session and reused for the same
// endpoint, organization and user.
func New(sess *session.Session, conf *providers.Config) (*Provider, error) {
	if conf.Credential == nil {
		return nil, errors.New("missing credentials for Cloud Director")
	}

	cfg := &vcdConfig{
		Host:     conf.Address(),
		Insecure: conf.Insecure,
		Org:      "system", // default in vcd
	}

	// determine the organization for the user
	opts := struct {
		Organization string `mapstructure:"organization"`
	}{}
	if err := providers.DecodeOptions(conf.Options, &opts); err != nil {
		return nil, err
	}
	if opts.Organization != "" {
		cfg.Org = opts.Organization
	}

	cred := conf.Credential
	switch cred.Type {
	case vault.CredentialType_password:
		cfg.User = cred.User
		cfg.Password = cred.Password()
	case vault.CredentialType_token:
		cfg.Token = cred.Password()
	default:
		return nil, errors.Newf("unsupported credential type %s for Cloud Director", cred.Type)
	}

	key := cfg.Host + "-" + cfg.Org + "-" + cred.User
	conn, cached, err := sess.Dial(session.NamespaceVcloud, key, func() (interface{}, error) {
		return newVcdClient(cfg)
	})
	if err != nil {
		return nil, err
	}
	if cached {
		log.Debug().Str("endpoint", cfg.Host).Str("org", cfg.Org).Msg("reusing cloud director connection")
	}

	return &Provider{
		client: conn.(*govcd.VCDClient),
		host:   conf.Host,
		org:    cfg.Org,
	}, nil
}

type Provider struct {
	client *govcd.VCDClient
	host   string
	org    string
}

func (p *Provider) Name() string {
	return "vcloud"
}

// Org returns the organization the session was authenticated against.
func (p *Provider) Org() string {
	return p.org
}

func (p *Provider) Close() {
	if p.client == nil {
		return
	}
	if err := p.client.Disconnect(); err != nil {
		log.Debug().Err(err).Msg("could not disconnect from cloud director")
	}
}

func (p *Provider) Client() *govcd.VCDClient {
	return p.client
}
