package vsphere

import (
	"context"
	"net/url"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"github.com/vmware/govmomi"
	"github.com/virtadm/virtadm/providers"
	"github.com/virtadm/virtadm/providers/vsphere/resourceclient"
	"github.com/virtadm/virtadm/session"
)

// New connects to the vSphere endpoint. Connections are cached in the
// session, the same endpoint and user within one process reuses the live
// client.
func New(ctx context.Context, sess *session.Session, conf *providers.Config) (*Provider, error) {
	if conf.Credential == nil {
		return nil, errors.New("missing credentials for vSphere")
	}

	key := conf.Address() + "-" + conf.Credential.User
	conn, cached, err := sess.Dial(session.NamespaceVsphere, key, func() (interface{}, error) {
		return newGovmomiClient(ctx, conf)
	})
	if err != nil {
		return nil, err
	}
	if cached {
		log.Debug().Str("endpoint", conf.Address()).Msg("reusing vsphere connection")
	}

	return &Provider{
		client: conn.(*govmomi.Client),
		host:   conf.Host,
	}, nil
}

func newGovmomiClient(ctx context.Context, conf *providers.Config) (*govmomi.Client, error) {
	u, err := url.Parse("https://" + conf.Address() + "/sdk")
	if err != nil {
		return nil, errors.Wrap(err, "invalid vSphere endpoint")
	}
	u.User = url.UserPassword(conf.Credential.User, conf.Credential.Password())

	client, err := govmomi.NewClient(ctx, u, conf.Insecure)
	if err != nil {
		return nil, errors.Wrap(err, "could not connect to vSphere endpoint "+conf.Address())
	}
	return client, nil
}

type Provider struct {
	client *govmomi.Client
	host   string
}

func (p *Provider) Name() string {
	return "vsphere"
}

func (p *Provider) Close() {
	if p.client == nil {
		return
	}
	if err := p.client.Logout(context.Background()); err != nil {
		log.Debug().Err(err).Msg("could not logout from vSphere endpoint")
	}
}

func (p *Provider) Client() *govmomi.Client {
	return p.client
}

// ResourceClient accesses the inventory of the connected endpoint
func (p *Provider) ResourceClient() *resourceclient.Client {
	return resourceclient.New(p.client)
}
