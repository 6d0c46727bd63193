package nsx

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"github.com/virtadm/virtadm/providers"
	"github.com/virtadm/virtadm/restclient"
	"github.com/virtadm/virtadm/session"
	"github.com/virtadm/virtadm/vault"
)

var _ providers.Instance = (*Provider)(nil)

const (
	sessionCreatePath = "/api/session/create"
	xsrfTokenHeader   = "X-XSRF-TOKEN"
)

// New connects to the NSX manager. Basic auth is the default, the
// session-auth option switches to a session token created once per process
// and cached in the session for later providers.
func New(ctx context.Context, sess *session.Session, conf *providers.Config) (*Provider, error) {
	if conf.Credential == nil {
		return nil, errors.New("missing credentials for NSX manager")
	}
	cred := conf.Credential

	opts := struct {
		SessionAuth bool `mapstructure:"session-auth"`
	}{}
	if err := providers.DecodeOptions(conf.Options, &opts); err != nil {
		return nil, err
	}

	baseURL := "https://" + conf.Address()

	clientOpts := []restclient.Option{}
	if conf.Insecure {
		clientOpts = append(clientOpts, restclient.WithInsecure())
	}

	if !opts.SessionAuth {
		clientOpts = append(clientOpts, restclient.WithBasicAuth(cred.User, cred.Password()))
		return &Provider{
			client: restclient.New(baseURL, clientOpts...),
			host:   conf.Host,
		}, nil
	}

	key := conf.Address() + "-" + cred.User
	cookie, okCookie := sess.Get(session.NamespaceNsx, key+"/cookie")
	token, okToken := sess.Get(session.NamespaceNsx, key+"/xsrf-token")
	if okCookie && okToken {
		log.Debug().Str("endpoint", conf.Address()).Msg("reusing nsx session token")
	} else {
		var err error
		cookie, token, err = createSession(ctx, baseURL, cred, conf.Insecure)
		if err != nil {
			return nil, err
		}
		sess.Set(session.NamespaceNsx, key+"/cookie", cookie)
		sess.Set(session.NamespaceNsx, key+"/xsrf-token", token)
	}

	clientOpts = append(clientOpts,
		restclient.WithHeader("Cookie", cookie),
		restclient.WithHeader(xsrfTokenHeader, token),
	)
	return &Provider{
		client: restclient.New(baseURL, clientOpts...),
		host:   conf.Host,
	}, nil
}

// createSession posts the credentials to the session endpoint and returns
// the session cookie and anti-CSRF token every later call must carry.
func createSession(ctx context.Context, baseURL string, cred *vault.Credential, insecure bool) (string, string, error) {
	opts := []restclient.Option{}
	if insecure {
		opts = append(opts, restclient.WithInsecure())
	}
	c := restclient.New(baseURL, opts...)

	form := url.Values{}
	form.Set("j_username", cred.User)
	form.Set("j_password", cred.Password())

	header := http.Header{}
	header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.Post(ctx, sessionCreatePath, header, strings.NewReader(form.Encode()))
	if err != nil {
		return "", "", errors.Wrap(err, "could not create nsx session")
	}

	token := resp.Header.Get(xsrfTokenHeader)
	cookie := sessionCookie(resp.Header)
	if cookie == "" || token == "" {
		return "", "", errors.New("nsx session create answered without session cookie or token")
	}
	return cookie, token, nil
}

// sessionCookie reduces the Set-Cookie headers to the name=value pairs a
// follow-up request sends back.
func sessionCookie(header http.Header) string {
	pairs := []string{}
	for _, sc := range header.Values("Set-Cookie") {
		if i := strings.Index(sc, ";"); i >= 0 {
			sc = sc[:i]
		}
		sc = strings.TrimSpace(sc)
		if sc != "" {
			pairs = append(pairs, sc)
		}
	}
	return strings.Join(pairs, "; ")
}

type Provider struct {
	client *restclient.Client
	host   string
}

func (p *Provider) Name() string {
	return "nsx"
}

func (p *Provider) Close() {}

func (p *Provider) Client() *restclient.Client {
	return p.client
}

// Call performs an arbitrary API call against the manager, for endpoints
// this tool carries no typed accessor for.
func (p *Provider) Call(ctx context.Context, method string, path string, body io.Reader) (*restclient.Response, error) {
	return p.client.Do(ctx, method, path, nil, body)
}
