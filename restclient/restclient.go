package restclient

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/virtadm/virtadm/logger"
)

// ErrConnection marks transport failures: DNS, refused connections, TLS
// handshakes and timeouts. Detect it with errors.Is.
var ErrConnection = errors.New("connection failed")

// DefaultTimeout bounds one API call including the response body read
var DefaultTimeout = 5 * time.Minute

// ApiError is a non-2xx answer from the endpoint. The response body is
// carried along since management APIs put the actual error message there.
type ApiError struct {
	StatusCode int
	Status     string
	Body       string
	Method     string
	URL        string
}

func (e *ApiError) Error() string {
	msg := "api error: " + e.Method + " " + e.URL + " returned " + e.Status
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Response is the outcome of one finished API call
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) String() string {
	return string(r.Body)
}

// Decode unmarshals a JSON response body into out. Shape mismatches
// surface as errors, unknown extra fields are tolerated.
func (r *Response) Decode(out interface{}) error {
	err := json.Unmarshal(r.Body, out)
	if err != nil {
		return errors.Wrap(err, "could not decode api response")
	}
	return nil
}

type Option func(*Client)

// WithInsecure disables certificate validation for the connection
func WithInsecure() Option {
	return func(c *Client) {
		if tr, ok := c.http.Transport.(*http.Transport); ok {
			tr.TLSClientConfig = &tls.Config{
				InsecureSkipVerify: true,
			}
		}
	}
}

// WithBasicAuth authorizes every request with the user and password
func WithBasicAuth(user string, password string) Option {
	return func(c *Client) {
		c.user = user
		c.password = password
	}
}

// WithHeader sets a header on every request, e.g. a session token
func WithHeader(key string, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = timeout
	}
}

// Client performs one-shot synchronous calls against a management API.
// There is no retry policy, callers that poll implement their own loop.
type Client struct {
	baseURL  string
	user     string
	password string
	headers  http.Header
	http     *http.Client
}

// New creates a client for the API at baseURL, e.g. https://nsx01.lan
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: http.Header{},
		http: &http.Client{
			// no pooled connections, every invocation is one-shot
			Transport: cleanhttp.DefaultTransport(),
			Timeout:   DefaultTimeout,
		},
	}

	for i := range opts {
		opts[i](c)
	}

	logger.AttachLoggingTransport(c.http)
	return c
}

// Do performs one synchronous call and returns the response. A non-2xx
// status is returned as an *ApiError carrying status code and body, a
// transport failure as an error marked with ErrConnection.
func (c *Client) Do(ctx context.Context, method string, path string, header http.Header, body io.Reader) (*Response, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	for k, vals := range c.headers {
		for i := range vals {
			req.Header.Add(k, vals[i])
		}
	}
	for k, vals := range header {
		req.Header.Del(k)
		for i := range vals {
			req.Header.Add(k, vals[i])
		}
	}
	if c.user != "" {
		req.SetBasicAuth(c.user, c.password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "request failed"), ErrConnection)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "could not read api response"), ErrConnection)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ApiError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(data)),
			Method:     method,
			URL:        url,
		}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, nil)
}

func (c *Client) Post(ctx context.Context, path string, header http.Header, body io.Reader) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, header, body)
}
