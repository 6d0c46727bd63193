package logger

import (
	"net/http"
	"net/http/httputil"

	"github.com/rs/zerolog/log"
)

type loggingTransport struct {
	transport http.RoundTripper
}

func (t *loggingTransport) RoundTrip(request *http.Request) (*http.Response, error) {
	dump, err := httputil.DumpRequestOut(request, true)
	if err != nil {
		return nil, err
	}
	log.Trace().Msg(string(dump))

	response, err := t.transport.RoundTrip(request)
	if err != nil {
		return nil, err
	}

	dump, err = httputil.DumpResponse(response, true)
	if err != nil {
		return response, nil
	}
	log.Trace().Msg(string(dump))
	return response, nil
}

// AttachLoggingTransport wraps the client transport so that requests and
// responses are dumped at trace level
func AttachLoggingTransport(client *http.Client) {
	client.Transport = &loggingTransport{
		transport: client.Transport,
	}
}
