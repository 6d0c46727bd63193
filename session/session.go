package session

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/kofalt/go-memoize"
	cache "github.com/patrickmn/go-cache"
)

// cache namespaces, one per target system
const (
	NamespaceVsphere     = "vsphere"
	NamespaceVcloud      = "vcloud"
	NamespaceNsx         = "nsx"
	NamespaceTerraform   = "terraform"
	NamespaceCredentials = "credentials"
)

// Session is the per-process cache of resolved values: servers, tokens,
// credentials and live connection handles. Callers construct one and pass
// it down, there is no package-level state. Entries are last-write-wins
// and live until the process exits, nothing expires.
type Session struct {
	mu      sync.RWMutex
	values  map[string]string
	handles map[string]interface{}
	dialer  *memoize.Memoizer
}

func New() *Session {
	return &Session{
		values:  map[string]string{},
		handles: map[string]interface{}{},
		dialer:  memoize.NewMemoizer(cache.NoExpiration, 0),
	}
}

func scoped(namespace string, key string) string {
	return namespace + "/" + key
}

// Set stores a value under the namespace-scoped key, overwriting any
// previous value
func (s *Session) Set(namespace string, key string, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[scoped(namespace, key)] = value
}

// Get returns the value stored under the namespace-scoped key
func (s *Session) Get(namespace string, key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[scoped(namespace, key)]
	return v, ok
}

// Sync reconciles a provided value with the cache: a non-empty provided
// value is stored and returned, otherwise the cached value is returned.
// When neither is present, mandatory decides between an error and an
// empty result.
func (s *Session) Sync(namespace string, name string, provided string, mandatory bool) (string, error) {
	if provided != "" {
		s.Set(namespace, name, provided)
		return provided, nil
	}

	if v, ok := s.Get(namespace, name); ok {
		return v, nil
	}

	if mandatory {
		return "", errors.Newf("no value provided for %s and none cached in this session", name)
	}
	return "", nil
}

// SetHandle stores an opaque handle, e.g. a resolved credential
func (s *Session) SetHandle(namespace string, key string, handle interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.handles[scoped(namespace, key)] = handle
}

// Handle returns the opaque handle stored under the namespace-scoped key
func (s *Session) Handle(namespace string, key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.handles[scoped(namespace, key)]
	return h, ok
}

// Dial returns the connection for the key, dialing at most once per key
// within the process. Concurrent calls for the same key share one dial and
// a failed dial is not cached, the next call dials again. The second
// return reports whether the connection came from the cache.
func (s *Session) Dial(namespace string, key string, dial func() (interface{}, error)) (interface{}, bool, error) {
	conn, err, cached := s.dialer.Memoize(scoped(namespace, key), dial)
	if err != nil {
		return nil, false, err
	}
	return conn, cached, nil
}
