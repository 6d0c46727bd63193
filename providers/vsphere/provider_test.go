package vsphere

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/virtadm/virtadm/providers"
	"github.com/virtadm/virtadm/providers/vsphere/vsimulator"
	"github.com/virtadm/virtadm/session"
	"github.com/virtadm/virtadm/vault"
)

func simulatorConfig(t *testing.T, vs *vsimulator.VsphereSimulator) *providers.Config {
	t.Helper()
	port, err := strconv.Atoi(vs.Server.URL.Port())
	require.NoError(t, err)

	return providers.NewConfig(providers.Backend_VSPHERE, vs.Server.URL.Hostname(),
		providers.WithPort(int32(port)),
		providers.WithInsecure(),
		providers.WithCredential(vault.NewPasswordCredential(vsimulator.Username, vsimulator.Password)),
	)
}

func TestConnect(t *testing.T) {
	vs, err := vsimulator.New()
	require.NoError(t, err)
	defer vs.Close()

	sess := session.New()
	p, err := New(context.Background(), sess, simulatorConfig(t, vs))
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, "vsphere", p.Name())

	about, err := p.ResourceClient().AboutInfo()
	require.NoError(t, err)
	assert.NotEmpty(t, about["FullName"])
}

func TestConnectionReusedWithinSession(t *testing.T) {
	vs, err := vsimulator.New()
	require.NoError(t, err)
	defer vs.Close()

	conf := simulatorConfig(t, vs)
	sess := session.New()

	p1, err := New(context.Background(), sess, conf)
	require.NoError(t, err)
	p2, err := New(context.Background(), sess, conf)
	require.NoError(t, err)

	assert.Same(t, p1.Client(), p2.Client())

	// a fresh session dials again
	p3, err := New(context.Background(), session.New(), conf)
	require.NoError(t, err)
	assert.NotSame(t, p1.Client(), p3.Client())
	p3.Close()
	p1.Close()
}

func TestConnectMissingCredential(t *testing.T) {
	conf := providers.NewConfig(providers.Backend_VSPHERE, "vcenter.lan")
	_, err := New(context.Background(), session.New(), conf)
	assert.Error(t, err)
}
