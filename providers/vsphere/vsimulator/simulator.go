package vsimulator

import (
	"crypto/tls"

	"github.com/vmware/govmomi/simulator"
)

// the simulator accepts any non-empty login, these are used across tests
const (
	Username = "my-username"
	Password = "my-password"
)

// New starts a vCenter simulator with the VPX inventory model: one
// datacenter with one cluster, four hosts and four virtual machines
func New() (*VsphereSimulator, error) {
	model := simulator.VPX()

	err := model.Create()
	if err != nil {
		return nil, err
	}

	model.Service.TLS = new(tls.Config)
	s := model.Service.NewServer()

	return &VsphereSimulator{
		Model:  model,
		Server: s,
	}, nil
}

type VsphereSimulator struct {
	Model  *simulator.Model
	Server *simulator.Server
}

func (vs *VsphereSimulator) Close() {
	if vs.Server != nil {
		vs.Server.Close()
	}
	if vs.Model != nil {
		vs.Model.Remove()
	}
}
