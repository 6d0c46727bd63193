package vcloud

import (
	"github.com/cockroachdb/errors"
	"github.com/vmware/go-vcloud-director/v2/govcd"
	"github.com/vmware/go-vcloud-director/v2/types/v56"
)

// Organizations lists every organization visible to the authenticated user.
// A tenant user sees its own organization, a system administrator sees all
// of them.
func (p *Provider) Organizations() ([]*types.Org, error) {
	orgs, err := p.client.GetOrgList()
	if err != nil {
		return nil, errors.Wrap(err, "could not list organizations")
	}
	return orgs.Org, nil
}

// Vdcs lists the virtual datacenters of one organization.
func (p *Provider) Vdcs(orgName string) ([]*govcd.Vdc, error) {
	adminOrg, err := p.client.GetAdminOrgByName(orgName)
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch organization "+orgName)
	}

	vdcs, err := adminOrg.GetAllVDCs(false)
	if err != nil {
		return nil, errors.Wrap(err, "could not list virtual datacenters of organization "+orgName)
	}
	return vdcs, nil
}

// Vapps lists the vApps deployed in one virtual datacenter.
func (p *Provider) Vapps(orgName, vdcName string) ([]*types.ResourceReference, error) {
	org, err := p.client.GetOrgByName(orgName)
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch organization "+orgName)
	}

	vdc, err := org.GetVDCByName(vdcName, true)
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch virtual datacenter "+vdcName)
	}
	return vdc.GetVappList(), nil
}
