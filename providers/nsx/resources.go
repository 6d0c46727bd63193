package nsx

import (
	"context"
)

// NodeProperties is the manager node description at /api/v1/node
type NodeProperties struct {
	Hostname       string `json:"hostname"`
	NodeType       string `json:"node_type"`
	NodeVersion    string `json:"node_version"`
	ProductVersion string `json:"product_version"`
	KernelVersion  string `json:"kernel_version"`
}

func (p *Provider) Node(ctx context.Context) (*NodeProperties, error) {
	resp, err := p.client.Get(ctx, "/api/v1/node")
	if err != nil {
		return nil, err
	}

	var node NodeProperties
	if err := resp.Decode(&node); err != nil {
		return nil, err
	}
	return &node, nil
}

// Version returns the product version reported by the manager node
func (p *Provider) Version(ctx context.Context) (string, error) {
	node, err := p.Node(ctx)
	if err != nil {
		return "", err
	}
	return node.ProductVersion, nil
}

// TransportZone is one entry of /api/v1/transport-zones
type TransportZone struct {
	ID             string `json:"id"`
	DisplayName    string `json:"display_name"`
	TransportType  string `json:"transport_type"`
	HostSwitchName string `json:"host_switch_name"`
	HostSwitchMode string `json:"host_switch_mode"`
	Description    string `json:"description,omitempty"`
}

type transportZoneList struct {
	ResultCount int             `json:"result_count"`
	Results     []TransportZone `json:"results"`
}

func (p *Provider) TransportZones(ctx context.Context) ([]TransportZone, error) {
	resp, err := p.client.Get(ctx, "/api/v1/transport-zones")
	if err != nil {
		return nil, err
	}

	var list transportZoneList
	if err := resp.Decode(&list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

// LogicalSwitch is one entry of /api/v1/logical-switches
type LogicalSwitch struct {
	ID              string `json:"id"`
	DisplayName     string `json:"display_name"`
	TransportZoneID string `json:"transport_zone_id"`
	AdminState      string `json:"admin_state"`
	ReplicationMode string `json:"replication_mode,omitempty"`
	Vni             int    `json:"vni,omitempty"`
}

type logicalSwitchList struct {
	ResultCount int             `json:"result_count"`
	Results     []LogicalSwitch `json:"results"`
}

func (p *Provider) LogicalSwitches(ctx context.Context) ([]LogicalSwitch, error) {
	resp, err := p.client.Get(ctx, "/api/v1/logical-switches")
	if err != nil {
		return nil, err
	}

	var list logicalSwitchList
	if err := resp.Decode(&list); err != nil {
		return nil, err
	}
	return list.Results, nil
}
