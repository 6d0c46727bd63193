package resourceclient

import (
	"context"

	"github.com/virtadm/virtadm/internal/workerpool"
	"github.com/vmware/govmomi/find"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/vim25/mo"
)

func HostInfo(host *object.HostSystem) (*mo.HostSystem, error) {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultAPITimeout)
	defer cancel()
	var props mo.HostSystem
	if err := host.Properties(ctx, host.Reference(), nil, &props); err != nil {
		return nil, err
	}
	return &props, nil
}

// CollectHostInfo fetches the properties for all provided hosts concurrently.
// Results keep the order of the input list.
func CollectHostInfo(hosts []*object.HostSystem) ([]*mo.HostSystem, error) {
	tasks := make([]workerpool.Task[*mo.HostSystem], len(hosts))
	for i := range hosts {
		host := hosts[i]
		tasks[i] = func() (*mo.HostSystem, error) {
			return HostInfo(host)
		}
	}
	return workerpool.Run(defaultCollectWorkers, tasks)
}

func HostProperties(host *mo.HostSystem) (map[string]interface{}, error) {
	return PropertiesToDict(host)
}

func (c *Client) ListHosts(dc *object.Datacenter, cluster *object.ClusterComputeResource) ([]*object.HostSystem, error) {
	finder := find.NewFinder(c.Client.Client, true)

	// if we set a datacenter, use that as base path
	if dc != nil {
		finder.SetDatacenter(dc)
	}

	path := "*"

	// a cluster path will replace the datacenter path, since it includes the datacenter
	if cluster != nil {
		path = cluster.InventoryPath + "/*"
	}

	res, err := finder.HostSystemList(context.Background(), path)
	if err != nil && IsNotFound(err) {
		return []*object.HostSystem{}, nil
	} else if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) HostByInventoryPath(path string) (*object.HostSystem, error) {
	finder := find.NewFinder(c.Client.Client, true)
	return finder.HostSystem(context.Background(), path)
}
