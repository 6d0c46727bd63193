package resourceclient

import (
	"context"

	"github.com/virtadm/virtadm/internal/workerpool"
	"github.com/vmware/govmomi/find"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/vim25/mo"
)

func VmInfo(vm *object.VirtualMachine) (*mo.VirtualMachine, error) {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultAPITimeout)
	defer cancel()
	var props mo.VirtualMachine
	if err := vm.Properties(ctx, vm.Reference(), nil, &props); err != nil {
		return nil, err
	}
	return &props, nil
}

// CollectVmInfo fetches the properties for all provided virtual machines
// concurrently. Results keep the order of the input list.
func CollectVmInfo(vms []*object.VirtualMachine) ([]*mo.VirtualMachine, error) {
	tasks := make([]workerpool.Task[*mo.VirtualMachine], len(vms))
	for i := range vms {
		vm := vms[i]
		tasks[i] = func() (*mo.VirtualMachine, error) {
			return VmInfo(vm)
		}
	}
	return workerpool.Run(defaultCollectWorkers, tasks)
}

func VmProperties(vm *mo.VirtualMachine) (map[string]interface{}, error) {
	return PropertiesToDict(vm)
}

func (c *Client) ListVirtualMachines(dc *object.Datacenter) ([]*object.VirtualMachine, error) {
	finder := find.NewFinder(c.Client.Client, true)
	finder.SetDatacenter(dc)
	res, err := finder.VirtualMachineList(context.Background(), "*")
	if err != nil && IsNotFound(err) {
		return []*object.VirtualMachine{}, nil
	} else if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) VirtualMachineByInventoryPath(path string) (*object.VirtualMachine, error) {
	finder := find.NewFinder(c.Client.Client, true)
	return finder.VirtualMachine(context.Background(), path)
}
