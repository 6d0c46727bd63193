package cmd

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/virtadm/virtadm/cli/printer"
	"github.com/virtadm/virtadm/providers"
	"github.com/virtadm/virtadm/providers/vsphere"
	"github.com/virtadm/virtadm/providers/vsphere/resourceclient"
	"github.com/virtadm/virtadm/session"
)

func init() {
	registerConnectionFlags(vsphereCmd)

	vsphereCmd.AddCommand(vsphereAboutCmd)
	vsphereCmd.AddCommand(vsphereDatacentersCmd)
	vsphereCmd.AddCommand(vsphereClustersCmd)
	vsphereCmd.AddCommand(vsphereHostsCmd)
	vsphereCmd.AddCommand(vsphereVmsCmd)
	vsphereCmd.AddCommand(vsphereLicensesCmd)

	rootCmd.AddCommand(vsphereCmd)
}

var vsphereCmd = &cobra.Command{
	Use:   "vsphere",
	Short: "Interact with a vCenter or standalone ESXi host",
	Long:  ``,
}

func connectVsphere(cmd *cobra.Command) *vsphere.Provider {
	sess := session.New()
	cfg := loadConfig()

	conf, err := resolveEndpoint(cmd, sess, providers.Backend_VSPHERE, session.NamespaceVsphere, cfg.Vsphere)
	if err != nil {
		log.Fatal().Err(err).Msg("could not resolve the vsphere endpoint")
	}

	p, err := vsphere.New(context.Background(), sess, conf)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to vsphere")
	}
	return p
}

var vsphereAboutCmd = &cobra.Command{
	Use:   "about",
	Short: "Display version information of the endpoint",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		p := connectVsphere(cmd)
		defer p.Close()

		info, err := p.ResourceClient().AboutInfo()
		if err != nil {
			log.Fatal().Err(err).Msg("could not read about info")
		}
		cliPrinter().Result(info, nil, nil)
	},
}

type datacenterView struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

var vsphereDatacentersCmd = &cobra.Command{
	Use:   "datacenters",
	Short: "List datacenters",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		p := connectVsphere(cmd)
		defer p.Close()

		dcs, err := p.ResourceClient().ListDatacenters()
		if err != nil {
			log.Fatal().Err(err).Msg("could not list datacenters")
		}

		res := make([]datacenterView, 0, len(dcs))
		for i := range dcs {
			res = append(res, datacenterView{
				Name: dcs[i].Name(),
				Path: dcs[i].InventoryPath,
			})
		}
		printResult(res, []string{"Name", "Path"}, "name", "path")
	},
}

type clusterView struct {
	Datacenter string `json:"datacenter"`
	Name       string `json:"name"`
	Path       string `json:"path"`
}

var vsphereClustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "List compute clusters",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		p := connectVsphere(cmd)
		defer p.Close()

		client := p.ResourceClient()
		dcs, err := client.ListDatacenters()
		if err != nil {
			log.Fatal().Err(err).Msg("could not list datacenters")
		}

		res := []clusterView{}
		for i := range dcs {
			clusters, err := client.ListClusters(dcs[i])
			if err != nil {
				log.Fatal().Err(err).Msg("could not list clusters")
			}
			for j := range clusters {
				res = append(res, clusterView{
					Datacenter: dcs[i].Name(),
					Name:       clusters[j].Name(),
					Path:       clusters[j].InventoryPath,
				})
			}
		}
		printResult(res, []string{"Datacenter", "Name", "Path"}, "datacenter", "name", "path")
	},
}

type hostView struct {
	Datacenter      string `json:"datacenter"`
	Name            string `json:"name"`
	ConnectionState string `json:"connection-state"`
	PowerState      string `json:"power-state"`
}

var vsphereHostsCmd = &cobra.Command{
	Use:   "hosts",
	Short: "List ESXi hosts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		p := connectVsphere(cmd)
		defer p.Close()

		client := p.ResourceClient()
		dcs, err := client.ListDatacenters()
		if err != nil {
			log.Fatal().Err(err).Msg("could not list datacenters")
		}

		res := []hostView{}
		for i := range dcs {
			hosts, err := client.ListHosts(dcs[i], nil)
			if err != nil {
				log.Fatal().Err(err).Msg("could not list hosts")
			}
			props, err := resourceclient.CollectHostInfo(hosts)
			if err != nil {
				log.Fatal().Err(err).Msg("could not read host properties")
			}
			for j := range hosts {
				view := hostView{
					Datacenter: dcs[i].Name(),
					Name:       hosts[j].Name(),
				}
				if props[j].Summary.Runtime != nil {
					view.ConnectionState = string(props[j].Summary.Runtime.ConnectionState)
					view.PowerState = string(props[j].Summary.Runtime.PowerState)
				}
				res = append(res, view)
			}
		}
		printResult(res, []string{"Datacenter", "Name", "Connection State", "Power State"},
			"datacenter", "name", "connection-state", "power-state")
	},
}

type vmView struct {
	Datacenter string `json:"datacenter"`
	Name       string `json:"name"`
	PowerState string `json:"power-state"`
	NumCpu     int32  `json:"cpus"`
	MemoryMB   int32  `json:"memory-mb"`
}

var vsphereVmsCmd = &cobra.Command{
	Use:   "vms",
	Short: "List virtual machines",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		p := connectVsphere(cmd)
		defer p.Close()

		client := p.ResourceClient()
		dcs, err := client.ListDatacenters()
		if err != nil {
			log.Fatal().Err(err).Msg("could not list datacenters")
		}

		res := []vmView{}
		for i := range dcs {
			vms, err := client.ListVirtualMachines(dcs[i])
			if err != nil {
				log.Fatal().Err(err).Msg("could not list virtual machines")
			}
			props, err := resourceclient.CollectVmInfo(vms)
			if err != nil {
				log.Fatal().Err(err).Msg("could not read vm properties")
			}
			for j := range vms {
				res = append(res, vmView{
					Datacenter: dcs[i].Name(),
					Name:       vms[j].Name(),
					PowerState: string(props[j].Summary.Runtime.PowerState),
					NumCpu:     props[j].Summary.Config.NumCpu,
					MemoryMB:   props[j].Summary.Config.MemorySizeMB,
				})
			}
		}
		printResult(res, []string{"Datacenter", "Name", "Power State", "Cpus", "Memory Mb"},
			"datacenter", "name", "power-state", "cpus", "memory-mb")
	},
}

type licenseView struct {
	Name  string `json:"name"`
	Total int32  `json:"total"`
	Used  int32  `json:"used"`
}

var vsphereLicensesCmd = &cobra.Command{
	Use:   "licenses",
	Short: "List assigned licenses",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		p := connectVsphere(cmd)
		defer p.Close()

		licenses, err := p.ResourceClient().ListLicenses()
		if err != nil {
			log.Fatal().Err(err).Msg("could not list licenses")
		}

		res := make([]licenseView, 0, len(licenses))
		for i := range licenses {
			res = append(res, licenseView{
				Name:  licenses[i].Name,
				Total: licenses[i].Total,
				Used:  licenses[i].Used,
			})
		}
		printResult(res, []string{"Name", "Total", "Used"}, "name", "total", "used")
	},
}

// printResult renders a list result in the configured output format
func printResult(obj interface{}, header []string, fields ...string) {
	out := cliPrinter()
	rows, err := printer.MarshalRows(obj, fields...)
	if err != nil {
		log.Fatal().Err(err).Msg("could not render the result")
	}
	if err := out.Result(obj, header, rows); err != nil {
		log.Fatal().Err(err).Msg("could not render the result")
	}
}
