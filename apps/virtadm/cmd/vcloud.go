package cmd

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/virtadm/virtadm/cli/printer"
	"github.com/virtadm/virtadm/providers"
	"github.com/virtadm/virtadm/providers/vcloud"
	"github.com/virtadm/virtadm/session"
	types "github.com/vmware/go-vcloud-director/v2/types/v56"
)

func init() {
	registerConnectionFlags(vcloudCmd)
	vcloudCmd.PersistentFlags().String("org", "", "organization to work in, defaults to the configured one")

	vcloudCmd.AddCommand(vcloudOrgsCmd)
	vcloudCmd.AddCommand(vcloudVdcsCmd)

	vcloudVappsCmd.Flags().String("vdc", "", "virtual datacenter holding the vApps")
	vcloudVappsCmd.MarkFlagRequired("vdc")
	vcloudCmd.AddCommand(vcloudVappsCmd)

	vcloudTaskCmd.Flags().Bool("wait", false, "poll the task until it finishes")
	vcloudTaskCmd.Flags().Duration("interval", vcloud.DefaultPollInterval, "poll interval while waiting")
	vcloudTaskCmd.Flags().Duration("timeout", vcloud.DefaultPollTimeout, "maximum time to wait for the task")
	vcloudCmd.AddCommand(vcloudTaskCmd)

	rootCmd.AddCommand(vcloudCmd)
}

var vcloudCmd = &cobra.Command{
	Use:   "vcloud",
	Short: "Interact with a VMware Cloud Director endpoint",
	Long:  ``,
}

func connectVcloud(cmd *cobra.Command) *vcloud.Provider {
	sess := session.New()
	cfg := loadConfig()

	conf, err := resolveEndpoint(cmd, sess, providers.Backend_VCLOUD, session.NamespaceVcloud, cfg.Vcloud)
	if err != nil {
		log.Fatal().Err(err).Msg("could not resolve the cloud director endpoint")
	}

	org, _ := cmd.Flags().GetString("org")
	if org == "" {
		org = cfg.Vcloud.GetOrganization()
	}
	if org != "" {
		conf.Options["organization"] = org
	}

	p, err := vcloud.New(sess, conf)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to cloud director")
	}
	return p
}

type orgView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full-name"`
	Enabled  bool   `json:"enabled"`
}

var vcloudOrgsCmd = &cobra.Command{
	Use:   "orgs",
	Short: "List organizations",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		p := connectVcloud(cmd)
		defer p.Close()

		orgs, err := p.Organizations()
		if err != nil {
			log.Fatal().Err(err).Msg("could not list organizations")
		}

		res := make([]orgView, 0, len(orgs))
		for i := range orgs {
			res = append(res, orgView{
				ID:       orgs[i].ID,
				Name:     orgs[i].Name,
				FullName: orgs[i].FullName,
				Enabled:  orgs[i].IsEnabled,
			})
		}
		printResult(res, []string{"Name", "Full Name", "Enabled"}, "name", "full-name", "enabled")
	},
}

type vdcView struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	AllocationModel string `json:"allocation-model"`
	Enabled         bool   `json:"enabled"`
}

var vcloudVdcsCmd = &cobra.Command{
	Use:   "vdcs",
	Short: "List virtual datacenters of an organization",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		p := connectVcloud(cmd)
		defer p.Close()

		vdcs, err := p.Vdcs(p.Org())
		if err != nil {
			log.Fatal().Err(err).Msg("could not list virtual datacenters")
		}

		res := make([]vdcView, 0, len(vdcs))
		for i := range vdcs {
			res = append(res, vdcView{
				ID:              vdcs[i].Vdc.ID,
				Name:            vdcs[i].Vdc.Name,
				AllocationModel: vdcs[i].Vdc.AllocationModel,
				Enabled:         vdcs[i].Vdc.IsEnabled,
			})
		}
		printResult(res, []string{"Name", "Allocation Model", "Enabled"}, "name", "allocation-model", "enabled")
	},
}

type vappView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

var vcloudVappsCmd = &cobra.Command{
	Use:   "vapps",
	Short: "List vApps of a virtual datacenter",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		p := connectVcloud(cmd)
		defer p.Close()

		vdc, _ := cmd.Flags().GetString("vdc")
		vapps, err := p.Vapps(p.Org(), vdc)
		if err != nil {
			log.Fatal().Err(err).Msg("could not list vapps")
		}

		res := make([]vappView, 0, len(vapps))
		for i := range vapps {
			res = append(res, vappView{
				ID:     vapps[i].ID,
				Name:   vapps[i].Name,
				Status: vapps[i].Status,
			})
		}
		printResult(res, []string{"Name", "Status"}, "name", "status")
	},
}

type taskView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	Operation string `json:"operation,omitempty"`
	Details   string `json:"details,omitempty"`
}

func newTaskView(task *types.Task) taskView {
	if task == nil {
		return taskView{}
	}
	return taskView{
		ID:        task.ID,
		Name:      task.Name,
		Status:    task.Status,
		Operation: task.Operation,
		Details:   task.Details,
	}
}

var vcloudTaskCmd = &cobra.Command{
	Use:   "task TASKID",
	Short: "Display a task, optionally waiting for it to finish",
	Long: `
Shows the current state of a Cloud Director task. With --wait the task is
polled until it reaches a terminal state or the timeout expires.
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p := connectVcloud(cmd)
		defer p.Close()

		wait, _ := cmd.Flags().GetBool("wait")
		if !wait {
			task, err := p.Task(args[0])
			if err != nil {
				log.Fatal().Err(err).Msg("could not retrieve the task")
			}
			printTask(task)
			return
		}

		interval, _ := cmd.Flags().GetDuration("interval")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		task, err := p.WaitTask(context.Background(), args[0], interval, timeout)

		var failed *vcloud.TaskFailedError
		switch {
		case err == nil:
			printTask(task)
		case errors.As(err, &failed):
			// the terminal task is still shown so callers see its details
			printTask(task)
			log.Fatal().Err(err).Msg("task failed")
		case errors.Is(err, vcloud.ErrTaskTimeout):
			log.Fatal().Err(err).Msg("task did not finish in time")
		default:
			log.Fatal().Err(err).Msg("could not wait for the task")
		}
	},
}

func printTask(task *types.Task) {
	view := newTaskView(task)
	out := cliPrinter()
	rows, err := printer.MarshalRows([]taskView{view}, "id", "name", "status", "details")
	if err != nil {
		log.Fatal().Err(err).Msg("could not render the task")
	}
	if err := out.Result(view, []string{"Id", "Name", "Status", "Details"}, rows); err != nil {
		log.Fatal().Err(err).Msg("could not render the task")
	}
}
