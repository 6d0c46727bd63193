package cmd

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/virtadm/virtadm/tfrun"
)

func init() {
	terraformCmd.PersistentFlags().String("dir", "", "working directory for terraform, defaults to the configured one")

	registerPlanFlags := func(cmd *cobra.Command) {
		cmd.Flags().String("vars", "", "JSON file with input variables")
		cmd.Flags().StringArray("var", nil, "set an input variable, multiple via --var key=value")
	}

	registerPlanFlags(terraformPlanCmd)
	terraformCmd.AddCommand(terraformPlanCmd)

	registerPlanFlags(terraformApplyCmd)
	terraformApplyCmd.Flags().Bool("auto-approve", false, "apply without interactive confirmation")
	terraformCmd.AddCommand(terraformApplyCmd)

	registerPlanFlags(terraformDestroyCmd)
	terraformDestroyCmd.Flags().Bool("auto-approve", false, "destroy without interactive confirmation")
	terraformCmd.AddCommand(terraformDestroyCmd)

	terraformVersionCmd.Flags().String("min", "", "fail when the binary is older than this version")
	terraformCmd.AddCommand(terraformVersionCmd)

	rootCmd.AddCommand(terraformCmd)
}

var terraformCmd = &cobra.Command{
	Use:     "terraform",
	Aliases: []string{"tf"},
	Short:   "Run terraform deployments",
	Long:    ``,
}

func terraformRunner(cmd *cobra.Command) *tfrun.Runner {
	cfg := loadConfig()

	runner := &tfrun.Runner{
		Binary: cfg.Terraform.Binary,
		Dir:    cfg.Terraform.Dir,
	}
	if dir, err := cmd.Flags().GetString("dir"); err == nil && dir != "" {
		runner.Dir = dir
	}

	// a configured minimum version gates every terraform run
	if cfg.Terraform.MinVersion != "" {
		if _, err := runner.RequireVersion(context.Background(), cfg.Terraform.MinVersion); err != nil {
			log.Fatal().Err(err).Msg("terraform version check failed")
		}
	}
	return runner
}

// terraformOptions collects input variables from --vars and --var
func terraformOptions(cmd *cobra.Command) tfrun.Options {
	opts := tfrun.Options{Vars: map[string]interface{}{}}

	varsFile, err := cmd.Flags().GetString("vars")
	if err == nil && varsFile != "" {
		vars, err := tfrun.LoadVarsFile(afero.NewOsFs(), varsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("could not load the variables file")
		}
		opts.Vars = vars
	}

	// single --var assignments win over the file
	kvs, err := cmd.Flags().GetStringArray("var")
	if err == nil {
		for i := range kvs {
			parts := strings.SplitN(kvs[i], "=", 2)
			if len(parts) != 2 {
				log.Fatal().Str("var", kvs[i]).Msg("invalid variable, expected key=value")
			}
			opts.Vars[parts[0]] = parts[1]
		}
	}

	if autoApprove, err := cmd.Flags().GetBool("auto-approve"); err == nil {
		opts.AutoApprove = autoApprove
	}
	return opts
}

var terraformPlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the changes a deployment would make",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runner := terraformRunner(cmd)

		res, changes, err := runner.Plan(context.Background(), terraformOptions(cmd))
		if err != nil {
			log.Fatal().Err(err).Msg("terraform plan failed")
		}

		cliPrinter().Raw(res.Stdout)
		if changes {
			log.Info().Msg("the plan contains changes")
		} else {
			log.Info().Msg("no changes, the deployment is up to date")
		}
	},
}

var terraformApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a deployment",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runner := terraformRunner(cmd)

		res, err := runner.Apply(context.Background(), terraformOptions(cmd))
		if err != nil {
			log.Fatal().Err(err).Msg("terraform apply failed")
		}
		cliPrinter().Raw(res.Stdout)
	},
}

var terraformDestroyCmd = &cobra.Command{
	Use:   "destroy",
	Short: "Destroy a deployment",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runner := terraformRunner(cmd)

		res, err := runner.Destroy(context.Background(), terraformOptions(cmd))
		if err != nil {
			log.Fatal().Err(err).Msg("terraform destroy failed")
		}
		cliPrinter().Raw(res.Stdout)
	},
}

var terraformVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the terraform version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		runner := &tfrun.Runner{
			Binary: cfg.Terraform.Binary,
			Dir:    cfg.Terraform.Dir,
		}

		min, _ := cmd.Flags().GetString("min")
		var info *tfrun.VersionInfo
		var err error
		if min != "" {
			info, err = runner.RequireVersion(context.Background(), min)
		} else {
			info, err = runner.Version(context.Background())
		}
		if err != nil {
			log.Fatal().Err(err).Msg("could not determine the terraform version")
		}
		cliPrinter().Result(info, nil, nil)
	},
}
