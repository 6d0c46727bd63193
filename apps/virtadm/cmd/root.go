package cmd

import (
	"fmt"
	"os"

	isatty "github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/virtadm/virtadm/cli/config"
	"github.com/virtadm/virtadm/cli/printer"
	"github.com/virtadm/virtadm/cli/prompt"
	"github.com/virtadm/virtadm/logger"
)

const rootCmdDesc = "virtadm automates VMware vSphere, Cloud Director and NSX environments\n"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "virtadm",
	Short: "virtadm CLI",
	Long:  rootCmdDesc,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger(cmd)
		config.DisplayUsedConfig()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// normal cli handling
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	logger.CliCompactLogger(logger.LogOutputWriter)
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	config.DefaultConfigFile = "virtadm.yml"

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("log-level", "info", "set log-level: error, warn, info, debug, trace")
	rootCmd.PersistentFlags().StringP("output", "o", "json", "set output format: json, table")
	rootCmd.PersistentFlags().Bool("insecure", false, "skip TLS certificate verification")
	rootCmd.PersistentFlags().String("credentials-dir", "", "set the directory for persisted credentials")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("insecure", rootCmd.PersistentFlags().Lookup("insecure"))
	viper.BindPFlag("credentials-dir", rootCmd.PersistentFlags().Lookup("credentials-dir"))

	config.Init(rootCmd)
}

func initLogger(cmd *cobra.Command) {
	// environment variables always over-write custom flags
	envLevel, ok := logger.GetEnvLogLevel()
	if ok {
		logger.Set(envLevel)
		return
	}

	// retrieve log-level from flags
	level := viper.GetString("log-level")
	if v := viper.GetBool("verbose"); v {
		level = "debug"
	}
	logger.Set(level)
}

func askForPassword(msg string, flagset *flag.FlagSet) {
	// check if we can ask at all
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		log.Fatal().Msg("--ask-pass is only supported when used with a TTY")
	}

	userPassword, err := prompt.Secret(msg)
	if err != nil {
		log.Fatal().Err(err).Msg("could not read the password")
	}
	flagset.Set("password", userPassword)
}

// loadConfig reads the typed configuration, a broken config file aborts
func loadConfig() *config.Config {
	cfg, err := config.Read()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load the configuration")
	}
	return cfg
}

func cliPrinter() *printer.Printer {
	format, err := printer.ParseFormat(viper.GetString("output"))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid output format")
	}
	return printer.New(os.Stdout, format)
}
