package cmd

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/virtadm/virtadm/providers"
	"github.com/virtadm/virtadm/providers/nsx"
	"github.com/virtadm/virtadm/restclient"
	"github.com/virtadm/virtadm/session"
)

func init() {
	registerConnectionFlags(nsxCmd)
	nsxCmd.PersistentFlags().Bool("session-auth", false, "authenticate via session cookie instead of basic auth")

	nsxCmd.AddCommand(nsxVersionCmd)
	nsxCmd.AddCommand(nsxNodeCmd)
	nsxCmd.AddCommand(nsxTransportZonesCmd)
	nsxCmd.AddCommand(nsxLogicalSwitchesCmd)

	nsxCallCmd.Flags().String("data", "", "request body, @file reads a file and - reads stdin")
	nsxCallCmd.Flags().String("grab", "", "print only the value at this field path")
	nsxCallCmd.Flags().Bool("raw", false, "print the response body unparsed")
	nsxCmd.AddCommand(nsxCallCmd)

	rootCmd.AddCommand(nsxCmd)
}

var nsxCmd = &cobra.Command{
	Use:   "nsx",
	Short: "Interact with an NSX manager",
	Long:  ``,
}

func connectNsx(cmd *cobra.Command) *nsx.Provider {
	sess := session.New()
	cfg := loadConfig()

	conf, err := resolveEndpoint(cmd, sess, providers.Backend_NSX, session.NamespaceNsx, cfg.Nsx)
	if err != nil {
		log.Fatal().Err(err).Msg("could not resolve the nsx endpoint")
	}

	if sessionAuth, serr := cmd.Flags().GetBool("session-auth"); serr == nil && sessionAuth {
		conf.Options["session-auth"] = "true"
	}

	p, err := nsx.New(context.Background(), sess, conf)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to nsx")
	}
	return p
}

var nsxVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the product version of the manager",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		p := connectNsx(cmd)
		defer p.Close()

		version, err := p.Version(context.Background())
		if err != nil {
			log.Fatal().Err(err).Msg("could not read the nsx version")
		}
		cliPrinter().Raw(version)
	},
}

var nsxNodeCmd = &cobra.Command{
	Use:   "node",
	Short: "Display the manager node properties",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		p := connectNsx(cmd)
		defer p.Close()

		node, err := p.Node(context.Background())
		if err != nil {
			log.Fatal().Err(err).Msg("could not read the node properties")
		}
		cliPrinter().Result(node, nil, nil)
	},
}

var nsxTransportZonesCmd = &cobra.Command{
	Use:   "transport-zones",
	Short: "List transport zones",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		p := connectNsx(cmd)
		defer p.Close()

		zones, err := p.TransportZones(context.Background())
		if err != nil {
			log.Fatal().Err(err).Msg("could not list transport zones")
		}
		printResult(zones, []string{"Id", "Display Name", "Transport Type", "Host Switch Name"},
			"id", "display_name", "transport_type", "host_switch_name")
	},
}

var nsxLogicalSwitchesCmd = &cobra.Command{
	Use:   "logical-switches",
	Short: "List logical switches",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		p := connectNsx(cmd)
		defer p.Close()

		switches, err := p.LogicalSwitches(context.Background())
		if err != nil {
			log.Fatal().Err(err).Msg("could not list logical switches")
		}
		printResult(switches, []string{"Id", "Display Name", "Transport Zone Id", "Admin State", "Vni"},
			"id", "display_name", "transport_zone_id", "admin_state", "vni")
	},
}

var nsxCallCmd = &cobra.Command{
	Use:   "call METHOD PATH",
	Short: "Call an arbitrary NSX API endpoint",
	Long: `
Sends one request to the manager and prints the response. JSON and XML
responses are parsed, --grab navigates into the parsed document:

virtadm nsx call GET /api/v1/node --grab /product_version
`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		p := connectNsx(cmd)
		defer p.Close()

		body, err := requestBody(cmd)
		if err != nil {
			log.Fatal().Err(err).Msg("could not read the request body")
		}

		resp, err := p.Call(context.Background(), strings.ToUpper(args[0]), args[1], body)
		if err != nil {
			log.Fatal().Err(err).Msg("nsx api call failed")
		}

		raw, _ := cmd.Flags().GetBool("raw")
		grab, _ := cmd.Flags().GetString("grab")
		printResponse(resp, raw, grab)
	},
}

// requestBody turns the --data flag into a reader, curl-style
func requestBody(cmd *cobra.Command) (io.Reader, error) {
	data, err := cmd.Flags().GetString("data")
	if err != nil || data == "" {
		return nil, nil
	}
	if data == "-" {
		return os.Stdin, nil
	}
	if strings.HasPrefix(data, "@") {
		f, err := os.Open(strings.TrimPrefix(data, "@"))
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	return strings.NewReader(data), nil
}

func printResponse(resp *restclient.Response, raw bool, grab string) {
	out := cliPrinter()
	if raw {
		out.Raw(resp.String())
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "xml") {
		node, err := restclient.ParseXML(resp.Body)
		if err != nil {
			log.Fatal().Err(err).Msg("could not parse the response")
		}
		if grab != "" {
			value, err := node.GrabString(grab)
			if err != nil {
				log.Fatal().Err(err).Msg("could not navigate the response")
			}
			out.Raw(value)
			return
		}
		out.Raw(resp.String())
		return
	}

	doc, err := restclient.ParseJSON(resp.Body)
	if err != nil {
		log.Fatal().Err(err).Msg("could not parse the response")
	}
	if grab != "" {
		value, err := doc.Grab(grab)
		if err != nil {
			log.Fatal().Err(err).Msg("could not navigate the response")
		}
		if err := out.JSON(value); err != nil {
			log.Fatal().Err(err).Msg("could not render the response")
		}
		return
	}

	value, err := doc.Value()
	if err != nil {
		log.Fatal().Err(err).Msg("could not decode the response")
	}
	if err := out.JSON(value); err != nil {
		log.Fatal().Err(err).Msg("could not render the response")
	}
}
