package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/virtadm/virtadm"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the virtadm version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(virtadm.Info())
	},
}
