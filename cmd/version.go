package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newVersionCmd creates the cobra command for displaying the application
// version.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of stride",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stride version %s\n", rootCmd.Version)
		},
	}
}
