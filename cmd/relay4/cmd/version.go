package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the version number",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "relay4 v%s\n", version)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "This is free software with ABSOLUTELY NO WARRANTY.")
		fmt.Fprintln(out, "For details type: relay4 -warranty")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
