package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openrelaylab/relay4/pkg/board"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the cards detected on the bus",
	Long: `Probe all 8 stack addresses and print the number of cards found,
followed by their stack levels.

Example:
  relay4 -list    # prints e.g. "1 board(s) detected" and "Id: 0"`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	h, err := openBusHandle()
	if err != nil {
		return err
	}
	defer h.Close()

	found := board.Scan(h)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d board(s) detected\n", len(found))
	if len(found) == 0 {
		return nil
	}
	// Ids print in descending order, matching the historical tool.
	fmt.Fprint(out, "Id:")
	for i := len(found) - 1; i >= 0; i-- {
		fmt.Fprintf(out, " %d", found[i])
	}
	fmt.Fprintln(out)
	return nil
}
