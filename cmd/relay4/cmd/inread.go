package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/openrelaylab/relay4/pkg/board"
	"github.com/openrelaylab/relay4/pkg/remap"
)

var inreadCmd = &cobra.Command{
	Use:   "inread <stack> [channel]",
	Short: "Read opto input states",
	Long: `Read a single opto input (prints 1 or 0) or all four at once (prints the
logical value 0..15). Inputs are active-low in hardware; a driven input
reads as 1.

Usage:
  relay4 <stack> inread <channel>
  relay4 <stack> inread

Example:
  relay4 0 inread 2    # state of input 2 on card 0`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runInread,
}

func init() {
	rootCmd.AddCommand(inreadCmd)
}

func runInread(cmd *cobra.Command, args []string) error {
	brd, h, err := openBoard(args[0])
	if err != nil {
		return err
	}
	defer h.Close()

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		val, err := brd.Inputs()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d\n", val)
		return nil
	}

	ch, err := strconv.Atoi(args[1])
	if err != nil || !remap.ValidChannel(ch) {
		return fmt.Errorf("input number %q out of range [1..%d]", args[1], remap.Channels)
	}
	state, err := brd.Input(ch)
	if err != nil {
		return err
	}
	if state == board.On {
		fmt.Fprintln(out, "1")
	} else {
		fmt.Fprintln(out, "0")
	}
	return nil
}
