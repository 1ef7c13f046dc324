package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/openrelaylab/relay4/pkg/board"
	"github.com/openrelaylab/relay4/pkg/remap"
)

var readCmd = &cobra.Command{
	Use:   "read <stack> [channel]",
	Short: "Read relay states",
	Long: `Read a single relay (prints 1 or 0) or all four at once (prints the
logical value 0..15).

Usage:
  relay4 <stack> read <channel>
  relay4 <stack> read

Example:
  relay4 0 read 2    # state of relay 2 on card 0`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)
}

func runRead(cmd *cobra.Command, args []string) error {
	brd, h, err := openBoard(args[0])
	if err != nil {
		return err
	}
	defer h.Close()

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		val, err := brd.Relays()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d\n", val)
		return nil
	}

	ch, err := strconv.Atoi(args[1])
	if err != nil || !remap.ValidChannel(ch) {
		return fmt.Errorf("relay number %q out of range [1..%d]", args[1], remap.Channels)
	}
	state, err := brd.Relay(ch)
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
