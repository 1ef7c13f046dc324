package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/openrelaylab/relay4/pkg/board"
	"github.com/openrelaylab/relay4/pkg/remap"
)

var writeCmd = &cobra.Command{
	Use:   "write <stack> <channel> <on|off>",
	Short: "Switch relays on or off",
	Long: `Switch a single relay, or drive all four from one value. Every write is
verified by reading the relay state back and retried on a mismatch.

Usage:
  relay4 <stack> write <channel> <on|off>
  relay4 <stack> write <value 0..255>

Examples:
  relay4 0 write 2 on    # switch relay 2 on card 0 on
  relay4 0 write 5       # relays 1 and 3 on, 2 and 4 off`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runWrite,
}

func init() {
	rootCmd.AddCommand(writeCmd)
}

func runWrite(cmd *cobra.Command, args []string) error {
	brd, h, err := openBoard(args[0])
	if err != nil {
		return err
	}
	defer h.Close()

	if len(args) == 2 {
		val, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid relay value %q", args[1])
		}
		return brd.SetRelaysVerified(val)
	}

	ch, err := strconv.Atoi(args[1])
	if err != nil || !remap.ValidChannel(ch) {
		return fmt.Errorf("relay number %q out of range [1..%d]", args[1], remap.Channels)
	}
	state, err := board.ParseState(args[2])
	if err != nil {
		return err
	}
	return brd.SetRelayVerified(ch, state)
}
