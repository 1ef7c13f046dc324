package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/phsym/console-slog"
	"github.com/spf13/cobra"

	"github.com/openrelaylab/relay4/pkg/board"
	"github.com/openrelaylab/relay4/pkg/bus"
)

var (
	// Global flags
	verbose bool
	busName string
)

var rootCmd = &cobra.Command{
	Use:   "relay4",
	Short: "Control stackable 4-relay/4-input I2C cards",
	Long: `relay4 drives up to 8 stacked 4-relay/4-input expansion cards on one
I2C bus. Cards are addressed by their stack level (0..7, set by jumpers).

The historical argument order is still accepted: the stack level may come
before the command name, and the old dash options map to subcommands.

Examples:
  relay4 -list                 # same as: relay4 list
  relay4 0 write 2 on          # switch relay 2 on card 0 on
  relay4 0 write 5             # drive all relays from the value 0b0101
  relay4 0 read                # read all relay states as one value
  relay4 0 inread 3            # read opto input 3
  relay4 0 test result.txt     # production self-test, report to a file`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute rewrites the historical argument order into cobra's
// subcommand-first form and runs the root command. Any failure exits 1.
func Execute() {
	rootCmd.SetArgs(normalizeArgs(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log every I2C register transaction")
	rootCmd.PersistentFlags().StringVar(&busName, "bus", "", "I2C bus name or number (default: first available)")
}

// stackCommands are the subcommands that historically follow the stack level.
var stackCommands = map[string]bool{
	"write":  true,
	"read":   true,
	"inread": true,
	"test":   true,
}

// optionAliases maps the historical dash options to subcommands.
var optionAliases = map[string]string{
	"-h":        "help",
	"-v":        "version",
	"-warranty": "warranty",
	"-list":     "list",
}

// normalizeArgs rewrites the historical CLI surface (relay4 0 write 2 on,
// relay4 -list) into subcommand-first form. Arguments already in the new
// form pass through untouched.
func normalizeArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}
	if name, ok := optionAliases[args[0]]; ok {
		return append([]string{name}, args[1:]...)
	}
	if len(args) >= 2 && stackCommands[args[1]] {
		if _, err := strconv.Atoi(args[0]); err == nil {
			out := []string{args[1], args[0]}
			return append(out, args[2:]...)
		}
	}
	return args
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{Level: level}))
}

// busHandle is what the commands need from the transport: an address opener
// that can be shut down afterwards.
type busHandle interface {
	bus.Opener
	io.Closer
}

// openBusHandle is swapped out by tests to run the command tree against the
// bus simulator.
var openBusHandle = func() (busHandle, error) {
	return bus.OpenI2C(busName, newLogger())
}

func parseStack(arg string) (int, error) {
	stack, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid stack level %q (expected 0..7)", arg)
	}
	return stack, nil
}

// openBoard claims the card at the given stack level. The caller must close
// the returned bus handle.
func openBoard(stackArg string) (*board.Board, busHandle, error) {
	stack, err := parseStack(stackArg)
	if err != nil {
		return nil, nil, err
	}
	h, err := openBusHandle()
	if err != nil {
		return nil, nil, err
	}
	brd, err := board.Open(h, stack, board.WithLogger(newLogger()))
	if err != nil {
		h.Close()
		return nil, nil, err
	}
	return brd, h, nil
}
