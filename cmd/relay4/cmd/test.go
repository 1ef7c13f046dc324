package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/openrelaylab/relay4/pkg/selftest"
)

var testCmd = &cobra.Command{
	Use:   "test <stack> [resultFile]",
	Short: "Run the production self-test",
	Long: `Cycle all relays on and off in sequence until a key is pressed. The
operator confirms the observed behavior: y passes the test, any other key
fails it. The PASS/FAIL report goes to stdout, or to resultFile if given.

Usage:
  relay4 <stack> test [resultFile]

Example:
  relay4 0 test`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	brd, h, err := openBoard(args[0])
	if err != nil {
		return err
	}
	defer h.Close()

	out := cmd.OutOrStdout()
	fmt.Fprint(out, "Are all relays and LEDs turning on and off in sequence?\nPress y for Yes or any key for No....")

	verdicts := selftest.Listen(cmd.InOrStdin())
	verdict, err := selftest.Run(cmd.Context(), brd, verdicts, selftest.Options{})
	if err != nil {
		return err
	}
	fmt.Fprintln(out)

	report := io.Writer(out)
	if len(args) == 2 {
		f, err := os.Create(args[1])
		if err != nil {
			// Historical behavior: warn and fall back to stdout.
			fmt.Fprintf(cmd.ErrOrStderr(), "Fail to open result file: %v\n", err)
		} else {
			defer f.Close()
			report = f
		}
	}
	return selftest.WriteReport(report, verdict)
}
