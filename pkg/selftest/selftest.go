package selftest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/openrelaylab/relay4/pkg/board"
	"github.com/openrelaylab/relay4/pkg/remap"
)

// Verdict is the operator's classification of the observed relay behavior.
type Verdict int

const (
	Fail Verdict = iota
	Pass
)

func (v Verdict) String() string {
	if v == Pass {
		return "PASS"
	}
	return "FAIL"
}

// State tracks where the orchestrator is in its cycle. The two running states
// alternate until a verdict moves the machine to one of the terminal states.
type State int

const (
	RunningOn State = iota
	RunningOff
	CancelledPass
	CancelledFail
)

func (s State) String() string {
	switch s {
	case RunningOn:
		return "running-on"
	case RunningOff:
		return "running-off"
	case CancelledPass:
		return "cancelled-pass"
	case CancelledFail:
		return "cancelled-fail"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// DefaultHoldDelay is the pause after each relay action, long enough for the
// operator to see and hear the relay.
const DefaultHoldDelay = 150 * time.Millisecond

// relayOrder is the visual sequence the operator is asked to confirm.
var relayOrder = [remap.Channels]int{1, 2, 3, 4}

// Relays is the slice of the board API the orchestrator needs.
type Relays interface {
	SetRelayVerified(ch int, s board.State) error
	SetRelays(val int) error
}

// Options configure a run.
type Options struct {
	// HoldDelay is the pause after each relay action. Zero selects
	// DefaultHoldDelay.
	HoldDelay time.Duration
}

// Run drives the self-test until a verdict arrives on verdicts or ctx is
// cancelled. The verdicts channel carries at most one value, produced by the
// keypress listener; the loop polls it before acting on each channel, so a
// pending verdict skips the rest of the current phase. On any exit short of a
// hardware fault the relay register is forced to zero.
//
// A verified-write failure mid-test is fatal and is returned as an error,
// distinct from an operator Fail verdict.
func Run(ctx context.Context, rl Relays, verdicts <-chan Verdict, opts Options) (Verdict, error) {
	delay := opts.HoldDelay
	if delay == 0 {
		delay = DefaultHoldDelay
	}

	state := RunningOn
	for state == RunningOn || state == RunningOff {
		target := board.On
		next := RunningOff
		if state == RunningOff {
			target = board.Off
			next = RunningOn
		}

		done, err := runPhase(ctx, rl, target, verdicts, delay)
		if err != nil {
			if ctx.Err() != nil {
				rl.SetRelays(0)
			}
			return Fail, err
		}
		if done != nil {
			if *done == Pass {
				state = CancelledPass
			} else {
				state = CancelledFail
			}
			break
		}
		state = next
	}

	if err := rl.SetRelays(0); err != nil {
		return Fail, fmt.Errorf("selftest: reset relays: %w", err)
	}
	if state == CancelledPass {
		return Pass, nil
	}
	return Fail, nil
}

// runPhase sets every channel to target in order, polling for a verdict
// before each action. It returns the verdict if one arrived, or an error on
// hardware failure or context cancellation.
func runPhase(ctx context.Context, rl Relays, target board.State, verdicts <-chan Verdict, delay time.Duration) (*Verdict, error) {
	for _, ch := range relayOrder {
		select {
		case v := <-verdicts:
			return &v, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := rl.SetRelayVerified(ch, target); err != nil {
			return nil, fmt.Errorf("selftest: relay %d %v: %w", ch, target, err)
		}

		t := time.NewTimer(delay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		}
	}
	return nil, nil
}

// Listen starts the one-shot keypress listener. It reads a single byte from r
// in the background, classifies it (y/Y passes, anything else fails) and
// delivers exactly one verdict. The returned channel is buffered so the
// listener never blocks on a loop that has already stopped polling.
func Listen(r io.Reader) <-chan Verdict {
	ch := make(chan Verdict, 1)
	go func() {
		br := bufio.NewReader(r)
		b, err := br.ReadByte()
		if err != nil {
			ch <- Fail
			return
		}
		if b == 'y' || b == 'Y' {
			ch <- Pass
		} else {
			ch <- Fail
		}
	}()
	return ch
}

// WriteReport emits the production report line consumed by the factory
// tooling. The format is fixed; do not reword it.
func WriteReport(w io.Writer, v Verdict) error {
	line := "Relay Test ............................ PASS\n"
	if v != Pass {
		line = "Relay Test ............................ FAIL!\n"
	}
	_, err := io.WriteString(w, line)
	return err
}
