package selftest

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openrelaylab/relay4/pkg/board"
	"github.com/openrelaylab/relay4/pkg/bus"
)

const testDelay = time.Microsecond

type action struct {
	ch    int
	state board.State
}

// fakeRelays scripts the board side of a run: it records every action, can
// fail at a chosen action, and can trigger side effects (like delivering a
// verdict) after each successful one.
type fakeRelays struct {
	actions []action
	resets  int
	failOn  int // 1-based action index that returns an error, 0 = never
	after   func(n int)
}

func (f *fakeRelays) SetRelayVerified(ch int, s board.State) error {
	n := len(f.actions) + 1
	if f.failOn != 0 && n == f.failOn {
		return errors.New("write failed")
	}
	f.actions = append(f.actions, action{ch, s})
	if f.after != nil {
		f.after(n)
	}
	return nil
}

func (f *fakeRelays) SetRelays(val int) error {
	if val == 0 {
		f.resets++
	}
	return nil
}

func TestCancelFailSkipsRestOfPhase(t *testing.T) {
	verdicts := make(chan Verdict, 1)
	f := &fakeRelays{after: func(n int) {
		if n == 1 {
			verdicts <- Fail
		}
	}}

	v, err := Run(context.Background(), f, verdicts, Options{HoldDelay: testDelay})
	require.NoError(t, err)
	require.Equal(t, Fail, v)

	// The verdict lands after channel 1, so channels 2..4 are skipped.
	require.Equal(t, []action{{1, board.On}}, f.actions)
	require.Equal(t, 1, f.resets)
}

func TestCancelPassBeforeFirstAction(t *testing.T) {
	verdicts := make(chan Verdict, 1)
	verdicts <- Pass

	f := &fakeRelays{}
	v, err := Run(context.Background(), f, verdicts, Options{HoldDelay: testDelay})
	require.NoError(t, err)
	require.Equal(t, Pass, v)
	require.Empty(t, f.actions)
	require.Equal(t, 1, f.resets)
}

func TestPhasesAlternate(t *testing.T) {
	verdicts := make(chan Verdict, 1)
	f := &fakeRelays{after: func(n int) {
		if n == 8 {
			verdicts <- Pass
		}
	}}

	v, err := Run(context.Background(), f, verdicts, Options{HoldDelay: testDelay})
	require.NoError(t, err)
	require.Equal(t, Pass, v)

	want := []action{
		{1, board.On}, {2, board.On}, {3, board.On}, {4, board.On},
		{1, board.Off}, {2, board.Off}, {3, board.Off}, {4, board.Off},
	}
	require.Equal(t, want, f.actions)
	require.Equal(t, 1, f.resets)
}

func TestHardwareFaultIsFatalNotCancellation(t *testing.T) {
	verdicts := make(chan Verdict, 1)
	f := &fakeRelays{failOn: 3}

	_, err := Run(context.Background(), f, verdicts, Options{HoldDelay: testDelay})
	require.Error(t, err)
	require.Contains(t, err.Error(), "relay 3")
	// A hardware fault aborts outright; no defensive reset is attempted.
	require.Equal(t, 0, f.resets)
}

func TestContextCancellationResets(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &fakeRelays{}
	_, err := Run(ctx, f, make(chan Verdict), Options{HoldDelay: testDelay})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, f.resets)
}

func TestRunForcesRelayRegisterToZero(t *testing.T) {
	sim := bus.NewSim()
	addr, err := board.Address(0)
	require.NoError(t, err)
	sim.AddDevice(addr)
	sim.SetReg(addr, 0x03, 0x0f) // configured card
	sim.SetReg(addr, 0x00, 0x0f) // optos idle high

	verdicts := make(chan Verdict, 1)
	outWrites := 0
	sim.OnWritten = func(a uint16, reg uint8, data []byte) {
		if reg != 0x01 {
			return
		}
		// Reflect outputs into the input port like the real card.
		in := sim.Reg(a, 0x00)
		sim.SetReg(a, 0x00, data[0]&0xf0|in&0x0f)
		outWrites++
		if outWrites == 2 {
			verdicts <- Fail
		}
	}

	b, err := board.Open(sim, 0)
	require.NoError(t, err)

	v, err := Run(context.Background(), b, verdicts, Options{HoldDelay: testDelay})
	require.NoError(t, err)
	require.Equal(t, Fail, v)
	require.Equal(t, uint8(0), sim.Reg(addr, 0x01))
}

func TestListen(t *testing.T) {
	cases := []struct {
		input string
		want  Verdict
	}{
		{"y", Pass},
		{"Y\n", Pass},
		{"n", Fail},
		{" ", Fail},
		{"", Fail}, // EOF counts as a fail
	}

	for _, tc := range cases {
		select {
		case v := <-Listen(strings.NewReader(tc.input)):
			require.Equal(t, tc.want, v, "input %q", tc.input)
		case <-time.After(time.Second):
			t.Fatalf("no verdict for input %q", tc.input)
		}
	}
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, Pass))
	require.Equal(t, "Relay Test ............................ PASS\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteReport(&buf, Fail))
	require.Equal(t, "Relay Test ............................ FAIL!\n", buf.String())
}

func TestStateStrings(t *testing.T) {
	require.Equal(t, "running-on", RunningOn.String())
	require.Equal(t, "running-off", RunningOff.String())
	require.Equal(t, "cancelled-pass", CancelledPass.String())
	require.Equal(t, "cancelled-fail", CancelledFail.String())
	require.Equal(t, "PASS", Pass.String())
	require.Equal(t, "FAIL", Fail.String())
}
