package board

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openrelaylab/relay4/pkg/bus"
)

// addCard makes a configured card present at the given stack level. The
// input-port low nibble idles high, matching unconnected opto inputs.
func addCard(t *testing.T, sim *bus.Sim, stack int) uint16 {
	t.Helper()
	addr, err := Address(stack)
	require.NoError(t, err)
	sim.AddDevice(addr)
	sim.SetReg(addr, regConfig, cfgSentinel)
	sim.SetReg(addr, regInput, 0x0f)
	return addr
}

// mirrorOutputs couples the simulated output port back into the input port
// the way the real card does: the high nibble of the input register follows
// the driven outputs.
func mirrorOutputs(sim *bus.Sim) {
	sim.OnWritten = func(addr uint16, reg uint8, data []byte) {
		if reg == regOutput && len(data) == 1 {
			in := sim.Reg(addr, regInput)
			sim.SetReg(addr, regInput, data[0]&0xf0|in&0x0f)
		}
	}
}

func TestOpenConfiguresNewCard(t *testing.T) {
	sim := bus.NewSim()
	addr, err := Address(0)
	require.NoError(t, err)
	sim.AddDevice(addr) // config register reads 0, i.e. factory state

	_, err = Open(sim, 0)
	require.NoError(t, err)

	require.Equal(t, uint8(cfgSentinel), sim.Reg(addr, regConfig))
	require.Equal(t, uint8(0), sim.Reg(addr, regOutput))

	writes := sim.Writes()
	require.Len(t, writes, 2)
	require.Equal(t, uint8(regConfig), writes[0].Reg)
	require.Equal(t, uint8(regOutput), writes[1].Reg)
}

func TestOpenLeavesConfiguredCardAlone(t *testing.T) {
	sim := bus.NewSim()
	addCard(t, sim, 3)

	b, err := Open(sim, 3)
	require.NoError(t, err)
	require.Equal(t, 3, b.Stack())
	require.Equal(t, uint16(0x21), b.Addr())
	require.Empty(t, sim.Writes())
}

func TestOpenNotDetected(t *testing.T) {
	sim := bus.NewSim()

	_, err := Open(sim, 0)
	require.ErrorIs(t, err, ErrNotDetected)
	require.Empty(t, sim.Writes())
}

func TestOpenRejectsStackLevel(t *testing.T) {
	sim := bus.NewSim()
	for _, stack := range []int{-1, 8} {
		_, err := Open(sim, stack)
		require.ErrorIs(t, err, ErrInvalidStack)
	}
}

func TestProbe(t *testing.T) {
	sim := bus.NewSim()
	addCard(t, sim, 2)

	require.Equal(t, ProbeOK, Probe(sim, 2))
	require.Equal(t, ProbeNoReply, Probe(sim, 0))

	sim.OnOpen = func(addr uint16) error { return errors.New("bus busy") }
	require.Equal(t, ProbeNoBus, Probe(sim, 2))
}

func TestProbeDoesNotWrite(t *testing.T) {
	sim := bus.NewSim()
	sim.AddDevice(0x27) // stack 0, unconfigured

	require.Equal(t, ProbeOK, Probe(sim, 0))
	require.Empty(t, sim.Writes())
}

func TestScan(t *testing.T) {
	sim := bus.NewSim()
	require.Empty(t, Scan(sim))

	addCard(t, sim, 2)
	addCard(t, sim, 5)
	require.Equal(t, []int{2, 5}, Scan(sim))
}

func TestParseState(t *testing.T) {
	for _, arg := range []string{"on", "On", "ON", "up", "1"} {
		s, err := ParseState(arg)
		require.NoError(t, err, arg)
		require.Equal(t, On, s, arg)
	}
	for _, arg := range []string{"off", "OFF", "down", "0"} {
		s, err := ParseState(arg)
		require.NoError(t, err, arg)
		require.Equal(t, Off, s, arg)
	}
	_, err := ParseState("blink")
	require.ErrorIs(t, err, ErrInvalidState)
}
