// Package board drives one stackable 4-relay/4-input card: it resolves the
// card's bus address from its stack level, configures the I/O expander on
// first contact, and performs read-verified relay writes.
package board

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/openrelaylab/relay4/pkg/bus"
)

// PCA9534-class expander registers, addressed relative to the card's bus
// address.
const (
	regInput    = 0x00
	regOutput   = 0x01
	regPolarity = 0x02
	regConfig   = 0x03

	// cfgSentinel configures the low nibble as inputs and the high nibble as
	// outputs. An expander that does not read back this value has not been
	// initialized yet.
	cfgSentinel = 0x0f
)

// StackLevels is the number of cards that can share one bus.
const StackLevels = 8

// RetryBudget bounds the write-then-verify attempts of the verified relay
// writes. Exhausting it means the hardware never settled on the requested
// value.
const RetryBudget = 10

var (
	ErrInvalidStack     = errors.New("board: stack level out of range [0..7]")
	ErrInvalidChannel   = errors.New("board: channel out of range [1..4]")
	ErrInvalidState     = errors.New("board: invalid relay state")
	ErrInvalidValue     = errors.New("board: relay value out of range [0..255]")
	ErrNotDetected      = errors.New("board: card not detected")
	ErrRetriesExhausted = errors.New("board: write verification retries exhausted")
)

// State is the commanded state of a relay output.
type State uint8

const (
	Off State = iota
	On
)

func (s State) String() string {
	switch s {
	case Off:
		return "off"
	case On:
		return "on"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// ParseState interprets a command-line relay state argument. The historical
// tool accepted on/up/1 and off/down/0 interchangeably.
func ParseState(arg string) (State, error) {
	switch arg {
	case "on", "On", "ON", "up", "Up", "UP", "1":
		return On, nil
	case "off", "Off", "OFF", "down", "Down", "DOWN", "0":
		return Off, nil
	}
	return Off, fmt.Errorf("%w: %q", ErrInvalidState, arg)
}

// Board is one card claimed on the bus. It owns no state beyond the
// connection; the relay state always lives in the card's registers.
type Board struct {
	conn  bus.Conn
	addr  uint16
	stack int
	log   *slog.Logger
}

// Option customizes a Board during Open.
type Option func(*Board)

// WithLogger routes the board's debug output to l.
func WithLogger(l *slog.Logger) Option {
	return func(b *Board) { b.log = l }
}

// Open claims the card at the given stack level and prepares it for use. The
// configuration register doubles as the presence probe: if it cannot be read
// the card is reported as not detected. A card whose configuration does not
// match the expected pin-direction sentinel gets first-time setup: direction
// configured, all relays switched off.
func Open(op bus.Opener, stack int, opts ...Option) (*Board, error) {
	addr, err := Address(stack)
	if err != nil {
		return nil, err
	}
	conn, err := op.Open(addr)
	if err != nil {
		return nil, fmt.Errorf("board: claim address %#02x: %w", addr, err)
	}

	b := &Board{
		conn:  conn,
		addr:  addr,
		stack: stack,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}

	var buf [1]byte
	if err := conn.ReadReg(regConfig, buf[:]); err != nil {
		return nil, fmt.Errorf("%w: stack level %d (%v)", ErrNotDetected, stack, err)
	}
	if buf[0] != cfgSentinel {
		b.log.Debug("first-time card setup", "stack", stack, "addr", addr)
		if err := conn.WriteReg(regConfig, []byte{cfgSentinel}); err != nil {
			return nil, fmt.Errorf("board: configure pin direction: %w", err)
		}
		if err := conn.WriteReg(regOutput, []byte{0}); err != nil {
			return nil, fmt.Errorf("board: clear outputs: %w", err)
		}
	}
	return b, nil
}

// Addr returns the resolved 7-bit bus address.
func (b *Board) Addr() uint16 {
	return b.addr
}

// Stack returns the logical stack level the board was opened at.
func (b *Board) Stack() int {
	return b.stack
}

// ProbeResult classifies a presence probe at one stack position.
type ProbeResult int

const (
	// ProbeOK means the card acknowledged and its config register is readable.
	ProbeOK ProbeResult = iota
	// ProbeNoReply means the address was claimed but the card did not answer.
	ProbeNoReply
	// ProbeNoBus means the bus address could not be claimed at all.
	ProbeNoBus
)

// Probe performs a presence check without configuring the card. It never
// mutates any register.
func Probe(op bus.Opener, stack int) ProbeResult {
	addr, err := Address(stack)
	if err != nil {
		return ProbeNoBus
	}
	conn, err := op.Open(addr)
	if err != nil {
		return ProbeNoBus
	}
	var buf [1]byte
	if err := conn.ReadReg(regConfig, buf[:]); err != nil {
		return ProbeNoReply
	}
	return ProbeOK
}

// Scan probes all stack positions and returns the levels with a responding
// card, in ascending order.
func Scan(op bus.Opener) []int {
	var found []int
	for stack := 0; stack < StackLevels; stack++ {
		if Probe(op, stack) == ProbeOK {
			found = append(found, stack)
		}
	}
	return found
}
