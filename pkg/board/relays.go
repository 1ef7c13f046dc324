package board

import (
	"fmt"

	"github.com/openrelaylab/relay4/pkg/remap"
)

// SetRelay switches a single relay channel with a read-modify-write on the
// output register. The current port state is read from the input register,
// which reflects the driven outputs on this card.
func (b *Board) SetRelay(ch int, s State) error {
	if !remap.ValidChannel(ch) {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, ch)
	}
	var buf [1]byte
	if err := b.conn.ReadReg(regInput, buf[:]); err != nil {
		return err
	}
	// The port read includes the opto nibble; zero it so only relay bits are
	// ever driven.
	buf[0] &= 0xf0
	switch s {
	case Off:
		buf[0] &^= remap.RelayMask(ch)
	case On:
		buf[0] |= remap.RelayMask(ch)
	default:
		return fmt.Errorf("%w: %d", ErrInvalidState, s)
	}
	return b.conn.WriteReg(regOutput, buf[:])
}

// Relay reads back the state of a single relay channel.
func (b *Board) Relay(ch int) (State, error) {
	if !remap.ValidChannel(ch) {
		return Off, fmt.Errorf("%w: %d", ErrInvalidChannel, ch)
	}
	var buf [1]byte
	if err := b.conn.ReadReg(regInput, buf[:]); err != nil {
		return Off, err
	}
	if buf[0]&remap.RelayMask(ch) != 0 {
		return On, nil
	}
	return Off, nil
}

// SetRelays writes all four relays at once from a logical value (bit i-1
// drives relay i). Values above 15 are accepted for compatibility with the
// historical tool; the remap discards bits with no relay behind them.
func (b *Board) SetRelays(val int) error {
	if val < 0 || val > 255 {
		return fmt.Errorf("%w: %d", ErrInvalidValue, val)
	}
	buf := [1]byte{remap.RelayToIO(uint8(val))}
	return b.conn.WriteReg(regOutput, buf[:])
}

// Relays reads back the logical value of all four relays.
func (b *Board) Relays() (uint8, error) {
	var buf [1]byte
	if err := b.conn.ReadReg(regInput, buf[:]); err != nil {
		return 0, err
	}
	return remap.IOToRelay(buf[0]), nil
}

// Input reads a single opto input channel. The input stage is active-low: a
// low pin reads as On.
func (b *Board) Input(ch int) (State, error) {
	if !remap.ValidChannel(ch) {
		return Off, fmt.Errorf("%w: %d", ErrInvalidChannel, ch)
	}
	var buf [1]byte
	if err := b.conn.ReadReg(regInput, buf[:]); err != nil {
		return Off, err
	}
	if buf[0]&remap.InputMask(ch) == 0 {
		return On, nil
	}
	return Off, nil
}

// Inputs reads the logical value of all four opto inputs.
func (b *Board) Inputs() (uint8, error) {
	var buf [1]byte
	if err := b.conn.ReadReg(regInput, buf[:]); err != nil {
		return 0, err
	}
	return remap.IOToIn(buf[0]), nil
}

// attempt runs fn until it reports success, at most tries times. A transport
// error aborts immediately; running out of attempts is a consistency failure.
func attempt(tries int, fn func() (bool, error)) error {
	for ; tries > 0; tries-- {
		ok, err := fn()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return ErrRetriesExhausted
}

// SetRelayVerified switches one relay and confirms the change by reading the
// channel back, repeating the write-then-read cycle until the observed state
// matches or the retry budget is spent. The retries absorb transient bus
// noise; a persistent mismatch surfaces as ErrRetriesExhausted.
func (b *Board) SetRelayVerified(ch int, s State) error {
	if !remap.ValidChannel(ch) {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, ch)
	}
	if s != Off && s != On {
		return fmt.Errorf("%w: %d", ErrInvalidState, s)
	}
	return attempt(RetryBudget, func() (bool, error) {
		if err := b.SetRelay(ch, s); err != nil {
			return false, err
		}
		got, err := b.Relay(ch)
		if err != nil {
			return false, err
		}
		return got == s, nil
	})
}

// SetRelaysVerified performs a verified bulk write of all four relays.
func (b *Board) SetRelaysVerified(val int) error {
	if val < 0 || val > 255 {
		return fmt.Errorf("%w: %d", ErrInvalidValue, val)
	}
	want := remap.IOToRelay(remap.RelayToIO(uint8(val)))
	return attempt(RetryBudget, func() (bool, error) {
		if err := b.SetRelays(val); err != nil {
			return false, err
		}
		got, err := b.Relays()
		if err != nil {
			return false, err
		}
		return got == want, nil
	})
}
