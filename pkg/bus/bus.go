// Package bus abstracts the register transport used to talk to a card's I/O
// expander. The real implementation sits on periph.io's I2C stack; tests use
// the in-memory Sim implementation.
package bus

import "errors"

// Conn is a register-addressed connection to a single device on the bus.
// Registers are one byte wide and addressed relative to the device.
type Conn interface {
	// ReadReg reads len(p) bytes starting at register reg.
	ReadReg(reg uint8, p []byte) error
	// WriteReg writes len(p) bytes starting at register reg.
	WriteReg(reg uint8, p []byte) error
}

// Opener claims a 7-bit device address on an underlying bus and hands back a
// connection to it. Claiming an address does not imply a device is present;
// presence is only established by a successful register read.
type Opener interface {
	Open(addr uint16) (Conn, error)
}

// ErrNoDevice is returned when a device does not acknowledge a transaction.
var ErrNoDevice = errors.New("bus: no acknowledge from device")
