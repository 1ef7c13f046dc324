// Package remap translates between the logical channel numbering presented to
// the user and the physical bit layout of the card's I/O expander.
//
// The card wires its four relays to the high nibble of the expander port in
// reverse order (relay 1 sits on bit 7, relay 4 on bit 4) and its four opto
// inputs to the low nibble, also reversed and with active-low logic. All
// conversions are pure table lookups; nothing in this package touches
// hardware.
package remap

// Channels is the number of relay channels and, equally, opto input channels
// on one card.
const Channels = 4

// ChannelMin is the lowest valid logical channel number. Channels are 1-based
// on the command line and in every exported API.
const ChannelMin = 1

// relayMasks maps logical relay channel (1-based, minus one) to the physical
// output-port bit mask. Relay 1 is the MSB by board wiring.
var relayMasks = [Channels]uint8{0x80, 0x40, 0x20, 0x10}

// relayBits is the bit-position form of relayMasks.
var relayBits = [Channels]uint8{7, 6, 5, 4}

// inMasks maps logical input channel (1-based, minus one) to the physical
// input-port bit mask. Input 1 is bit 3.
var inMasks = [Channels]uint8{0x08, 0x04, 0x02, 0x01}

// ValidChannel reports whether ch is a usable logical channel number.
func ValidChannel(ch int) bool {
	return ch >= ChannelMin && ch <= Channels
}

// RelayMask returns the output-port mask for logical relay channel ch.
// ch must be in [1, Channels].
func RelayMask(ch int) uint8 {
	return relayMasks[ch-1]
}

// RelayBit returns the output-port bit position for logical relay channel ch.
// ch must be in [1, Channels].
func RelayBit(ch int) uint8 {
	return relayBits[ch-1]
}

// InputMask returns the input-port mask for logical input channel ch.
// ch must be in [1, Channels].
func InputMask(ch int) uint8 {
	return inMasks[ch-1]
}

// RelayToIO converts a logical relay value (bit i-1 = relay i) to the
// physical output-port byte.
func RelayToIO(relay uint8) uint8 {
	var val uint8
	for i := 0; i < Channels; i++ {
		if relay&(1<<i) != 0 {
			val |= relayMasks[i]
		}
	}
	return val
}

// IOToRelay converts a physical port byte back to the logical relay value.
// It is the inverse of RelayToIO over the 4-bit logical space.
func IOToRelay(io uint8) uint8 {
	var val uint8
	for i := 0; i < Channels; i++ {
		if io&relayMasks[i] != 0 {
			val |= 1 << i
		}
	}
	return val
}

// IOToIn converts a physical port byte to the logical input value. The input
// stage is active-low: a cleared physical bit reads as a set logical bit.
func IOToIn(io uint8) uint8 {
	var val uint8
	for i := 0; i < Channels; i++ {
		if io&inMasks[i] == 0 {
			val |= 1 << i
		}
	}
	return val
}
