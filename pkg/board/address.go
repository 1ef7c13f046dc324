package board

// baseAddr is the expander's 7-bit base address with all address pins low.
const baseAddr = 0x20

// Address resolves a logical stack level to the card's bus address. The three
// stack-selection jumpers are not wired to the expander's address pins in
// order: bit 0 of the level drives A2 and bit 2 drives A0, and the jumpers
// pull the pins low when closed. Both quirks are folded into one bit-exact
// transform: swap bits 0 and 2, then invert the low three address bits.
func Address(stack int) (uint16, error) {
	if stack < 0 || stack >= StackLevels {
		return 0, ErrInvalidStack
	}
	s := uint16(stack)
	scrambled := (s & 0b010) | ((s >> 2) & 0b001) | ((s << 2) & 0b100)
	return (baseAddr + scrambled) ^ 0b111, nil
}
