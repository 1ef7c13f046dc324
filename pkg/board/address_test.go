package board

import (
	"errors"
	"testing"
)

func TestAddressKnownValues(t *testing.T) {
	cases := []struct {
		stack int
		addr  uint16
	}{
		{0, 0x27},
		{1, 0x23},
		{2, 0x25},
		{3, 0x21},
		{4, 0x26},
		{5, 0x22},
		{6, 0x24},
		{7, 0x20},
	}

	for _, tc := range cases {
		got, err := Address(tc.stack)
		if err != nil {
			t.Fatalf("Address(%d) returned error: %v", tc.stack, err)
		}
		if got != tc.addr {
			t.Fatalf("Address(%d) = %#02x, want %#02x", tc.stack, got, tc.addr)
		}
	}
}

func TestAddressDistinct(t *testing.T) {
	seen := make(map[uint16]int)
	for stack := 0; stack < StackLevels; stack++ {
		addr, err := Address(stack)
		if err != nil {
			t.Fatalf("Address(%d) returned error: %v", stack, err)
		}
		if prev, dup := seen[addr]; dup {
			t.Fatalf("stacks %d and %d resolve to the same address %#02x", prev, stack, addr)
		}
		seen[addr] = stack
	}
}

func TestAddressRejectsOutOfRange(t *testing.T) {
	for _, stack := range []int{-1, 8, 100} {
		if _, err := Address(stack); !errors.Is(err, ErrInvalidStack) {
			t.Fatalf("Address(%d) error = %v, want ErrInvalidStack", stack, err)
		}
	}
}
