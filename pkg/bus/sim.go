package bus

import "fmt"

// Op records one register transaction observed by the simulator, for
// inspection within tests.
type Op struct {
	Addr  uint16
	Reg   uint8
	Write bool
	Data  []byte
}

// OpenHook lets tests refuse address claims.
type OpenHook func(addr uint16) error

// TxHook lets tests inject transport faults or override register behavior on
// a per-transaction basis. Returning a non-nil error fails the transaction.
type TxHook func(addr uint16, reg uint8) error

// WrittenHook runs after a successful write so tests can emulate
// device-specific register coupling (e.g. driven outputs reflected in an
// input port).
type WrittenHook func(addr uint16, reg uint8, data []byte)

// Sim is an in-memory Opener useful for unit tests. Devices added with
// AddDevice acknowledge transactions and keep a register file; any other
// address behaves like an empty bus slot (claim succeeds, transactions NACK).
type Sim struct {
	regs map[uint16]map[uint8]uint8
	ops  []Op

	OnOpen    OpenHook
	OnRead    TxHook
	OnWrite   TxHook
	OnWritten WrittenHook
}

// NewSim constructs an empty simulated bus.
func NewSim() *Sim {
	return &Sim{regs: make(map[uint16]map[uint8]uint8)}
}

// AddDevice makes a device present at addr with all registers zeroed.
func (s *Sim) AddDevice(addr uint16) {
	s.regs[addr] = make(map[uint8]uint8)
}

// SetReg sets a register on a present device.
func (s *Sim) SetReg(addr uint16, reg, val uint8) {
	dev, ok := s.regs[addr]
	if !ok {
		panic(fmt.Sprintf("bus: no simulated device at %#02x", addr))
	}
	dev[reg] = val
}

// Reg returns the current value of a register on a present device.
func (s *Sim) Reg(addr uint16, reg uint8) uint8 {
	dev, ok := s.regs[addr]
	if !ok {
		panic(fmt.Sprintf("bus: no simulated device at %#02x", addr))
	}
	return dev[reg]
}

// Ops returns a copy of all recorded transactions.
func (s *Sim) Ops() []Op {
	return append([]Op(nil), s.ops...)
}

// Writes returns only the recorded write transactions.
func (s *Sim) Writes() []Op {
	var out []Op
	for _, op := range s.ops {
		if op.Write {
			out = append(out, op)
		}
	}
	return out
}

// Open claims an address on the simulated bus.
func (s *Sim) Open(addr uint16) (Conn, error) {
	if s.OnOpen != nil {
		if err := s.OnOpen(addr); err != nil {
			return nil, err
		}
	}
	return &simConn{sim: s, addr: addr}, nil
}

type simConn struct {
	sim  *Sim
	addr uint16
}

func (c *simConn) ReadReg(reg uint8, p []byte) error {
	if c.sim.OnRead != nil {
		if err := c.sim.OnRead(c.addr, reg); err != nil {
			return err
		}
	}
	dev, ok := c.sim.regs[c.addr]
	if !ok {
		return fmt.Errorf("%w: %#02x", ErrNoDevice, c.addr)
	}
	for i := range p {
		p[i] = dev[reg+uint8(i)]
	}
	c.sim.ops = append(c.sim.ops, Op{Addr: c.addr, Reg: reg, Data: append([]byte(nil), p...)})
	return nil
}

func (c *simConn) WriteReg(reg uint8, p []byte) error {
	if c.sim.OnWrite != nil {
		if err := c.sim.OnWrite(c.addr, reg); err != nil {
			return err
		}
	}
	dev, ok := c.sim.regs[c.addr]
	if !ok {
		return fmt.Errorf("%w: %#02x", ErrNoDevice, c.addr)
	}
	for i, b := range p {
		dev[reg+uint8(i)] = b
	}
	c.sim.ops = append(c.sim.ops, Op{Addr: c.addr, Reg: reg, Write: true, Data: append([]byte(nil), p...)})
	if c.sim.OnWritten != nil {
		c.sim.OnWritten(c.addr, reg, p)
	}
	return nil
}
