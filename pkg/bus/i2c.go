package bus

import (
	"fmt"
	"io"
	"log/slog"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// I2C is the periph.io-backed Opener. One I2C value owns one bus handle; all
// connections opened from it share that handle.
type I2C struct {
	bus i2c.BusCloser
	log *slog.Logger
}

// OpenI2C initializes the host drivers and opens the named I2C bus. An empty
// name selects the first available bus. log may be nil.
func OpenI2C(name string, log *slog.Logger) (*I2C, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("bus: host init: %w", err)
	}
	b, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("bus: open %q: %w", name, err)
	}
	return &I2C{bus: b, log: log}, nil
}

// Open claims a device address. The claim itself performs no bus traffic.
func (b *I2C) Open(addr uint16) (Conn, error) {
	return &i2cConn{
		dev: i2c.Dev{Bus: b.bus, Addr: addr},
		log: b.log,
	}, nil
}

// Close releases the bus handle.
func (b *I2C) Close() error {
	return b.bus.Close()
}

type i2cConn struct {
	dev i2c.Dev
	log *slog.Logger
}

func (c *i2cConn) ReadReg(reg uint8, p []byte) error {
	if err := c.dev.Tx([]byte{reg}, p); err != nil {
		return fmt.Errorf("bus: read reg %#02x at %#02x: %w", reg, c.dev.Addr, err)
	}
	c.log.Debug("i2c read", "addr", c.dev.Addr, "reg", reg, "data", p)
	return nil
}

func (c *i2cConn) WriteReg(reg uint8, p []byte) error {
	w := make([]byte, 0, len(p)+1)
	w = append(w, reg)
	w = append(w, p...)
	if err := c.dev.Tx(w, nil); err != nil {
		return fmt.Errorf("bus: write reg %#02x at %#02x: %w", reg, c.dev.Addr, err)
	}
	c.log.Debug("i2c write", "addr", c.dev.Addr, "reg", reg, "data", p)
	return nil
}
