package hardware

import (
	"context"
	"fmt"

	"periph.io/x/conn/v3/i2c"

	"github.com/umputun/kibbler/pkg/clock"
)

// DS3231 register map, time-of-day part only.
const (
	ds3231Addr      = 0x68
	regSeconds      = 0x00
	regStatus       = 0x0F
	statusOSF  byte = 0x80 // oscillator stop flag, set after power loss
)

// DS3231 is the battery-backed RTC on the I2C bus. It implements the loop's
// RTC collaborator; only the time-of-day registers are used, the date stays
// whatever it is.
type DS3231 struct {
	dev *i2c.Dev
}

// NewDS3231 attaches to the RTC at its fixed address on the given bus.
func NewDS3231(bus i2c.Bus) *DS3231 {
	return &DS3231{dev: &i2c.Dev{Bus: bus, Addr: ds3231Addr}}
}

// Now reads the time registers in one transaction.
func (d *DS3231) Now(_ context.Context) (clock.Snapshot, error) {
	buf := make([]byte, 3)
	if err := d.dev.Tx([]byte{regSeconds}, buf); err != nil {
		return clock.Snapshot{}, fmt.Errorf("ds3231 read: %w", err)
	}

	snap := clock.Snapshot{
		Second: bcdToDec(buf[0] & 0x7F),
		Minute: bcdToDec(buf[1] & 0x7F),
		Hour:   decodeHour(buf[2]),
	}
	if !snap.Valid() {
		return clock.Snapshot{}, fmt.Errorf("ds3231 returned garbage %02x %02x %02x", buf[0], buf[1], buf[2])
	}
	return snap, nil
}

// Adjust writes the time registers and clears the oscillator-stop flag, so a
// freshly set clock is no longer reported as stale after a battery swap.
func (d *DS3231) Adjust(_ context.Context, target clock.Snapshot) error {
	if !target.Valid() {
		return fmt.Errorf("invalid time %s", target)
	}

	// writing the hour with bit 6 clear forces 24-hour mode
	w := []byte{regSeconds, decToBcd(target.Second), decToBcd(target.Minute), decToBcd(target.Hour)}
	if err := d.dev.Tx(w, nil); err != nil {
		return fmt.Errorf("ds3231 write: %w", err)
	}

	status := make([]byte, 1)
	if err := d.dev.Tx([]byte{regStatus}, status); err != nil {
		return fmt.Errorf("ds3231 status read: %w", err)
	}
	if status[0]&statusOSF != 0 {
		if err := d.dev.Tx([]byte{regStatus, status[0] &^ statusOSF}, nil); err != nil {
			return fmt.Errorf("ds3231 status clear: %w", err)
		}
	}
	return nil
}

// decodeHour handles both clock modes: bit 6 set means 12-hour with bit 5 as
// the PM flag, otherwise plain 24-hour BCD.
func decodeHour(b byte) int {
	if b&0x40 != 0 {
		h := bcdToDec(b&0x1F) % 12
		if b&0x20 != 0 {
			h += 12
		}
		return h
	}
	return bcdToDec(b & 0x3F)
}

func bcdToDec(b byte) int { return int(b>>4)*10 + int(b&0x0F) }

func decToBcd(v int) byte { return byte(v/10)<<4 | byte(v%10) }
